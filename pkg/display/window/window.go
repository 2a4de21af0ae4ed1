//go:build cgo || !(linux || freebsd)

// Package window presents frames in a desktop window using ebiten.
package window

import (
	"context"
	"fmt"
	"image"
	"time"

	"fortio.org/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/spincube/pkg/input"
)

// keymap translates the ebiten keys the demo reacts to.
var keymap = map[ebiten.Key]input.Key{
	ebiten.KeyA:          input.KeyA,
	ebiten.KeyD:          input.KeyD,
	ebiten.KeyW:          input.KeyW,
	ebiten.KeyS:          input.KeyS,
	ebiten.KeyArrowLeft:  input.KeyLeft,
	ebiten.KeyArrowRight: input.KeyRight,
	ebiten.KeyArrowUp:    input.KeyUp,
	ebiten.KeyArrowDown:  input.KeyDown,
}

// Backend is a title-less, fixed-size ebiten window. Ebiten owns the main
// loop, so frames are driven through Drive with one tick per frame.
type Backend struct {
	tps           int
	width, height int
	keys          []ebiten.Key
	frame         *ebiten.Image
}

// New creates a window backend that ticks once per frameDelay.
func New(frameDelay time.Duration) *Backend {
	tps := 100
	if frameDelay > 0 {
		tps = max(int(time.Second/frameDelay), 1)
	}
	return &Backend{tps: tps}
}

// Open configures the window. The window itself appears when Drive starts.
func (b *Backend) Open(width, height int) error {
	b.width, b.height = width, height
	ebiten.SetWindowTitle("")
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(b.tps)
	log.Infof("Window %dx%d at %d ticks/s", width, height, b.tps)
	return nil
}

// Poll reports the keys pressed this tick, then a close request if the user
// closed the window.
func (b *Backend) Poll() ([]input.Event, error) {
	b.keys = inpututil.AppendJustPressedKeys(b.keys[:0])
	events := translateKeys(b.keys)
	if ebiten.IsWindowBeingClosed() {
		events = append(events, input.QuitEvent())
	}
	return events, nil
}

func translateKeys(keys []ebiten.Key) []input.Event {
	var events []input.Event
	for _, k := range keys {
		key, ok := keymap[k]
		if !ok {
			key = input.KeyOther
		}
		events = append(events, input.Press(key))
	}
	return events
}

// Present uploads the frame; the next Draw shows it.
func (b *Backend) Present(img *image.RGBA) error {
	if b.frame == nil {
		b.frame = ebiten.NewImage(b.width, b.height)
	}
	b.frame.WritePixels(img.Pix)
	return nil
}

// Close releases the GPU image. The window closes when Drive returns.
func (b *Backend) Close() error {
	if b.frame != nil {
		b.frame.Deallocate()
		b.frame = nil
	}
	return nil
}

// Drive runs the ebiten game loop, calling step once per tick. Cancellation
// is observed by step itself.
func (b *Backend) Drive(_ context.Context, step func() (bool, error)) error {
	g := &game{b: b, step: step}
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

type game struct {
	b    *Backend
	step func() (bool, error)
}

func (g *game) Update() error {
	running, err := g.step()
	if err != nil {
		return err
	}
	if !running {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.b.frame != nil {
		screen.DrawImage(g.b.frame, nil)
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.b.width, g.b.height
}
