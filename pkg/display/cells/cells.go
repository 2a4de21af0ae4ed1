// Package cells presents frames as half-block cells on a tcell screen.
package cells

import (
	"fmt"
	"image"
	"unicode"

	"fortio.org/log"
	"github.com/gdamore/tcell/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/taigrr/spincube/pkg/input"
)

// upperHalf shows the foreground in the top half of a cell and the
// background in the bottom half, giving two pixels per cell.
const upperHalf = '▀'

// Backend drives a tcell.Screen. A goroutine pumps PollEvent into a buffered
// channel that Poll drains without blocking.
type Backend struct {
	newScreen func() (tcell.Screen, error)
	screen    tcell.Screen
	events    chan tcell.Event
	done      chan struct{}
	scaled    *image.RGBA
}

// New creates a backend on the real terminal.
func New() *Backend {
	return &Backend{newScreen: tcell.NewScreen}
}

// Open initializes the screen and starts the event pump.
func (b *Backend) Open(width, height int) error {
	screen, err := b.newScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	screen.HideCursor()
	screen.Clear()
	b.screen = screen
	b.events = make(chan tcell.Event, 100)
	b.done = make(chan struct{})
	go b.pump(screen)
	cols, rows := screen.Size()
	log.LogVf("tcell screen %dx%d showing a %dx%d surface", cols, rows, width, height)
	return nil
}

func (b *Backend) pump(screen tcell.Screen) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case b.events <- ev:
		case <-b.done:
			return
		}
	}
}

// Poll returns the events queued so far.
func (b *Backend) Poll() ([]input.Event, error) {
	var events []input.Event
	for {
		select {
		case ev := <-b.events:
			if e, ok := translate(ev); ok {
				events = append(events, e)
			}
		default:
			return events, nil
		}
	}
}

// translate maps a tcell event to an input event. Resize and mouse events
// are not input for the demo.
func translate(ev tcell.Event) (input.Event, bool) {
	kev, ok := ev.(*tcell.EventKey)
	if !ok {
		return input.Event{}, false
	}
	switch kev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC, tcell.KeyCtrlD:
		return input.QuitEvent(), true
	case tcell.KeyLeft:
		return input.Press(input.KeyLeft), true
	case tcell.KeyRight:
		return input.Press(input.KeyRight), true
	case tcell.KeyUp:
		return input.Press(input.KeyUp), true
	case tcell.KeyDown:
		return input.Press(input.KeyDown), true
	case tcell.KeyRune:
		switch unicode.ToLower(kev.Rune()) {
		case 'a':
			return input.Press(input.KeyA), true
		case 'd':
			return input.Press(input.KeyD), true
		case 'w':
			return input.Press(input.KeyW), true
		case 's':
			return input.Press(input.KeyS), true
		}
	}
	return input.Press(input.KeyOther), true
}

// Present scales img to the screen and draws it.
func (b *Backend) Present(img *image.RGBA) error {
	cols, rows := b.screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil
	}
	b.scaled = downsample(img, cols, rows*2, b.scaled)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := b.scaled.RGBAAt(x, 2*y)
			bottom := b.scaled.RGBAAt(x, 2*y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			b.screen.SetContent(x, y, upperHalf, nil, style)
		}
	}
	b.screen.Show()
	return nil
}

// downsample scales src into a w×h image, reusing dst when it fits.
func downsample(src *image.RGBA, w, h int, dst *image.RGBA) *image.RGBA {
	if dst == nil || dst.Bounds().Dx() != w || dst.Bounds().Dy() != h {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// Close stops the pump and restores the terminal.
func (b *Backend) Close() error {
	if b.screen == nil {
		return nil
	}
	close(b.done)
	b.screen.Fini()
	b.screen = nil
	return nil
}
