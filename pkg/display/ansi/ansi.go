// Package ansi presents frames in the terminal with fortio ansipixels.
package ansi

import (
	"errors"
	"fmt"
	"image"

	"fortio.org/log"
	"fortio.org/terminal"
	"fortio.org/terminal/ansipixels"
	"github.com/taigrr/spincube/pkg/input"
)

// pollFPS sets the ansipixels read timeout (1/fps). It is kept short so a
// poll with no pending input returns almost immediately.
const pollFPS = 1000

// Backend draws the framebuffer scaled to the terminal with half-block
// pixels and decodes raw keyboard bytes into events.
type Backend struct {
	ap      *ansipixels.AnsiPixels
	showHUD bool
	hud     *HUD
}

// New creates a terminal backend, optionally with an FPS overlay.
func New(showHUD bool) *Backend {
	return &Backend{showHUD: showHUD, hud: NewHUD()}
}

// Open switches the terminal to raw mode. The surface size is the logical
// framebuffer size; frames are scaled to whatever the terminal offers.
func (b *Backend) Open(width, height int) error {
	b.ap = ansipixels.NewAnsiPixels(pollFPS)
	if err := b.ap.Open(); err != nil {
		return fmt.Errorf("open ansipixels: %w", err)
	}
	if b.ap.W <= 0 || b.ap.H <= 0 {
		b.ap.Restore()
		return fmt.Errorf("invalid terminal size: %dx%d", b.ap.W, b.ap.H)
	}
	b.ap.SyncBackgroundColor()
	b.ap.HideCursor()
	log.LogVf("Terminal %dx%d showing a %dx%d surface", b.ap.W, b.ap.H, width, height)
	return nil
}

// Poll reads whatever input is pending, waiting at most one read timeout.
func (b *Backend) Poll() ([]input.Event, error) {
	n, err := b.ap.ReadOrResizeOrSignalOnce()
	return decode(b.ap.Data, n, err)
}

// decode turns one ansipixels read into events. Signals (resize included)
// leave the previous read in data, so only a positive n carries new bytes.
// An interrupt or terminate signal is a quit request.
func decode(data []byte, n int, err error) ([]input.Event, error) {
	if errors.Is(err, terminal.ErrSignal) {
		log.LogVf("Signal received, quitting")
		return []input.Event{input.QuitEvent()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("terminal input: %w", err)
	}
	if n <= 0 {
		return nil, nil
	}
	return input.DecodeTerminal(data[:min(n, len(data))]), nil
}

// Present draws img in one synchronized update.
func (b *Backend) Present(img *image.RGBA) error {
	b.ap.StartSyncMode()
	b.ap.ClearScreen()
	if err := b.ap.ShowScaledImage(img); err != nil {
		return fmt.Errorf("show image: %w", err)
	}
	b.hud.Tick()
	if b.showHUD {
		b.hud.Draw(b.ap)
	}
	b.ap.EndSyncMode()
	return b.ap.Out.Flush()
}

// Close restores the terminal.
func (b *Backend) Close() error {
	if b.ap == nil {
		return nil
	}
	b.ap.ShowCursor()
	err := b.ap.Out.Flush()
	b.ap.Restore()
	return err
}
