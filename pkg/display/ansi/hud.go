package ansi

import (
	"time"

	"fortio.org/terminal/ansipixels"
	"fortio.org/terminal/ansipixels/tcolor"
)

// HUD renders an FPS and key help overlay.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	now       func() time.Time
}

// NewHUD creates a new HUD.
func NewHUD() *HUD {
	return &HUD{
		fpsTime: time.Now(),
		now:     time.Now,
	}
}

// Tick counts a presented frame (call once per frame).
func (h *HUD) Tick() {
	h.fpsFrames++
	elapsed := h.now().Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = h.now()
	}
}

// FPS returns the rate measured over the last full second.
func (h *HUD) FPS() float64 {
	return h.fps
}

// Draw writes the overlay on top of the current frame.
func (h *HUD) Draw(ap *ansipixels.AnsiPixels) {
	ap.WriteAt(0, 0, tcolor.Green.Foreground()+"%.0f FPS "+tcolor.Reset, h.fps)
	ap.WriteRight(ap.H-1, "%sWASD move  arrows rotate  Esc quit%s", tcolor.Yellow.Foreground(), tcolor.Reset)
}
