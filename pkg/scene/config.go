// Package scene runs the interactive render loop: it owns the accumulated
// transform, dispatches polled input onto it and draws the cube each frame.
package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/taigrr/spincube/pkg/math3d"
	"github.com/taigrr/spincube/pkg/render"
)

// ErrInvalidConfig is wrapped by Config.Validate failures.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the fixed parameters of the demo.
type Config struct {
	Width, Height int           // Surface size in pixels
	FOV           float64       // Vertical field of view in degrees
	Near, Far     float64       // Clip planes
	Distance      float64       // Initial push along -Z so the cube is visible
	FrameDelay    time.Duration // Sleep after each present
	AutoAngle     float64       // Degrees rotated every frame
	AutoAxis      math3d.Vec3   // Axis of the per-frame rotation
	Wireframe     bool          // Draw edges over the faces
	DepthTest     bool          // Hide occluded fragments
	Background    render.Color  // Clear color
}

// DefaultConfig returns the stock 800x600 demo settings.
func DefaultConfig() Config {
	return Config{
		Width:      800,
		Height:     600,
		FOV:        45,
		Near:       0.1,
		Far:        50,
		Distance:   10,
		FrameDelay: 10 * time.Millisecond,
		AutoAngle:  3,
		AutoAxis:   math3d.V3(2, 1, 0),
		Background: render.ColorBlack,
	}
}

// Aspect returns width/height.
func (c Config) Aspect() float64 {
	return float64(c.Width) / float64(c.Height)
}

// Validate checks the config is usable.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: surface %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.FOV <= 0 || c.FOV >= 180:
		return fmt.Errorf("%w: fov %v", ErrInvalidConfig, c.FOV)
	case c.Near <= 0 || c.Far <= c.Near:
		return fmt.Errorf("%w: clip planes %v..%v", ErrInvalidConfig, c.Near, c.Far)
	case c.FrameDelay < 0:
		return fmt.Errorf("%w: frame delay %v", ErrInvalidConfig, c.FrameDelay)
	}
	return nil
}
