package scene

import (
	"context"
	"fmt"
	"image"
	"time"

	"fortio.org/log"
	"github.com/taigrr/spincube/pkg/input"
	"github.com/taigrr/spincube/pkg/math3d"
	"github.com/taigrr/spincube/pkg/models"
	"github.com/taigrr/spincube/pkg/render"
)

// State is the loop lifecycle state.
type State int

const (
	Running    State = iota // Accepting frames
	Terminated              // A quit event was seen; no further frames
)

func (s State) String() string {
	if s == Running {
		return "Running"
	}
	return "Terminated"
}

// Backend owns the platform surface and its input queue.
type Backend interface {
	// Open creates the width×height double-buffered surface.
	Open(width, height int) error
	// Poll returns the events queued since the previous call, oldest first.
	// It must not wait for input to arrive.
	Poll() ([]input.Event, error)
	// Present shows a finished frame.
	Present(img *image.RGBA) error
	// Close releases the surface.
	Close() error
}

// Driver is implemented by backends whose platform insists on running the
// main loop itself. Drive calls step once per frame until it returns false
// or an error, pacing frames at the backend's fixed tick.
type Driver interface {
	Drive(ctx context.Context, step func() (bool, error)) error
}

// Option customizes a Loop.
type Option func(*Loop)

// WithCanvas replaces the rasterizer as the draw target.
func WithCanvas(c render.Canvas) Option {
	return func(l *Loop) { l.canvas = c }
}

// WithSleep replaces time.Sleep for the inter-frame delay.
func WithSleep(sleep func(time.Duration)) Option {
	return func(l *Loop) { l.sleep = sleep }
}

// Loop is the render loop. It is not safe for concurrent use; everything
// happens on the goroutine that calls Run.
type Loop struct {
	cfg        Config
	backend    Backend
	mesh       *models.Mesh
	fb         *render.Framebuffer
	canvas     render.Canvas
	img        *image.RGBA
	projection math3d.Mat4
	transform  *Transform
	state      State
	frames     uint64
	sleep      func(time.Duration)
}

// New validates cfg, opens the backend surface and sets up the projection
// and starting transform.
func New(cfg Config, backend Backend, opts ...Option) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &Loop{
		cfg:       cfg,
		backend:   backend,
		mesh:      models.NewCube(),
		fb:        render.NewFramebuffer(cfg.Width, cfg.Height),
		img:       image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		transform: NewTransform(),
		sleep:     time.Sleep,
	}
	l.fb.BG = cfg.Background
	rast := render.NewRasterizer(l.fb)
	rast.DepthTest = cfg.DepthTest
	l.canvas = rast
	for _, o := range opts {
		o(l)
	}

	if err := backend.Open(cfg.Width, cfg.Height); err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}

	l.projection = math3d.Perspective(math3d.Radians(cfg.FOV), cfg.Aspect(), cfg.Near, cfg.Far)
	l.transform.Reset()
	l.transform.Translate(math3d.V3(0, 0, -cfg.Distance))
	log.Infof("Scene ready: %dx%d, fov %.0f, clip %v..%v, %d faces",
		cfg.Width, cfg.Height, cfg.FOV, cfg.Near, cfg.Far, l.mesh.FaceCount())
	return l, nil
}

// Transform returns the accumulated transform.
func (l *Loop) Transform() *Transform {
	return l.transform
}

// Projection returns the projection matrix.
func (l *Loop) Projection() math3d.Mat4 {
	return l.projection
}

// State returns the lifecycle state.
func (l *Loop) State() State {
	return l.state
}

// Frames returns how many frames have been drawn.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Framebuffer returns the render target.
func (l *Loop) Framebuffer() *render.Framebuffer {
	return l.fb
}

// Frame runs one update and draw: autorotate, apply events in order, then
// draw the cube. It returns false, without drawing, once a quit event is seen.
func (l *Loop) Frame(events []input.Event) bool {
	if l.state == Terminated {
		return false
	}
	l.transform.Rotate(l.cfg.AutoAngle, l.cfg.AutoAxis)
	for _, ev := range events {
		switch ev.Kind {
		case input.KindQuit:
			log.Debugf("Quit requested after %d frames", l.frames)
			l.state = Terminated
			return false
		case input.KindKey:
			b, ok := input.Lookup(ev.Key)
			if !ok {
				continue
			}
			log.Debugf("Key %v", ev.Key)
			l.transform.Apply(b)
		}
	}
	l.draw()
	l.frames++
	return true
}

func (l *Loop) draw() {
	l.canvas.Clear()
	mvp := l.projection.Mul(l.transform.Matrix())
	for i, f := range l.mesh.Faces {
		l.canvas.DrawQuad(l.mesh.Quad(i), mvp, render.FromTriple(f.Color))
	}
	if !l.cfg.Wireframe {
		return
	}
	for i := range l.mesh.Edges {
		a, b := l.mesh.Segment(i)
		l.canvas.DrawLine(a, b, mvp, render.ColorWhite)
	}
}

// Step polls the backend, runs a Frame and presents it. It reports false
// when the loop has terminated.
func (l *Loop) Step() (bool, error) {
	events, err := l.backend.Poll()
	if err != nil {
		return false, fmt.Errorf("poll input: %w", err)
	}
	if !l.Frame(events) {
		return false, nil
	}
	l.fb.CopyTo(l.img)
	if err := l.backend.Present(l.img); err != nil {
		return false, fmt.Errorf("present: %w", err)
	}
	return true, nil
}

// Run steps until quit, an error, or ctx is done. Cancellation counts as a
// quit. Frames are separated by the fixed FrameDelay.
func (l *Loop) Run(ctx context.Context) error {
	if d, ok := l.backend.(Driver); ok {
		return d.Drive(ctx, func() (bool, error) {
			if ctx.Err() != nil {
				l.state = Terminated
				return false, nil
			}
			return l.Step()
		})
	}
	for {
		if ctx.Err() != nil {
			l.state = Terminated
			return nil
		}
		running, err := l.Step()
		if err != nil || !running {
			return err
		}
		l.sleep(l.cfg.FrameDelay)
	}
}

// Close releases the backend.
func (l *Loop) Close() error {
	l.state = Terminated
	return l.backend.Close()
}
