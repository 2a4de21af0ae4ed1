package scene

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/taigrr/spincube/pkg/input"
	"github.com/taigrr/spincube/pkg/math3d"
	"github.com/taigrr/spincube/pkg/models"
	"github.com/taigrr/spincube/pkg/render"
)

const eps = 1e-9

type quadCall struct {
	v   [4]math3d.Vec3
	mvp math3d.Mat4
	c   render.Color
}

// recorder is a render.Canvas that remembers what it was asked to draw.
type recorder struct {
	clears int
	quads  []quadCall
	lines  int
}

func (r *recorder) Clear() { r.clears++ }

func (r *recorder) DrawQuad(v [4]math3d.Vec3, mvp math3d.Mat4, c render.Color) {
	r.quads = append(r.quads, quadCall{v, mvp, c})
}

func (r *recorder) DrawLine(_, _ math3d.Vec3, _ math3d.Mat4, _ render.Color) { r.lines++ }

// fakeBackend hands out one batch of events per Poll.
type fakeBackend struct {
	openErr  error
	pollErr  error
	batches  [][]input.Event
	polls    int
	presents int
	closed   bool
	w, h     int
}

func (b *fakeBackend) Open(w, h int) error {
	b.w, b.h = w, h
	return b.openErr
}

func (b *fakeBackend) Poll() ([]input.Event, error) {
	if b.pollErr != nil {
		return nil, b.pollErr
	}
	b.polls++
	if len(b.batches) == 0 {
		return nil, nil
	}
	ev := b.batches[0]
	b.batches = b.batches[1:]
	return ev, nil
}

func (b *fakeBackend) Present(img *image.RGBA) error {
	if img.Bounds().Dx() != b.w || img.Bounds().Dy() != b.h {
		return errors.New("wrong frame size")
	}
	b.presents++
	return nil
}

func (b *fakeBackend) Close() error {
	b.closed = true
	return nil
}

func newTestLoop(t *testing.T, b *fakeBackend) (*Loop, *recorder) {
	t.Helper()
	rec := &recorder{}
	l, err := New(DefaultConfig(), b, WithCanvas(rec), WithSleep(func(time.Duration) {}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, rec
}

func rot(deg float64, x, y, z float64) math3d.Mat4 {
	return math3d.Rotate(math3d.Radians(deg), math3d.V3(x, y, z))
}

var start = math3d.Translate(math3d.V3(0, 0, -10))

func TestNewInitialState(t *testing.T) {
	b := &fakeBackend{}
	l, _ := newTestLoop(t, b)
	if b.w != 800 || b.h != 600 {
		t.Errorf("backend opened %dx%d, want 800x600", b.w, b.h)
	}
	if got := l.Transform().Matrix(); got != start {
		t.Errorf("initial transform = %v, want pure translation (0,0,-10)", got)
	}
	if l.State() != Running {
		t.Errorf("State() = %v, want Running", l.State())
	}
	want := math3d.Perspective(math3d.Radians(45), 800.0/600.0, 0.1, 50)
	if !l.Projection().ApproxEqual(want, eps) {
		t.Errorf("Projection() = %v, want %v", l.Projection(), want)
	}
}

func TestNewOpenFailure(t *testing.T) {
	openErr := errors.New("no display")
	_, err := New(DefaultConfig(), &fakeBackend{openErr: openErr})
	if !errors.Is(err, openErr) {
		t.Errorf("New() error = %v, want wrapped %v", err, openErr)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"fov", func(c *Config) { c.FOV = 180 }},
		{"near", func(c *Config) { c.Near = 0 }},
		{"far before near", func(c *Config) { c.Far = 0.05 }},
		{"delay", func(c *Config) { c.FrameDelay = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			b := &fakeBackend{}
			if _, err := New(cfg, b); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, want ErrInvalidConfig", err)
			}
			if b.w != 0 {
				t.Error("backend opened despite invalid config")
			}
		})
	}
}

func TestIdleFrame(t *testing.T) {
	b := &fakeBackend{}
	l, rec := newTestLoop(t, b)
	running, err := l.Step()
	if err != nil || !running {
		t.Fatalf("Step() = %v, %v; want true, nil", running, err)
	}

	want := start.Mul(rot(3, 2, 1, 0))
	got := l.Transform().Matrix()
	if !got.ApproxEqual(want, eps) {
		t.Errorf("transform after one frame = %v, want T·R(3°, (2,1,0)) = %v", got, want)
	}
	if got.Translation() != math3d.V3(0, 0, -10) {
		t.Errorf("translation = %v, want (0,0,-10)", got.Translation())
	}
	if rec.clears != 1 || b.presents != 1 {
		t.Errorf("clears = %d, presents = %d; want 1 and 1", rec.clears, b.presents)
	}
	if rec.lines != 0 {
		t.Errorf("drew %d lines with wireframe off", rec.lines)
	}

	cube := models.NewCube()
	if len(rec.quads) != 6 {
		t.Fatalf("drew %d quads, want 6", len(rec.quads))
	}
	mvp := l.Projection().Mul(want)
	for i, q := range rec.quads {
		if q.v != cube.Quad(i) {
			t.Errorf("quad %d = %v, want %v", i, q.v, cube.Quad(i))
		}
		if wantC := render.FromTriple(cube.Faces[i].Color); q.c != wantC {
			t.Errorf("quad %d color = %v, want %v", i, q.c, wantC)
		}
		if !q.mvp.ApproxEqual(mvp, eps) {
			t.Errorf("quad %d drawn with mvp %v, want %v", i, q.mvp, mvp)
		}
	}
	if l.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", l.Frames())
	}
}

func TestRightKeyComposesAfterAutorotate(t *testing.T) {
	b := &fakeBackend{batches: [][]input.Event{{input.Press(input.KeyRight)}}}
	l, _ := newTestLoop(t, b)
	if _, err := l.Step(); err != nil {
		t.Fatal(err)
	}
	want := start.Mul(rot(3, 2, 1, 0)).Mul(rot(12, 8, 4, 0))
	if got := l.Transform().Matrix(); !got.ApproxEqual(want, eps) {
		t.Errorf("transform = %v, want T·R(3°)·R(12°, (8,4,0)) = %v", got, want)
	}
}

func TestLeftKeyOrderMatters(t *testing.T) {
	// (2,3,0) is not parallel to the autorotation axis, so order is observable.
	b := &fakeBackend{batches: [][]input.Event{{input.Press(input.KeyLeft)}}}
	l, _ := newTestLoop(t, b)
	if _, err := l.Step(); err != nil {
		t.Fatal(err)
	}
	wrongOrder := start.Mul(rot(1, 2, 3, 0)).Mul(rot(3, 2, 1, 0))
	if l.Transform().Matrix().ApproxEqual(wrongOrder, 1e-9) {
		t.Error("key rotation applied before autorotation")
	}
}

func TestKeyBindings(t *testing.T) {
	tests := []struct {
		key   input.Key
		delta math3d.Mat4
	}{
		{input.KeyA, math3d.Translate(math3d.V3(-0.1, 0, 0))},
		{input.KeyD, math3d.Translate(math3d.V3(0.1, 0, 0))},
		{input.KeyW, math3d.Translate(math3d.V3(0, 0.1, 0))},
		{input.KeyS, math3d.Translate(math3d.V3(0, -0.1, 0))},
		{input.KeyLeft, rot(1, 2, 3, 0)},
		{input.KeyRight, rot(12, 8, 4, 0)},
		{input.KeyUp, rot(-3, 2, 1, 0)},
		{input.KeyDown, rot(3, -2, 1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			l, _ := newTestLoop(t, &fakeBackend{})
			l.Frame([]input.Event{input.Press(tt.key)})
			want := start.Mul(rot(3, 2, 1, 0)).Mul(tt.delta)
			if got := l.Transform().Matrix(); !got.ApproxEqual(want, eps) {
				t.Errorf("after %v: transform = %v, want %v", tt.key, got, want)
			}
		})
	}
}

func TestKeyAAccumulatesLinearly(t *testing.T) {
	l, _ := newTestLoop(t, &fakeBackend{})
	l.Frame(nil)
	before := l.Transform().Matrix()

	// Disable autorotation to isolate the key deltas.
	l.cfg.AutoAngle = 0
	l.Frame([]input.Event{input.Press(input.KeyA)})
	once := before.Mul(math3d.Translate(math3d.V3(-0.1, 0, 0)))
	if got := l.Transform().Matrix(); !got.ApproxEqual(once, eps) {
		t.Errorf("A once: transform = %v, want %v", got, once)
	}
	l.Frame([]input.Event{input.Press(input.KeyA)})
	twice := before.Mul(math3d.Translate(math3d.V3(-0.2, 0, 0)))
	if got := l.Transform().Matrix(); !got.ApproxEqual(twice, eps) {
		t.Errorf("A twice: transform = %v, want %v", got, twice)
	}
}

func TestEventsApplyInPolledOrder(t *testing.T) {
	l, _ := newTestLoop(t, &fakeBackend{})
	l.Frame([]input.Event{input.Press(input.KeyD), input.Press(input.KeyLeft), input.Press(input.KeyD)})
	want := start.Mul(rot(3, 2, 1, 0)).
		Mul(math3d.Translate(math3d.V3(0.1, 0, 0))).
		Mul(rot(1, 2, 3, 0)).
		Mul(math3d.Translate(math3d.V3(0.1, 0, 0)))
	if got := l.Transform().Matrix(); !got.ApproxEqual(want, eps) {
		t.Errorf("transform = %v, want %v", got, want)
	}
}

func TestUnknownKeyIgnored(t *testing.T) {
	l, rec := newTestLoop(t, &fakeBackend{})
	if !l.Frame([]input.Event{input.Press(input.KeyOther), {Kind: input.Kind(42)}}) {
		t.Fatal("unknown events stopped the loop")
	}
	want := start.Mul(rot(3, 2, 1, 0))
	if got := l.Transform().Matrix(); !got.ApproxEqual(want, eps) {
		t.Errorf("unknown key changed transform: %v", got)
	}
	if len(rec.quads) != 6 {
		t.Errorf("drew %d quads, want 6", len(rec.quads))
	}
}

func TestQuitStopsBeforeDraw(t *testing.T) {
	b := &fakeBackend{batches: [][]input.Event{{input.QuitEvent(), input.Press(input.KeyA)}}}
	l, rec := newTestLoop(t, b)
	running, err := l.Step()
	if err != nil || running {
		t.Fatalf("Step() = %v, %v; want false, nil", running, err)
	}
	if l.State() != Terminated {
		t.Errorf("State() = %v, want Terminated", l.State())
	}
	if rec.clears != 0 || len(rec.quads) != 0 || b.presents != 0 {
		t.Errorf("quit frame drew: clears %d, quads %d, presents %d", rec.clears, len(rec.quads), b.presents)
	}
	// A after the quit must not have been applied.
	want := start.Mul(rot(3, 2, 1, 0))
	if got := l.Transform().Matrix(); !got.ApproxEqual(want, eps) {
		t.Errorf("events after quit were applied: %v", got)
	}
	if l.Frame(nil) {
		t.Error("Frame() after termination returned true")
	}
}

func TestRunUntilQuit(t *testing.T) {
	b := &fakeBackend{batches: [][]input.Event{nil, {input.Press(input.KeyW)}, {input.QuitEvent()}}}
	var sleeps []time.Duration
	l, err := New(DefaultConfig(), b, WithCanvas(&recorder{}), WithSleep(func(d time.Duration) {
		sleeps = append(sleeps, d)
	}))
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if b.presents != 2 {
		t.Errorf("presents = %d, want 2", b.presents)
	}
	if len(sleeps) != 2 || sleeps[0] != 10*time.Millisecond {
		t.Errorf("sleeps = %v, want two 10ms delays", sleeps)
	}
	if err := l.Close(); err != nil || !b.closed {
		t.Errorf("Close() = %v, closed = %v", err, b.closed)
	}
}

func TestRunContextCancelled(t *testing.T) {
	b := &fakeBackend{}
	l, _ := newTestLoop(t, b)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx); err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}
	if l.State() != Terminated || b.polls != 0 {
		t.Errorf("State() = %v, polls = %d; want Terminated, 0", l.State(), b.polls)
	}
}

func TestRunPollError(t *testing.T) {
	pollErr := errors.New("tty gone")
	l, _ := newTestLoop(t, &fakeBackend{pollErr: pollErr})
	if err := l.Run(context.Background()); !errors.Is(err, pollErr) {
		t.Errorf("Run() error = %v, want wrapped %v", err, pollErr)
	}
}

// drivingBackend runs the step callback itself, like a windowing toolkit.
type drivingBackend struct {
	fakeBackend
	steps int
}

func (d *drivingBackend) Drive(_ context.Context, step func() (bool, error)) error {
	for {
		running, err := step()
		if err != nil || !running {
			return err
		}
		d.steps++
	}
}

func TestRunWithDriver(t *testing.T) {
	d := &drivingBackend{fakeBackend: fakeBackend{batches: [][]input.Event{nil, nil, {input.QuitEvent()}}}}
	slept := false
	l, err := New(DefaultConfig(), d, WithCanvas(&recorder{}), WithSleep(func(time.Duration) { slept = true }))
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if d.steps != 2 || d.presents != 2 {
		t.Errorf("steps = %d, presents = %d; want 2 and 2", d.steps, d.presents)
	}
	if slept {
		t.Error("loop slept although the driver paces frames")
	}
}

func TestWireframe(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Wireframe = true
	rec := &recorder{}
	l, err := New(cfg, &fakeBackend{}, WithCanvas(rec))
	if err != nil {
		t.Fatal(err)
	}
	l.Frame(nil)
	if rec.lines != 12 || len(rec.quads) != 6 {
		t.Errorf("wireframe frame: %d lines, %d quads; want 12 and 6", rec.lines, len(rec.quads))
	}
}

func TestRasterizedFrame(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 160, 120
	b := &fakeBackend{}
	l, err := New(cfg, b, WithSleep(func(time.Duration) {}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Step(); err != nil {
		t.Fatal(err)
	}
	fb := l.Framebuffer()
	if got := fb.GetPixel(80, 60); got == cfg.Background {
		t.Error("center of the frame is background; cube not drawn")
	}
	if got := fb.GetPixel(0, 0); got != cfg.Background {
		t.Errorf("corner pixel = %v, want background", got)
	}
}
