// Package input defines the platform-neutral events the render loop reacts
// to and the key bindings that turn them into transform deltas.
package input

import (
	"github.com/taigrr/spincube/pkg/math3d"
)

// Kind is the type of an Event.
type Kind int

const (
	KindKey  Kind = iota // A key was pressed
	KindQuit             // The window or terminal asked to close
)

func (k Kind) String() string {
	switch k {
	case KindKey:
		return "Key"
	case KindQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Key identifies a key the demo may care about.
type Key int

const (
	KeyOther Key = iota
	KeyA
	KeyD
	KeyW
	KeyS
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

var keyNames = map[Key]string{
	KeyOther: "Other",
	KeyA:     "A",
	KeyD:     "D",
	KeyW:     "W",
	KeyS:     "S",
	KeyLeft:  "Left",
	KeyRight: "Right",
	KeyUp:    "Up",
	KeyDown:  "Down",
}

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return "Other"
}

// Event is one polled input event.
type Event struct {
	Kind Kind
	Key  Key
}

// Press returns a key-down event.
func Press(k Key) Event {
	return Event{Kind: KindKey, Key: k}
}

// QuitEvent returns a close request.
func QuitEvent() Event {
	return Event{Kind: KindQuit}
}

// Binding is the transform delta applied for one key. Exactly one of
// Translate or (Angle, Axis) is meaningful, per IsRotation.
type Binding struct {
	Translate math3d.Vec3
	Angle     float64 // degrees
	Axis      math3d.Vec3
}

// IsRotation reports whether the binding rotates rather than translates.
func (b Binding) IsRotation() bool {
	return b.Angle != 0
}

var bindings = map[Key]Binding{
	KeyA:     {Translate: math3d.V3(-0.1, 0, 0)},
	KeyD:     {Translate: math3d.V3(0.1, 0, 0)},
	KeyW:     {Translate: math3d.V3(0, 0.1, 0)},
	KeyS:     {Translate: math3d.V3(0, -0.1, 0)},
	KeyLeft:  {Angle: 1, Axis: math3d.V3(2, 3, 0)},
	KeyRight: {Angle: 12, Axis: math3d.V3(8, 4, 0)},
	KeyUp:    {Angle: -3, Axis: math3d.V3(2, 1, 0)},
	KeyDown:  {Angle: 3, Axis: math3d.V3(-2, 1, 0)},
}

// Lookup returns the binding for k, if any.
func Lookup(k Key) (Binding, bool) {
	b, ok := bindings[k]
	return b, ok
}
