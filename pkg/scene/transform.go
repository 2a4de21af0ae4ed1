package scene

import (
	"github.com/taigrr/spincube/pkg/input"
	"github.com/taigrr/spincube/pkg/math3d"
)

// Transform is the accumulated model-view matrix. Every operation
// post-multiplies, so later calls act in the frame left by earlier ones.
type Transform struct {
	m math3d.Mat4
}

// NewTransform returns the identity transform.
func NewTransform() *Transform {
	return &Transform{m: math3d.Identity()}
}

// Reset goes back to identity.
func (t *Transform) Reset() {
	t.m = math3d.Identity()
}

// Translate appends a translation.
func (t *Transform) Translate(v math3d.Vec3) {
	t.m = t.m.Mul(math3d.Translate(v))
}

// Rotate appends a rotation of deg degrees about axis. A zero axis is a no-op.
func (t *Transform) Rotate(deg float64, axis math3d.Vec3) {
	if axis.Len() == 0 {
		return
	}
	t.m = t.m.Mul(math3d.Rotate(math3d.Radians(deg), axis))
}

// Apply appends the delta of a key binding.
func (t *Transform) Apply(b input.Binding) {
	if b.IsRotation() {
		t.Rotate(b.Angle, b.Axis)
		return
	}
	t.Translate(b.Translate)
}

// Matrix returns the current matrix.
func (t *Transform) Matrix() math3d.Mat4 {
	return t.m
}
