package render

import (
	"math"

	"github.com/taigrr/spincube/pkg/math3d"
)

// Canvas receives the draw calls for one frame. The Rasterizer is the real
// implementation; tests substitute a recorder.
type Canvas interface {
	// Clear resets color and depth.
	Clear()
	// DrawQuad fills the quad v0 v1 v2 v3 with a flat color.
	DrawQuad(v [4]math3d.Vec3, mvp math3d.Mat4, c Color)
	// DrawLine draws a segment on top of the scene.
	DrawLine(a, b math3d.Vec3, mvp math3d.Mat4, c Color)
}

// Rasterizer draws into a Framebuffer.
type Rasterizer struct {
	fb *Framebuffer

	// DepthTest discards fragments behind what is already drawn. When off,
	// later primitives overwrite earlier ones in submission order.
	DepthTest bool
}

var _ Canvas = (*Rasterizer)(nil)

// NewRasterizer creates a rasterizer targeting fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{fb: fb}
}

// Framebuffer returns the render target.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Clear clears both color and depth.
func (r *Rasterizer) Clear() {
	r.fb.Clear()
	r.fb.ClearDepth()
}

// screenVertex is a vertex after projection and viewport mapping.
type screenVertex struct {
	x, y, z float64
}

// project runs a point through mvp and the viewport. ok is false when the
// point is behind the near plane.
func (r *Rasterizer) project(p math3d.Vec3, mvp math3d.Mat4) (sv screenVertex, ok bool) {
	clip := mvp.MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 || clip.Z < -clip.W {
		return sv, false
	}
	ndc := clip.PerspectiveDivide()
	return screenVertex{
		x: (ndc.X + 1) * 0.5 * float64(r.fb.Width),
		y: (1 - ndc.Y) * 0.5 * float64(r.fb.Height),
		z: ndc.Z,
	}, true
}

// DrawQuad splits the quad into (0,1,2) and (0,2,3).
func (r *Rasterizer) DrawQuad(v [4]math3d.Vec3, mvp math3d.Mat4, c Color) {
	var sv [4]screenVertex
	for i, p := range v {
		var ok bool
		if sv[i], ok = r.project(p, mvp); !ok {
			// No near-plane clipping; the whole quad is dropped.
			return
		}
	}
	r.fillTriangle(sv[0], sv[1], sv[2], c)
	r.fillTriangle(sv[0], sv[2], sv[3], c)
}

func edge(a, b screenVertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// fillTriangle rasterizes with edge functions, sampling pixel centers.
// Both windings are filled.
func (r *Rasterizer) fillTriangle(v0, v1, v2 screenVertex, c Color) {
	area := edge(v0, v1, v2.x, v2.y)
	if area == 0 {
		return
	}

	minX := max(int(math.Floor(min(v0.x, v1.x, v2.x))), 0)
	maxX := min(int(math.Ceil(max(v0.x, v1.x, v2.x))), r.fb.Width-1)
	minY := max(int(math.Floor(min(v0.y, v1.y, v2.y))), 0)
	maxY := min(int(math.Ceil(max(v0.y, v1.y, v2.y))), r.fb.Height-1)

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(v1, v2, px, py) / area
			w1 := edge(v2, v0, px, py) / area
			w2 := edge(v0, v1, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*v0.z + w1*v1.z + w2*v2.z
			if r.DepthTest && !r.fb.testAndSetDepth(x, y, z) {
				continue
			}
			r.fb.Color[y*r.fb.Width+x] = c
		}
	}
}

// DrawLine uses Bresenham and ignores depth, so hidden edges stay visible.
func (r *Rasterizer) DrawLine(a, b math3d.Vec3, mvp math3d.Mat4, c Color) {
	sa, ok := r.project(a, mvp)
	if !ok {
		return
	}
	sb, ok := r.project(b, mvp)
	if !ok {
		return
	}
	r.line(int(math.Floor(sa.x)), int(math.Floor(sa.y)), int(math.Floor(sb.x)), int(math.Floor(sb.y)), c)
}

func (r *Rasterizer) line(x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		r.fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
