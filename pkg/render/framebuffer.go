package render

import (
	"image"
	"math"
)

// Framebuffer holds the color and depth planes for one surface.
type Framebuffer struct {
	Width, Height int
	Color         []Color
	Depth         []float64
	BG            Color // Clear color
}

// NewFramebuffer allocates a width×height framebuffer.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize reallocates both planes and clears them.
func (fb *Framebuffer) Resize(width, height int) {
	width = max(width, 0)
	height = max(height, 0)
	fb.Width, fb.Height = width, height
	fb.Color = make([]Color, width*height)
	fb.Depth = make([]float64, width*height)
	fb.Clear()
	fb.ClearDepth()
}

// Clear fills the color plane with BG.
func (fb *Framebuffer) Clear() {
	for i := range fb.Color {
		fb.Color[i] = fb.BG
	}
}

// ClearDepth resets every depth sample to the far plane.
func (fb *Framebuffer) ClearDepth() {
	for i := range fb.Depth {
		fb.Depth[i] = math.Inf(1)
	}
}

func (fb *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// SetPixel writes a color, ignoring out-of-bounds coordinates.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if !fb.inBounds(x, y) {
		return
	}
	fb.Color[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y), or BG when out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if !fb.inBounds(x, y) {
		return fb.BG
	}
	return fb.Color[y*fb.Width+x]
}

// testAndSetDepth writes z if it is nearer than the stored sample.
func (fb *Framebuffer) testAndSetDepth(x, y int, z float64) bool {
	i := y*fb.Width + x
	if z >= fb.Depth[i] {
		return false
	}
	fb.Depth[i] = z
	return true
}

// ToImage copies the color plane into an RGBA image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	fb.CopyTo(img)
	return img
}

// CopyTo writes the color plane into img, which must be at least as large.
func (fb *Framebuffer) CopyTo(img *image.RGBA) {
	for y := 0; y < fb.Height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < fb.Width; x++ {
			c := fb.Color[y*fb.Width+x]
			row[x*4+0] = c.R
			row[x*4+1] = c.G
			row[x*4+2] = c.B
			row[x*4+3] = 255
		}
	}
}
