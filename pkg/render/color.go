// Package render implements a small software rasterizer: a framebuffer with a
// depth buffer, flat-colored quads and lines.
package render

import (
	"image/color"
	"math"
)

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
)

// RGB creates a color from 8-bit components.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

// RGBFloat creates a color from components in the 0-1 range, clamping.
func RGBFloat(r, g, b float64) Color {
	return Color{unit8(r), unit8(g), unit8(b)}
}

// FromTriple is RGBFloat for a [3]float64.
func FromTriple(c [3]float64) Color {
	return RGBFloat(c[0], c[1], c[2])
}

// ToRGBA converts to image/color.
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{c.R, c.G, c.B, 255}
}

func unit8(v float64) uint8 {
	v = math.Round(v * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
