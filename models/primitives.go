package models

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Distance returns the euclidean distance between a and b.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Limit scales v down so its length does not exceed max.
func Limit(v r2.Vec, max float64) r2.Vec {
	l := r2.Norm2(v)
	if l > max*max && l > 0 {
		return r2.Scale(max/math.Sqrt(l), v)
	}
	return v
}

// SafeNormalize returns the unit vector of v, or the zero vector when v has
// no length.
func SafeNormalize(v r2.Vec) r2.Vec {
	l := r2.Norm(v)
	if l == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/l, v)
}

// Color is an RGB color with channels in [0,1].
type Color struct {
	R, G, B float64
}

// ColorA is a Color with alpha.
type ColorA struct {
	Color
	A float64
}

// RGB255 builds a Color from 8-bit channels.
func RGB255(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Gray returns a neutral color of the given intensity.
func Gray(v float64) Color {
	return Color{R: v, G: v, B: v}
}

// Alpha returns c with the given opacity.
func (c Color) Alpha(a float64) ColorA {
	return ColorA{Color: c, A: a}
}

// Hex returns c as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

// RGBA converts c to a non-premultiplied image color.
func (c ColorA) RGBA() color.NRGBA {
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
