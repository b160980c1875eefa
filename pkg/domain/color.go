package domain

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSVA is the paint state of the transform stack.
// H wraps modulo 1 and may be negative; S, V and A live in [0, 1].
type HSVA struct {
	H float64 `json:"h" yaml:"h" mapstructure:"h"`
	S float64 `json:"s" yaml:"s" mapstructure:"s"`
	V float64 `json:"v" yaml:"v" mapstructure:"v"`
	A float64 `json:"a" yaml:"a" mapstructure:"a"`
}

// DefaultColor is opaque white.
var DefaultColor = HSVA{H: 0, S: 0, V: 1, A: 1}

// RGBA is a material colour with components in [0, 1].
type RGBA struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
	A float64 `json:"a" yaml:"a"`
}

// RGBA converts to red/green/blue, passing alpha through.
func (c HSVA) RGBA() RGBA {
	h := c.H - math.Floor(c.H)
	if h >= 1 {
		h = 0
	}
	rgb := colorful.Hsv(h*360, Clamp01(c.S), Clamp01(c.V))
	return RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: c.A}
}

// Hex renders the colour as #rrggbb, ignoring alpha.
func (c RGBA) Hex() string {
	return colorful.Color{R: Clamp01(c.R), G: Clamp01(c.G), B: Clamp01(c.B)}.Clamped().Hex()
}

// Transparent reports whether a material with this colour needs blending.
func (c RGBA) Transparent() bool {
	return c.A < 1
}

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
