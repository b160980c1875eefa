package transform

import (
	"math"

	"github.com/aretw0/algorist/pkg/domain"
)

// ColorOption adjusts one component of a colour scope.
type ColorOption func(*colorDelta)

type colorDelta struct {
	base *domain.HSVA

	hue, sat, val, alpha          float64
	hasHue, hasSat, hasVal, hasAl bool
}

// Hue adds d to the hue, keeping the fractional part.
func Hue(d float64) ColorOption {
	return func(c *colorDelta) { c.hue, c.hasHue = d, true }
}

// Saturation multiplies the saturation by m and clamps to [0, 1].
func Saturation(m float64) ColorOption {
	return func(c *colorDelta) { c.sat, c.hasSat = m, true }
}

// Value multiplies the value by m and clamps to [0, 1].
func Value(m float64) ColorOption {
	return func(c *colorDelta) { c.val, c.hasVal = m, true }
}

// Alpha multiplies the alpha by m and clamps to [0, 1].
func Alpha(m float64) ColorOption {
	return func(c *colorDelta) { c.alpha, c.hasAl = m, true }
}

// WithBase replaces the inherited colour for this scope.
func WithBase(base domain.HSVA) ColorOption {
	return func(c *colorDelta) { c.base = &base }
}

func (c colorDelta) apply(inherited domain.HSVA) domain.HSVA {
	out := inherited
	if c.base != nil {
		out = *c.base
	}
	if c.hasHue {
		out.H, _ = math.Modf(out.H + c.hue)
	}
	if c.hasSat {
		out.S = domain.Clamp01(out.S * c.sat)
	}
	if c.hasVal {
		out.V = domain.Clamp01(out.V * c.val)
	}
	if c.hasAl {
		out.A = domain.Clamp01(out.A * c.alpha)
	}
	return out
}
