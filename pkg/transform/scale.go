package transform

import (
	"fmt"
	"math"
	"strings"

	"github.com/ungerik/go3d/float64/vec3"
)

// Scaling is a per-axis multiplier. Zero means unset: an axis left at zero
// falls back to XYZ, and an XYZ of zero falls back to 1. So Uniform(0) and
// Scaling{XYZ: 0} leave the frame untouched rather than collapsing it, and a
// Scaling never makes the pose singular.
type Scaling struct {
	X, Y, Z float64
	XYZ     float64
}

// Uniform scales every axis by f.
func Uniform(f float64) Scaling {
	return Scaling{XYZ: f}
}

func (s Scaling) resolve() (x, y, z float64) {
	xyz := s.XYZ
	if xyz == 0 {
		xyz = 1
	}
	pick := func(v float64) float64 {
		if v == 0 {
			return xyz
		}
		return v
	}
	return pick(s.X), pick(s.Y), pick(s.Z)
}

// Axis is a rotation axis. It need not be unit length.
type Axis vec3.T

var (
	AxisX = Axis{1, 0, 0}
	AxisY = Axis{0, 1, 0}
	AxisZ = Axis{0, 0, 1}
)

// Direction returns the normalised axis (x, y, z). The zero vector is kept
// as is and rotates nothing.
func Direction(x, y, z float64) Axis {
	l := math.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return Axis{}
	}
	return Axis{x / l, y / l, z / l}
}

// ParseAxis accepts "x", "y" or "z" in any case.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return Axis{}, fmt.Errorf("unknown axis %q", s)
}
