package domain

import (
	"math"

	"github.com/ungerik/go3d/float64/mat4"
	"github.com/ungerik/go3d/float64/quaternion"
	"github.com/ungerik/go3d/float64/vec3"
	"github.com/ungerik/go3d/float64/vec4"
)

// Pose is an affine 4x4 matrix stored column-major: p[col][row].
// The translation lives in p[3].
type Pose mat4.T

// IdentityPose returns the identity frame.
func IdentityPose() Pose {
	return Pose(mat4.Ident)
}

// TranslationPose returns a pure translation.
func TranslationPose(x, y, z float64) Pose {
	m := mat4.Ident
	m.SetTranslation(&vec3.T{x, y, z})
	return Pose(m)
}

// ScalePose returns diag(x, y, z, 1).
func ScalePose(x, y, z float64) Pose {
	m := mat4.Ident
	m.SetScaling(&vec4.T{x, y, z, 1})
	return Pose(m)
}

// RotationPose returns a right-handed rotation of angle radians around axis.
// The axis is normalised; a zero axis yields the identity.
func RotationPose(angle float64, axis vec3.T) Pose {
	if axis.LengthSqr() == 0 {
		return IdentityPose()
	}
	axis.Normalize()
	q := quaternion.FromAxisAngle(&axis, angle)

	var m mat4.T
	m.AssignQuaternion(&q)
	return Pose(m)
}

// Mul returns p * q, i.e. q applied in the local frame of p.
func (p Pose) Mul(q Pose) Pose {
	var r mat4.T
	r.AssignMul(p.mat(), q.mat())
	return Pose(r)
}

// Translation returns the origin of the frame in world space.
func (p Pose) Translation() vec3.T {
	return vec3.T{p[3][0], p[3][1], p[3][2]}
}

// ScaleFactors decomposes the per-axis scale as the length of each basis column.
func (p Pose) ScaleFactors() vec3.T {
	var s vec3.T
	for i := range 3 {
		col := vec3.T{p[i][0], p[i][1], p[i][2]}
		s[i] = col.Length()
	}
	return s
}

// TransformPoint maps a local point into world space.
func (p Pose) TransformPoint(v vec3.T) vec3.T {
	return p.mat().MulVec3(&v)
}

// Determinant of the linear (upper-left 3x3) part.
func (p Pose) Determinant() float64 {
	return p.mat().Determinant3x3()
}

// ApproxEqual reports whether every element of p and q differs by at most eps.
func (p Pose) ApproxEqual(q Pose, eps float64) bool {
	for col := range 4 {
		for row := range 4 {
			if math.Abs(p[col][row]-q[col][row]) > eps {
				return false
			}
		}
	}
	return true
}

func (p *Pose) mat() *mat4.T {
	return (*mat4.T)(p)
}
