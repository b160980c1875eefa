package domain_test

import (
	"math"
	"testing"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestPose_TranslateComposesLocally(t *testing.T) {
	p := domain.ScalePose(2, 2, 2).Mul(domain.TranslationPose(0, 0, 1))

	got := p.Translation()
	assert.InDelta(t, 2.0, got[2], 1e-12, "translation is scaled by the parent frame")
}

func TestPose_RotationAroundZ(t *testing.T) {
	r := domain.RotationPose(math.Pi/2, vec3.T{0, 0, 1})
	got := r.TransformPoint(vec3.T{1, 0, 0})

	assert.InDelta(t, 0.0, got[0], 1e-12)
	assert.InDelta(t, 1.0, got[1], 1e-12)
	assert.InDelta(t, 0.0, got[2], 1e-12)
}

func TestPose_RotationNormalisesAxis(t *testing.T) {
	a := domain.RotationPose(0.7, vec3.T{0, 0, 5})
	b := domain.RotationPose(0.7, vec3.T{0, 0, 1})
	assert.True(t, a.ApproxEqual(b, 1e-12))
}

func TestPose_ZeroAxisIsIdentity(t *testing.T) {
	r := domain.RotationPose(1.2, vec3.T{})
	assert.Equal(t, domain.IdentityPose(), r)
}

func TestPose_ScaleFactorsSurviveRotation(t *testing.T) {
	p := domain.RotationPose(0.4, vec3.T{1, 1, 0}).Mul(domain.ScalePose(0.5, 2, 3))
	s := p.ScaleFactors()

	assert.InDelta(t, 0.5, s[0], 1e-12)
	assert.InDelta(t, 2.0, s[1], 1e-12)
	assert.InDelta(t, 3.0, s[2], 1e-12)
	assert.InDelta(t, 3.0, p.Determinant(), 1e-9)
}

func TestPose_MulAppliesRightOperandFirst(t *testing.T) {
	rot := domain.RotationPose(math.Pi/2, vec3.T{0, 0, 1})
	move := domain.TranslationPose(1, 0, 0)

	local := rot.Mul(move)
	got := local.TransformPoint(vec3.T{})
	assert.InDelta(t, 0.0, got[0], 1e-12)
	assert.InDelta(t, 1.0, got[1], 1e-12, "the move runs along the rotated x axis")

	world := move.Mul(rot)
	got = world.TransformPoint(vec3.T{1, 0, 0})
	assert.InDelta(t, 1.0, got[0], 1e-12)
	assert.InDelta(t, 1.0, got[1], 1e-12)
	assert.InDelta(t, 0.0, got[2], 1e-12)
}

func TestPose_TranslationPoseMovesPoints(t *testing.T) {
	p := domain.TranslationPose(1, 2, 3)
	assert.Equal(t, vec3.T{2, 3, 4}, p.TransformPoint(vec3.T{1, 1, 1}))
	assert.InDelta(t, 1.0, p.Determinant(), 1e-12)
}
