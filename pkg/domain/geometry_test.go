package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestNewShapeKey_NumericEquivalence(t *testing.T) {
	a := domain.NewShapeKey("cube", domain.Params{"size": 1, "segments": 8})
	b := domain.NewShapeKey("cube", domain.Params{"segments": 8.0, "size": json.Number("1.0")})
	assert.Equal(t, a, b)
}

func TestNewShapeKey_Distinguishes(t *testing.T) {
	base := domain.NewShapeKey("torus", domain.Params{"major_radius": 1})

	assert.NotEqual(t, base, domain.NewShapeKey("torus", domain.Params{"major_radius": 1.5}))
	assert.NotEqual(t, base, domain.NewShapeKey("cone", domain.Params{"major_radius": 1}))
	assert.NotEqual(t, base, domain.NewShapeKey("torus", domain.Params{"major_radius": 1, "minor_radius": 0.25}))
	assert.NotEqual(t, base, domain.NewShapeKey("torus", domain.Params{"major_radius": "1"}))
}

func TestNewShapeKey_Nested(t *testing.T) {
	a := domain.NewShapeKey("cube", domain.Params{"size": []any{1, 2.0, 3}})
	b := domain.NewShapeKey("cube", domain.Params{"size": [3]float64{1, 2, 3}})
	assert.Equal(t, a, b)
	assert.Equal(t, "cube(size=[1,2,3])", a.String())
}

func TestNewShapeKey_Empty(t *testing.T) {
	assert.Equal(t, domain.NewShapeKey("plane", nil), domain.NewShapeKey("plane", domain.Params{}))
}

func TestSnapshot_Bounds(t *testing.T) {
	snap := domain.Snapshot{
		Geometries: map[string]domain.Geometry{
			"g": {ID: "g", Vertices: []vec3.T{{-1, -1, 0}, {1, 1, 0}}},
		},
		Objects: []domain.Object{
			{Shape: "plane", GeometryID: "g", Pose: domain.IdentityPose()},
			{Shape: "plane", GeometryID: "g", Pose: domain.TranslationPose(0, 0, 5).Mul(domain.ScalePose(2, 2, 2))},
			{Shape: "ghost", GeometryID: "missing", Pose: domain.TranslationPose(100, 0, 0)},
		},
	}

	min, max, ok := snap.Bounds()
	assert.True(t, ok)
	assert.Equal(t, vec3.T{-2, -2, 0}, min)
	assert.Equal(t, vec3.T{2, 2, 5}, max)
	assert.Equal(t, map[string]int{"plane": 2, "ghost": 1}, snap.ShapeCounts())

	_, _, ok = domain.Snapshot{}.Bounds()
	assert.False(t, ok)
}
