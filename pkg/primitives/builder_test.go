package primitives_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

func TestBuilder_Counts(t *testing.T) {
	ctx := context.Background()
	b := primitives.NewBuilder()

	tests := []struct {
		shape    string
		params   domain.Params
		vertices int
		faces    int
	}{
		{"plane", nil, 4, 1},
		{"grid", domain.Params{"x_subdivisions": 2, "y_subdivisions": 3}, 12, 6},
		{"cube", nil, 8, 6},
		{"torus", domain.Params{"major_segments": 8, "minor_segments": 4}, 32, 32},
		{"uvsphere", domain.Params{"segments": 8, "ring_count": 4}, 2 + 3*8, 8 + 2*8 + 8},
		{"icosphere", domain.Params{"subdivisions": 1}, 12, 20},
		{"icosphere", nil, 42, 80},
		{"cylinder", domain.Params{"vertices": 6}, 12, 6 + 2},
		{"cone", domain.Params{"vertices": 6}, 7, 6 + 1},
		{"circle", domain.Params{"vertices": 5}, 5, 0},
		{"circle", domain.Params{"vertices": 5, "fill_type": "NGON"}, 5, 1},
		{"circle", domain.Params{"vertices": 5, "fill_type": "TRIFAN"}, 6, 5},
	}

	for _, tt := range tests {
		t.Run(tt.shape, func(t *testing.T) {
			g, err := b.Build(ctx, tt.shape, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, g.Shape)
			assert.Len(t, g.Vertices, tt.vertices)
			assert.Len(t, g.Faces, tt.faces)
			for _, f := range g.Faces {
				for _, idx := range f {
					assert.Less(t, idx, len(g.Vertices))
				}
			}
		})
	}
}

func TestBuilder_CubeHalfExtents(t *testing.T) {
	g, err := primitives.NewBuilder().Build(context.Background(), "cube", domain.Params{"size": []any{2, 4, json.Number("6")}})
	require.NoError(t, err)

	var max [3]float64
	for _, v := range g.Vertices {
		for i := 0; i < 3; i++ {
			max[i] = math.Max(max[i], v[i])
		}
	}
	assert.Equal(t, [3]float64{1, 2, 3}, max)
}

func TestBuilder_CubeScalarSize(t *testing.T) {
	g, err := primitives.NewBuilder().Build(context.Background(), "cube", domain.Params{"size": 4})
	require.NoError(t, err)
	assert.Contains(t, g.Vertices, vec3.T{2, 2, 2})
	assert.Contains(t, g.Vertices, vec3.T{-2, -2, -2})
}

func TestBuilder_SphereRadius(t *testing.T) {
	for _, shape := range []string{"uvsphere", "icosphere"} {
		g, err := primitives.NewBuilder().Build(context.Background(), shape, domain.Params{"radius": 2.5})
		require.NoError(t, err)
		for _, v := range g.Vertices {
			assert.InDelta(t, 2.5, math.Sqrt(v[0]*v[0]+v[1]*v[1]+v[2]*v[2]), 1e-9, shape)
		}
	}
}

func TestBuilder_UnknownShape(t *testing.T) {
	_, err := primitives.NewBuilder().Build(context.Background(), "teapot", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownShape)
}

func TestBuilder_InvalidParams(t *testing.T) {
	b := primitives.NewBuilder()
	for _, params := range []domain.Params{
		{"radius": -1},
		{"radius": "big"},
		{"colour": "red"},
		{"segments": 2},
	} {
		_, err := b.Build(context.Background(), "uvsphere", params)
		assert.ErrorIs(t, err, domain.ErrInvalidParams, "%v", params)
	}

	_, err := b.Build(context.Background(), "circle", domain.Params{"fill_type": "SOLID"})
	assert.ErrorIs(t, err, domain.ErrInvalidParams)
}

func TestDefaults(t *testing.T) {
	d, err := primitives.Defaults("torus")
	require.NoError(t, err)
	assert.Equal(t, 1.0, d["major_radius"])
	assert.Equal(t, 0.25, d["minor_radius"])

	d, err = primitives.Defaults("cone")
	require.NoError(t, err)
	assert.Equal(t, 0.0, d["radius2"])

	_, err = primitives.Defaults("teapot")
	assert.ErrorIs(t, err, domain.ErrUnknownShape)
}

func TestCatalog(t *testing.T) {
	cat, err := primitives.Catalog()
	require.NoError(t, err)
	require.Len(t, cat, len(primitives.Shapes()))
	assert.Equal(t, "circle", cat[0].Name)
	assert.Contains(t, cat[0].Schema, "fill_type")

	assert.True(t, primitives.Has("cube"))
	assert.NoError(t, primitives.Validate("cube", domain.Params{"size": []any{1, 1, 1}}))
	assert.NoError(t, primitives.Validate("cube", domain.Params{"size": 1}))
	assert.ErrorIs(t, primitives.Validate("cube", domain.Params{"size": "big"}), domain.ErrInvalidParams)
}

func TestBuilder_Normalize(t *testing.T) {
	ctx := context.Background()
	b := primitives.NewBuilder()

	implicit, err := b.Normalize(ctx, "torus", nil)
	require.NoError(t, err)
	explicit, err := b.Normalize(ctx, "torus", domain.Params{"major_radius": 1, "minor_radius": 0.25})
	require.NoError(t, err)
	assert.Equal(t, domain.NewShapeKey("torus", implicit), domain.NewShapeKey("torus", explicit))
	assert.Len(t, implicit, 4)

	scalar, err := b.Normalize(ctx, "cube", domain.Params{"size": 2})
	require.NoError(t, err)
	vector, err := b.Normalize(ctx, "cube", domain.Params{"size": []any{2, 2, 2}})
	require.NoError(t, err)
	assert.Equal(t, domain.NewShapeKey("cube", scalar), domain.NewShapeKey("cube", vector))

	_, err = b.Normalize(ctx, "teapot", nil)
	assert.ErrorIs(t, err, domain.ErrUnknownShape)
	_, err = b.Normalize(ctx, "torus", domain.Params{"major_radius": -1})
	assert.ErrorIs(t, err, domain.ErrInvalidParams)
}
