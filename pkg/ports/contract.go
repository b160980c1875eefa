package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

// RunGeometryCacheContract runs a suite of tests to verify that a GeometryCache
// implementation adheres to the defined interface contract.
func RunGeometryCacheContract(t *testing.T, cache GeometryCache) {
	ctx := context.Background()
	suffix := time.Now().Format("20060102150405.000000")

	t.Run("Put and Get", func(t *testing.T) {
		key := domain.NewShapeKey("contract-cube-"+suffix, domain.Params{"size": 1})
		geom := domain.Geometry{
			ID:       "geom-" + suffix,
			Shape:    key.Shape,
			Key:      key,
			Vertices: []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Faces:    [][]int{{0, 1, 2}},
		}

		require.NoError(t, cache.Put(ctx, key, geom), "Put should not return error")

		loaded, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, geom.ID, loaded.ID)
		assert.Equal(t, geom.Vertices, loaded.Vertices)
		assert.Equal(t, geom.Faces, loaded.Faces)
	})

	t.Run("Numerically Equal Keys Hit", func(t *testing.T) {
		put := domain.NewShapeKey("contract-torus-"+suffix, domain.Params{"major_radius": 1})
		get := domain.NewShapeKey("contract-torus-"+suffix, domain.Params{"major_radius": 1.0})
		require.NoError(t, cache.Put(ctx, put, domain.Geometry{ID: "torus-" + suffix, Shape: put.Shape, Key: put}))

		loaded, err := cache.Get(ctx, get)
		require.NoError(t, err)
		assert.Equal(t, "torus-"+suffix, loaded.ID)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, domain.NewShapeKey("missing-"+suffix, nil))
		assert.ErrorIs(t, err, domain.ErrGeometryNotFound)
	})

	t.Run("Different Params Miss", func(t *testing.T) {
		key := domain.NewShapeKey("contract-plane-"+suffix, domain.Params{"size": 2})
		require.NoError(t, cache.Put(ctx, key, domain.Geometry{ID: "plane-" + suffix, Shape: key.Shape, Key: key}))

		_, err := cache.Get(ctx, domain.NewShapeKey(key.Shape, domain.Params{"size": 3}))
		assert.ErrorIs(t, err, domain.ErrGeometryNotFound)
	})
}

// RunSceneContract verifies that a Scene links independent objects and
// accepts pose and material stamps. The scene must start empty.
func RunSceneContract(t *testing.T, scene Scene) {
	ctx := context.Background()
	geom := domain.Geometry{
		ID:       "contract-geometry",
		Shape:    "cube",
		Vertices: []vec3.T{{0, 0, 0}},
	}

	t.Run("Link Returns Distinct Handles", func(t *testing.T) {
		a, err := scene.Link(ctx, "cube", geom)
		require.NoError(t, err)
		b, err := scene.Link(ctx, "cube", geom)
		require.NoError(t, err)

		assert.NotEmpty(t, a)
		assert.NotEqual(t, a, b, "each placement gets its own object")
	})

	t.Run("Stamp Pose and Material", func(t *testing.T) {
		h, err := scene.Link(ctx, "cube", geom)
		require.NoError(t, err)

		require.NoError(t, scene.SetWorldTransform(ctx, h, domain.TranslationPose(1, 2, 3)))
		require.NoError(t, scene.AttachMaterial(ctx, h, domain.RGBA{R: 1, A: 0.5}))
	})

	t.Run("Unknown Handle", func(t *testing.T) {
		err := scene.SetWorldTransform(ctx, "does-not-exist", domain.IdentityPose())
		assert.ErrorIs(t, err, domain.ErrObjectNotFound)

		err = scene.AttachMaterial(ctx, "does-not-exist", domain.RGBA{A: 1})
		assert.ErrorIs(t, err, domain.ErrObjectNotFound)
	})

	if snap, ok := scene.(Snapshotter); ok {
		t.Run("Snapshot Shares Geometry", func(t *testing.T) {
			s, err := snap.Snapshot(ctx)
			require.NoError(t, err)
			assert.Contains(t, s.Geometries, geom.ID)
			assert.GreaterOrEqual(t, len(s.Objects), 3)
			for _, obj := range s.Objects {
				assert.Equal(t, geom.ID, obj.GeometryID)
			}
		})
	}
}
