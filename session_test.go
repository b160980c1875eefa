package algorist_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/aretw0/algorist"
	"github.com/aretw0/algorist/pkg/adapters/memory"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/guard"
	"github.com/aretw0/algorist/pkg/primitives"
	"github.com/aretw0/algorist/pkg/rnd"
	"github.com/aretw0/algorist/pkg/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T, opts ...algorist.Option) (*algorist.Session, *memory.Scene) {
	t.Helper()
	scene := memory.NewScene()
	s, err := algorist.New(append([]algorist.Option{
		algorist.WithScene(scene),
		algorist.WithRandSource(rnd.NewSeeded(1)),
	}, opts...)...)
	require.NoError(t, err)
	return s, scene
}

func TestSession_TowerStopsAtMaxDepth(t *testing.T) {
	ctx := context.Background()
	s, scene := newSession(t)

	var tower domain.Production
	tower, err := s.Limit(func(ctx context.Context, args domain.Args) (any, error) {
		defer s.Transform().Translate(0, 0, 1)()
		if _, err := s.Shape(ctx, "cube", nil); err != nil {
			return nil, err
		}
		return tower(ctx, args)
	}, guard.MaxDepth(3))
	require.NoError(t, err)

	_, err = tower(ctx, nil)
	require.NoError(t, err)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Objects, 2)
	assert.InDelta(t, 1.0, snap.Objects[0].Pose.Translation()[2], 1e-9)
	assert.InDelta(t, 2.0, snap.Objects[1].Pose.Translation()[2], 1e-9)
	assert.Equal(t, 2, scene.Len())
	assert.Equal(t, 0, s.Transform().Depth(), "every scope must be restored")
}

func TestSession_LimitAcceptsMinScale(t *testing.T) {
	ctx := context.Background()
	s, scene := newSession(t)

	var shrink domain.Production
	shrink, err := s.Limit(func(ctx context.Context, args domain.Args) (any, error) {
		if _, err := s.Shape(ctx, "cube", nil); err != nil {
			return nil, err
		}
		defer s.Transform().Scale(transform.Uniform(0.5))()
		return shrink(ctx, args)
	}, guard.MinScale(0.1), guard.MaxDepth(100))
	require.NoError(t, err)

	_, err = shrink(ctx, nil)
	require.NoError(t, err)

	// 1, 0.5, 0.25, 0.125 are placed; 0.0625 is cut.
	assert.Equal(t, 4, scene.Len())
}

func TestSession_ShapeSharesGeometry(t *testing.T) {
	ctx := context.Background()
	builder := &countingBuilder{inner: primitives.NewBuilder()}
	s, _ := newSession(t, algorist.WithBuilder(builder))

	h1, err := s.Shape(ctx, "cube", domain.Params{"size": 1})
	require.NoError(t, err)
	h2, err := s.Shape(ctx, "cube", domain.Params{"size": 1.0})
	require.NoError(t, err)
	_, err = s.Shape(ctx, "cube", domain.Params{"size": 2})
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.Equal(t, int32(2), builder.calls.Load())

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Geometries, 2)
	assert.Equal(t, snap.Objects[0].GeometryID, snap.Objects[1].GeometryID)
}

func TestSession_DefaultParamsShareGeometry(t *testing.T) {
	ctx := context.Background()
	cache := memory.NewGeometryCache()
	s, _ := newSession(t, algorist.WithGeometryCache(cache))

	_, err := s.Shape(ctx, "torus", nil)
	require.NoError(t, err)
	_, err = s.Shape(ctx, "torus", domain.Params{"major_radius": 1, "minor_radius": 0.25})
	require.NoError(t, err)
	_, err = s.Shape(ctx, "cube", domain.Params{"size": 1})
	require.NoError(t, err)
	_, err = s.Shape(ctx, "cube", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, cache.Len())
}

func TestSession_ShapeStampsColour(t *testing.T) {
	ctx := context.Background()
	s, scene := newSession(t, algorist.WithColor(domain.HSVA{H: 0, S: 1, V: 1, A: 0.5}))

	h, err := s.Shape(ctx, "plane", nil)
	require.NoError(t, err)
	bare, err := s.Shape(ctx, "plane", nil, algorist.WithoutMaterial())
	require.NoError(t, err)

	obj, ok := scene.Object(h)
	require.True(t, ok)
	require.NotNil(t, obj.Material)
	assert.InDelta(t, 1.0, obj.Material.Color.R, 1e-9)
	assert.InDelta(t, 0.0, obj.Material.Color.G, 1e-9)
	assert.InDelta(t, 0.5, obj.Material.Color.A, 1e-9)
	assert.True(t, obj.Material.Blend)

	obj, ok = scene.Object(bare)
	require.True(t, ok)
	assert.Nil(t, obj.Material)
}

func TestSession_Hooks(t *testing.T) {
	ctx := context.Background()
	var placed, aborted, misses, hits, rules int
	hooks := domain.LifecycleHooks{
		OnShapePlaced: func(context.Context, *domain.ShapeEvent) { placed++ },
		OnGuardAbort: func(_ context.Context, e *domain.GuardEvent) {
			aborted++
			assert.Equal(t, domain.AbortMaxDepth, e.Reason)
		},
		OnCacheLookup: func(_ context.Context, e *domain.CacheEvent) {
			if e.Hit {
				hits++
			} else {
				misses++
			}
		},
		OnRuleInvoke: func(context.Context, *domain.RuleEvent) { rules++ },
	}
	s, _ := newSession(t, algorist.WithLifecycleHooks(hooks))

	var col domain.Production
	col, err := s.Limit(func(ctx context.Context, args domain.Args) (any, error) {
		defer s.Transform().Translate(0, 1, 0)()
		if _, err := s.Shape(ctx, "cube", nil); err != nil {
			return nil, err
		}
		return s.Invoke(ctx, "col", args)
	}, guard.MaxDepth(4))
	require.NoError(t, err)
	_, err = s.Rule("col", 1, col)
	require.NoError(t, err)

	_, err = s.Invoke(ctx, "col", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, placed)
	assert.Equal(t, 1, aborted)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 2, hits)
	assert.Equal(t, 4, rules)
}

func TestSession_InvokeUnknownRule(t *testing.T) {
	s, _ := newSession(t)
	_, err := s.Invoke(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, domain.ErrRuleNotFound)
}

func TestSession_Background(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)

	require.NoError(t, s.Background(ctx, domain.HSVA{H: 0, S: 0, V: 0, A: 1}))
	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Background)
	assert.Equal(t, domain.RGBA{R: 0, G: 0, B: 0, A: 1}, *snap.Background)
}

func TestSession_SnapshotUnsupported(t *testing.T) {
	s, err := algorist.New(algorist.WithScene(sceneOnly{memory.NewScene()}))
	require.NoError(t, err)

	// Background is optional and silently ignored.
	require.NoError(t, s.Background(context.Background(), domain.DefaultColor))

	_, err = s.Snapshot(context.Background())
	assert.True(t, errors.Is(err, errors.ErrUnsupported))
}

func TestSession_UniqueIDs(t *testing.T) {
	a, _ := newSession(t)
	b, _ := newSession(t)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

type countingBuilder struct {
	inner *primitives.Builder
	calls atomic.Int32
}

func (b *countingBuilder) Build(ctx context.Context, shape string, params domain.Params) (domain.Geometry, error) {
	b.calls.Add(1)
	return b.inner.Build(ctx, shape, params)
}

// sceneOnly hides the optional interfaces of the wrapped scene.
type sceneOnly struct {
	inner *memory.Scene
}

func (s sceneOnly) Link(ctx context.Context, shape string, geom domain.Geometry) (domain.Handle, error) {
	return s.inner.Link(ctx, shape, geom)
}

func (s sceneOnly) SetWorldTransform(ctx context.Context, h domain.Handle, pose domain.Pose) error {
	return s.inner.SetWorldTransform(ctx, h, pose)
}

func (s sceneOnly) AttachMaterial(ctx context.Context, h domain.Handle, color domain.RGBA) error {
	return s.inner.AttachMaterial(ctx, h, color)
}
