// Package factory turns (shape, params) requests into placed scene objects,
// building each distinct piece of geometry only once.
package factory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/algorist/internal/logging"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/ports"
)

// Factory instantiates shapes in a scene, sharing geometry by ShapeKey.
type Factory struct {
	builder ports.GeometryBuilder
	cache   ports.GeometryCache
	scene   ports.Scene
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	lockTTL time.Duration
}

// DefaultLockTTL bounds how long a build lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = l
	}
}

// WithHooks sets the lifecycle hooks fired on cache lookups.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(f *Factory) {
		f.hooks = h
	}
}

// WithLockTTL sets the build lock expiry used with caches that implement ports.BuildLocker.
func WithLockTTL(ttl time.Duration) Option {
	return func(f *Factory) {
		f.lockTTL = ttl
	}
}

// New creates a factory over the given collaborators.
func New(builder ports.GeometryBuilder, cache ports.GeometryCache, scene ports.Scene, opts ...Option) *Factory {
	f := &Factory{
		builder: builder,
		cache:   cache,
		scene:   scene,
		logger:  logging.NewNop(),
		lockTTL: DefaultLockTTL,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Scene returns the scene objects are linked into.
func (f *Factory) Scene() ports.Scene { return f.scene }

// Geometry returns the geometry for (shape, params), building and caching it on a miss.
func (f *Factory) Geometry(ctx context.Context, shape string, params domain.Params) (domain.Geometry, error) {
	key, err := f.key(ctx, shape, params)
	if err != nil {
		return domain.Geometry{}, err
	}

	geom, err := f.cache.Get(ctx, key)
	switch {
	case err == nil:
		f.lookup(ctx, key, true)
		return geom, nil
	case !errors.Is(err, domain.ErrGeometryNotFound):
		return domain.Geometry{}, fmt.Errorf("geometry cache lookup %s: %w", key, err)
	}
	f.lookup(ctx, key, false)

	if locker, ok := f.cache.(ports.BuildLocker); ok {
		unlock, err := locker.Lock(ctx, key, f.lockTTL)
		if err != nil {
			return domain.Geometry{}, fmt.Errorf("lock %s: %w", key, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				f.logger.Warn("failed to release build lock", "key", key.String(), "err", err)
			}
		}()
		// Another process may have built it while we waited.
		if geom, err := f.cache.Get(ctx, key); err == nil {
			return geom, nil
		}
	}

	geom, err = f.builder.Build(ctx, shape, params)
	if err != nil {
		return domain.Geometry{}, fmt.Errorf("build %s: %w", key, err)
	}
	geom.Key = key
	if geom.ID == "" {
		geom.ID = key.String()
	}

	if err := f.cache.Put(ctx, key, geom); err != nil {
		return domain.Geometry{}, fmt.Errorf("geometry cache store %s: %w", key, err)
	}
	f.logger.Debug("geometry built", "key", key.String(), "vertices", len(geom.Vertices), "faces", len(geom.Faces))
	return geom, nil
}

// Instantiate links a new object for (shape, params). Identical requests share
// geometry; every call returns a distinct handle.
func (f *Factory) Instantiate(ctx context.Context, shape string, params domain.Params) (domain.Handle, error) {
	geom, err := f.Geometry(ctx, shape, params)
	if err != nil {
		return "", err
	}
	h, err := f.scene.Link(ctx, shape, geom)
	if err != nil {
		return "", fmt.Errorf("link %s: %w", shape, err)
	}
	return h, nil
}

// key identifies the mesh for (shape, params). Builders that normalise their
// params let default and explicit requests share one entry.
func (f *Factory) key(ctx context.Context, shape string, params domain.Params) (domain.ShapeKey, error) {
	n, ok := f.builder.(ports.ParamNormalizer)
	if !ok {
		return domain.NewShapeKey(shape, params), nil
	}
	full, err := n.Normalize(ctx, shape, params)
	if err != nil {
		return domain.ShapeKey{}, fmt.Errorf("normalize %s: %w", shape, err)
	}
	return domain.NewShapeKey(shape, full), nil
}

func (f *Factory) lookup(ctx context.Context, key domain.ShapeKey, hit bool) {
	if f.hooks.OnCacheLookup != nil {
		f.hooks.OnCacheLookup(ctx, &domain.CacheEvent{
			EventBase: domain.NewEventBase(domain.EventCacheLookup),
			Key:       key,
			Hit:       hit,
		})
	}
}
