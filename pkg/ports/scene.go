package ports

import (
	"context"
	"time"

	"github.com/aretw0/algorist/pkg/domain"
)

// GeometryBuilder performs the expensive construction of mesh data.
type GeometryBuilder interface {
	// Build returns fresh geometry for shape.
	// Returns domain.ErrUnknownShape for shapes it does not support.
	Build(ctx context.Context, shape string, params domain.Params) (domain.Geometry, error)
}

// ParamNormalizer is implemented by builders that can tell when two parameter
// sets describe the same mesh. Normalize returns the complete parameter set,
// defaults included, so equal meshes share one cache key.
type ParamNormalizer interface {
	Normalize(ctx context.Context, shape string, params domain.Params) (domain.Params, error)
}

// GeometryCache stores built geometry by key.
type GeometryCache interface {
	// Get returns domain.ErrGeometryNotFound on a miss.
	Get(ctx context.Context, key domain.ShapeKey) (domain.Geometry, error)
	Put(ctx context.Context, key domain.ShapeKey, geom domain.Geometry) error
}

// Placer stamps state on an object that already exists in a scene.
type Placer interface {
	// SetWorldTransform positions, orients and scales the object in world space.
	SetWorldTransform(ctx context.Context, h domain.Handle, pose domain.Pose) error

	// AttachMaterial attaches a new object-local material.
	// Alpha below 1 must enable transparency blending.
	AttachMaterial(ctx context.Context, h domain.Handle, color domain.RGBA) error
}

// Scene is the host scene graph.
type Scene interface {
	Placer

	// Link creates a new, independently placeable object sharing geom.
	Link(ctx context.Context, shape string, geom domain.Geometry) (domain.Handle, error)
}

// BackgroundSetter is implemented by scenes with a world background colour.
type BackgroundSetter interface {
	SetBackground(ctx context.Context, color domain.RGBA) error
}

// Snapshotter is implemented by scenes that can export their content.
type Snapshotter interface {
	Snapshot(ctx context.Context) (domain.Snapshot, error)
}

// UnlockFunc releases a lock taken with BuildLocker.
type UnlockFunc func(ctx context.Context) error

// BuildLocker is implemented by shared geometry caches that can serialise the
// build of one key across processes.
type BuildLocker interface {
	Lock(ctx context.Context, key domain.ShapeKey, ttl time.Duration) (UnlockFunc, error)
}
