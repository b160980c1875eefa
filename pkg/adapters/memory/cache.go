package memory

import (
	"context"
	"sync"

	"github.com/aretw0/algorist/pkg/domain"
)

// GeometryCache implements ports.GeometryCache in memory.
// Safe for concurrent use.
type GeometryCache struct {
	data map[domain.ShapeKey]domain.Geometry
	mu   sync.RWMutex
}

// NewGeometryCache creates an empty cache.
func NewGeometryCache() *GeometryCache {
	return &GeometryCache{
		data: make(map[domain.ShapeKey]domain.Geometry),
	}
}

// Get returns the geometry stored under key.
func (c *GeometryCache) Get(ctx context.Context, key domain.ShapeKey) (domain.Geometry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	geom, ok := c.data[key]
	if !ok {
		return domain.Geometry{}, domain.ErrGeometryNotFound
	}
	return geom, nil
}

// Put stores geom under key.
func (c *GeometryCache) Put(ctx context.Context, key domain.ShapeKey, geom domain.Geometry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = geom
	return nil
}

// Len returns the number of cached geometries.
func (c *GeometryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
