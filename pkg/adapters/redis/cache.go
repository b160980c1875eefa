package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/algorist/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the cache.
const DefaultPrefix = "algorist:geometry:"

// Cache implements ports.GeometryCache using Redis, so several processes can
// share built meshes.
type Cache struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Cache)

// WithTTL sets the expiration of cached geometry.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a new Redis cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Cache) key(k domain.ShapeKey) string {
	return c.prefix + k.String()
}

func (c *Cache) indexKey() string {
	return c.prefix + "index"
}

// Put stores the geometry as JSON and records its key in the index.
func (c *Cache) Put(ctx context.Context, key domain.ShapeKey, geom domain.Geometry) error {
	data, err := json.Marshal(geom)
	if err != nil {
		return fmt.Errorf("failed to marshal geometry: %w", err)
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, c.key(key), data, c.ttl)

	// Score = expiry. Entries without TTL never leave the index on their own.
	score := float64(time.Now().Add(c.ttl).Unix())
	if c.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, c.indexKey(), backend.Z{
		Score:  score,
		Member: key.String(),
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get returns domain.ErrGeometryNotFound on a miss.
func (c *Cache) Get(ctx context.Context, key domain.ShapeKey) (domain.Geometry, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Geometry{}, domain.ErrGeometryNotFound
		}
		return domain.Geometry{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var geom domain.Geometry
	if err := json.Unmarshal(val, &geom); err != nil {
		return domain.Geometry{}, fmt.Errorf("failed to unmarshal geometry: %w", err)
	}
	return geom, nil
}

// Keys lists the cached shape keys, pruning expired ones from the index first.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := c.client.ZRemRangeByScore(ctx, c.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired geometry: %w", err)
	}

	keys, err := c.client.ZRange(ctx, c.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list geometry: %w", err)
	}
	return keys, nil
}

// Purge removes every cached geometry and the index.
func (c *Cache) Purge(ctx context.Context) error {
	keys, err := c.client.ZRange(ctx, c.indexKey(), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("failed to list geometry: %w", err)
	}

	pipe := c.client.Pipeline()
	for _, k := range keys {
		pipe.Del(ctx, c.prefix+k)
	}
	pipe.Del(ctx, c.indexKey())
	_, err = pipe.Exec(ctx)
	return err
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
