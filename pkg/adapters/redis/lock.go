package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/ports"
	"github.com/google/uuid"
)

var (
	// ErrLockAcquire is returned when the build lock cannot be acquired.
	ErrLockAcquire = errors.New("failed to acquire build lock")
)

const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

// Lock implements ports.BuildLocker with SET NX PX, so processes sharing the
// cache build each key once.
func (c *Cache) Lock(ctx context.Context, key domain.ShapeKey, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := c.prefix + "lock:" + key.String()
	val := uuid.NewString()

	try := func() (bool, error) {
		ok, err := c.client.SetNX(ctx, lockKey, val, ttl).Result()
		if err != nil {
			return false, fmt.Errorf("%w: %w", ErrLockAcquire, err)
		}
		return ok, nil
	}

	ok, err := try()
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for !ok {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			if ok, err = try(); err != nil {
				return nil, err
			}
		}
	}

	return func(ctx context.Context) error {
		// Only the holder may release it.
		return c.client.Eval(ctx, unlockScript, []string{lockKey}, val).Err()
	}, nil
}
