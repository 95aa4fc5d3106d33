// Package viewcounter keeps a best-effort count of property detail fetches
// in redis.
package viewcounter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "property:views:"

type Counter interface {
	Increment(ctx context.Context, propertyId uuid.UUID) (int64, error)
	Get(ctx context.Context, propertyId uuid.UUID) (int64, error)
}

type RedisCounter struct {
	rdb     *redis.Client
	timeout time.Duration
}

// NewRedisCounter accepts a nil client, in which case counting is disabled.
func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb, timeout: 200 * time.Millisecond}
}

// NewClient builds a client from a redis:// URL. An empty URL disables counting.
func NewClient(url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

func key(propertyId uuid.UUID) string {
	return keyPrefix + propertyId.String()
}

func (c *RedisCounter) Increment(ctx context.Context, propertyId uuid.UUID) (int64, error) {
	if c == nil || c.rdb == nil {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.rdb.Incr(ctx, key(propertyId)).Result()
}

func (c *RedisCounter) Get(ctx context.Context, propertyId uuid.UUID) (int64, error) {
	if c == nil || c.rdb == nil {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	n, err := c.rdb.Get(ctx, key(propertyId)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}
