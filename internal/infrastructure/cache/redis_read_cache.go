package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ticketing/backend/internal/application/catalog"
)

// RedisReadCache caches serialized read models in Redis with a TTL.
// Misses return found=false with a nil error so callers fall through
// to the database.
type RedisReadCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisReadCache creates a read cache on an existing client
func NewRedisReadCache(client *redis.Client, keyPrefix string) *RedisReadCache {
	return &RedisReadCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached value for key, or found=false on a miss
func (c *RedisReadCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache get: %w", err)
	}
	return data, true, nil
}

// Set stores value under key for the given TTL
func (c *RedisReadCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("read cache set: %w", err)
	}
	return nil
}

var _ catalog.ReadCache = (*RedisReadCache)(nil)
