package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores reference-data snapshots across restarts so the engine can
// come up and serve filters without waiting on the backend.
type Cache interface {
	Load(ctx context.Context, key string, v any) (bool, error)
	Save(ctx context.Context, key string, v any, ttl time.Duration) error
}

type redisCache struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisCache(redisClient *redis.Client) Cache {
	return &redisCache{
		redisClient: redisClient,
		keyPrefix:   "search:catalog:",
	}
}

func (c *redisCache) Load(ctx context.Context, key string, v any) (bool, error) {
	val, err := c.redisClient.Get(ctx, c.keyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to load cached %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), v); err != nil {
		return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *redisCache) Save(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}
	if err := c.redisClient.Set(ctx, c.keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	return nil
}
