package filterstate

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	redisClient *redis.Client
	key         string
}

// NewRedisStore persists the encoded filter form under a per-session key.
func NewRedisStore(redisClient *redis.Client, sessionID string) PersistedStore {
	return &redisStore{
		redisClient: redisClient,
		key:         "search:filters:" + sessionID,
	}
}

func (s *redisStore) Save(ctx context.Context, encoded string) error {
	if encoded == "" {
		// Keep the persisted form minimal: a fully-default state removes the
		// key instead of writing an empty value.
		if err := s.redisClient.Del(ctx, s.key).Err(); err != nil {
			return fmt.Errorf("failed to clear persisted filters: %w", err)
		}
		return nil
	}
	if err := s.redisClient.Set(ctx, s.key, encoded, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist filters: %w", err)
	}
	return nil
}

func (s *redisStore) Load(ctx context.Context) (string, bool, error) {
	val, err := s.redisClient.Get(ctx, s.key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load persisted filters: %w", err)
	}
	return val, true, nil
}
