package session

import (
	"context"
	"errors"
	"fmt"
	"grievance/backend/internal/config"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements RevocationStore with one expiring key per token.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store from an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: config.RevokedTokenPrefix,
	}
}

func (s *RedisStore) key(tokenID string) string {
	return s.prefix + tokenID
}

// Revoke marks tokenID as revoked until the given time.
func (s *RedisStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked and not yet expired.
func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := s.client.Get(ctx, s.key(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup revoked token: %w", err)
	}
	return true, nil
}
