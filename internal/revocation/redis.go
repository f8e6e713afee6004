package revocation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore keeps denylist entries in Redis, one key per token with a
// native EX expiry. Redis evicts entries itself, no sweep is needed, and
// the set is shared across API replicas.
type redisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &redisStore{client: client}, nil
}

func (s *redisStore) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	return s.client.Set(ctx, key(token), "1", ttl).Err()
}

func (s *redisStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

func key(token string) string {
	return "revoked:" + token
}
