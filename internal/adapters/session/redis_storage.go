package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zatekoja/hms-frontdesk/internal/domain/providers"
	redisclient "github.com/zatekoja/hms-frontdesk/internal/infrastructure/clients/redis"
)

// RedisStorage keeps the values of one browser session in a Redis hash.
// Every write refreshes the hash TTL.
type RedisStorage struct {
	client *redisclient.Client
	key    string
	ttl    time.Duration
}

// NewRedisStorage creates the storage of sessionID
func NewRedisStorage(client *redisclient.Client, sessionID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		key:    HashKey(sessionID),
		ttl:    ttl,
	}
}

// HashKey returns the Redis hash holding a session
func HashKey(sessionID string) string {
	return "hms:session:" + sessionID
}

var _ providers.SessionStorage = (*RedisStorage)(nil)

func (s *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Client().HGet(ctx, s.key, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session: %w", err)
	}
	return v, true, nil
}

func (s *RedisStorage) Set(ctx context.Context, key, value string) error {
	pipe := s.client.Client().TxPipeline()
	pipe.HSet(ctx, s.key, key, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Client().HDel(ctx, s.key, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
