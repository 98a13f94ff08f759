package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/storelane/store-service/domain"
	"github.com/storelane/store-service/repository"
)

type idempotencyStore struct {
	client     *redislib.Client
	prefix     string
	defaultTTL time.Duration
}

// NewIdempotencyStore creates a Redis-backed idempotency key store.
// SetIfAbsent maps to SETNX with TTL, the one atomic primitive the guard needs.
func NewIdempotencyStore(client *redislib.Client, defaultTTL time.Duration) repository.IdempotencyStore {
	if defaultTTL <= 0 {
		defaultTTL = 24 * time.Hour
	}
	return &idempotencyStore{
		client:     client,
		prefix:     "idempotency:",
		defaultTTL: defaultTTL,
	}
}

func (s *idempotencyStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, domain.ErrInvalidPayload
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	return s.client.SetNX(ctx, s.key(key), value, ttl).Result()
}

func (s *idempotencyStore) Get(ctx context.Context, key string) (string, error) {
	result, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redislib.Nil {
		return "", nil
	}
	return result, err
}

func (s *idempotencyStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return domain.ErrInvalidPayload
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	return s.client.Set(ctx, s.key(key), value, ttl).Err()
}

func (s *idempotencyStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *idempotencyStore) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.client.Exists(ctx, s.key(key)).Result()
	return count > 0, err
}

func (s *idempotencyStore) key(k string) string {
	return fmt.Sprintf("%s%s", s.prefix, k)
}
