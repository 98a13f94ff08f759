package repository

import (
	"context"
	"time"
)

// IdempotencyStore is the shared key-value store behind the idempotency guard.
// SetIfAbsent must be atomic; it is the only synchronization primitive required.
type IdempotencyStore interface {
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
