package idempotency

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/storelane/store-service/repository"
)

// pendingMarker is written by Ensure before the operation's result is known.
const pendingMarker = "pending"

// Service collapses duplicate external requests into a single effect using an
// atomic set-if-absent against a shared key-value store.
type Service struct {
	keys   repository.IdempotencyStore
	ttl    time.Duration
	logger *zap.Logger
}

func New(keys repository.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		keys:   keys,
		ttl:    ttl,
		logger: logger,
	}
}

// Ensure returns true only for the first caller of the key within the TTL
// window. On a key-store failure the guard fails open: availability wins over
// strict duplicate suppression.
func (s *Service) Ensure(ctx context.Context, key string, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = s.ttl
	}
	ok, err := s.keys.SetIfAbsent(ctx, key, pendingMarker, ttl)
	if err != nil {
		s.logger.Warn("idempotency store unavailable, failing open",
			zap.String("key", key),
			zap.Error(err))
		return true
	}
	return ok
}

// StoreResult caches the id produced by the first successful attempt so later
// duplicates can return it.
func (s *Service) StoreResult(ctx context.Context, key, resultID string) error {
	return s.keys.Set(ctx, key, resultID, s.ttl)
}

// Result returns the cached result id for the key, or "" when none is stored
// yet (the first attempt may still be in flight).
func (s *Service) Result(ctx context.Context, key string) (string, error) {
	value, err := s.keys.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if value == pendingMarker {
		return "", nil
	}
	return value, nil
}

// Release clears the key so a legitimate retry can proceed.
func (s *Service) Release(ctx context.Context, key string) error {
	return s.keys.Delete(ctx, key)
}

// Exists reports whether the key is held within the TTL window.
func (s *Service) Exists(ctx context.Context, key string) (bool, error) {
	return s.keys.Exists(ctx, key)
}
