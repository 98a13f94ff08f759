package idempotency_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storelane/store-service/usecase/idempotency"
)

type fakeKeyStore struct {
	values map[string]string
	err    error
}

func newFakeKeyStore() *fakeKeyStore {
	return &fakeKeyStore{values: map[string]string{}}
}

func (s *fakeKeyStore) SetIfAbsent(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = value
	return true, nil
}

func (s *fakeKeyStore) Get(_ context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.values[key], nil
}

func (s *fakeKeyStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.values[key] = value
	return nil
}

func (s *fakeKeyStore) Delete(_ context.Context, key string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.values, key)
	return nil
}

func (s *fakeKeyStore) Exists(_ context.Context, key string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.values[key]
	return ok, nil
}

func TestEnsure(t *testing.T) {
	ctx := context.Background()

	t.Run("first caller wins", func(t *testing.T) {
		keys := newFakeKeyStore()
		svc := idempotency.New(keys, time.Hour, nil)

		if !svc.Ensure(ctx, "req-1", 0) {
			t.Fatal("first call must be allowed")
		}
		if svc.Ensure(ctx, "req-1", 0) {
			t.Fatal("duplicate call must be rejected")
		}
	})

	t.Run("distinct keys are independent", func(t *testing.T) {
		keys := newFakeKeyStore()
		svc := idempotency.New(keys, time.Hour, nil)

		if !svc.Ensure(ctx, "req-1", 0) || !svc.Ensure(ctx, "req-2", 0) {
			t.Fatal("different keys must both be allowed")
		}
	})

	t.Run("store failure fails open", func(t *testing.T) {
		keys := newFakeKeyStore()
		keys.err = errors.New("connection refused")
		svc := idempotency.New(keys, time.Hour, nil)

		if !svc.Ensure(ctx, "req-1", 0) {
			t.Fatal("guard must fail open when the key store is down")
		}
	})
}

func TestResultRoundTrip(t *testing.T) {
	ctx := context.Background()
	keys := newFakeKeyStore()
	svc := idempotency.New(keys, time.Hour, nil)

	if !svc.Ensure(ctx, "req-1", 0) {
		t.Fatal("first call must be allowed")
	}

	// Before the first attempt completes, no result id is visible.
	got, err := svc.Result(ctx, "req-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("result = %q, want empty while pending", got)
	}

	if err := svc.StoreResult(ctx, "req-1", "store-42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = svc.Result(ctx, "req-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "store-42" {
		t.Fatalf("result = %q, want store-42", got)
	}
}

func TestRelease(t *testing.T) {
	ctx := context.Background()
	keys := newFakeKeyStore()
	svc := idempotency.New(keys, time.Hour, nil)

	if !svc.Ensure(ctx, "req-1", 0) {
		t.Fatal("first call must be allowed")
	}
	if err := svc.Release(ctx, "req-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !svc.Ensure(ctx, "req-1", 0) {
		t.Fatal("a released key must be usable again")
	}

	exists, err := svc.Exists(ctx, "req-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("re-acquired key must exist")
	}
}
