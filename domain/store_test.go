package domain_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/storelane/store-service/domain"
)

func TestValidateStoreName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain name", input: "Corner Bakery"},
		{name: "exactly 100 runes", input: strings.Repeat("a", 100)},
		{name: "multibyte within limit", input: strings.Repeat("가", 100)},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   \t ", wantErr: true},
		{name: "101 runes", input: strings.Repeat("a", 101), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateStoreName(tt.input)
			if tt.wantErr && !errors.Is(err, domain.ErrInvalidStoreName) {
				t.Fatalf("expected ErrInvalidStoreName, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewStore(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store, err := domain.NewStore("owner-1", "Corner Bakery", "fresh bread", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.ID == "" {
		t.Fatal("expected a generated id")
	}
	if store.Status != domain.StoreStatusRegistered {
		t.Fatalf("status = %s, want REGISTERED", store.Status)
	}
	if !store.Rating.LaunchedAt.Equal(now) {
		t.Fatalf("rating launched_at = %v, want %v", store.Rating.LaunchedAt, now)
	}
	if store.Rating.AverageRating != 0 || store.Rating.ReviewCount != 0 {
		t.Fatal("fresh rating must start at zero")
	}

	if _, err := domain.NewStore("owner-1", "  ", "", now); !errors.Is(err, domain.ErrInvalidStoreName) {
		t.Fatalf("expected ErrInvalidStoreName, got %v", err)
	}
}

func TestUpdateInfo(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	base := domain.Store{
		ID:          "store-1",
		OwnerUserID: "owner-1",
		Name:        "Corner Bakery",
		Description: "fresh bread",
		Status:      domain.StoreStatusRegistered,
	}

	t.Run("changes produce an event", func(t *testing.T) {
		next, event, err := base.UpdateInfo("Corner Bakery & Cafe", "fresh bread", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event == nil {
			t.Fatal("expected an event")
		}
		if next.Name != "Corner Bakery & Cafe" {
			t.Fatalf("name = %q", next.Name)
		}
		if base.Name != "Corner Bakery" {
			t.Fatal("receiver must not be mutated")
		}
		if event.Before.Name != "Corner Bakery" || event.After.Name != "Corner Bakery & Cafe" {
			t.Fatalf("snapshot mismatch: %+v → %+v", event.Before, event.After)
		}
		if got := event.ChangedFields(); len(got) != 1 || got[0] != "name" {
			t.Fatalf("changed fields = %v, want [name]", got)
		}
	})

	t.Run("identical values are a no-op", func(t *testing.T) {
		next, event, err := base.UpdateInfo("Corner Bakery", "fresh bread", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if event != nil {
			t.Fatal("no-op update must not produce an event")
		}
		if next != base {
			t.Fatal("no-op update must return the original store")
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		_, _, err := base.UpdateInfo("", "fresh bread", now)
		if !errors.Is(err, domain.ErrInvalidStoreName) {
			t.Fatalf("expected ErrInvalidStoreName, got %v", err)
		}
	})
}

func TestEnsureUpdatable(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.StoreStatus
		wantErr error
	}{
		{name: "registered", status: domain.StoreStatusRegistered},
		{name: "suspended", status: domain.StoreStatusSuspended, wantErr: domain.ErrCannotUpdateSuspendedStore},
		{name: "deleted", status: domain.StoreStatusDeleted, wantErr: domain.ErrCannotUpdateDeletedStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.Store{Status: tt.status}
			err := s.EnsureUpdatable()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSuspend(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	base := domain.Store{
		ID:          "store-1",
		OwnerUserID: "owner-1",
		Name:        "Corner Bakery",
		Status:      domain.StoreStatusRegistered,
	}

	next, event, err := base.Suspend(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Status != domain.StoreStatusSuspended {
		t.Fatalf("status = %s", next.Status)
	}
	if next.HiddenAt == nil || !next.HiddenAt.Equal(now) {
		t.Fatalf("hidden_at = %v", next.HiddenAt)
	}
	if event.StoreID != "store-1" || !event.OccurredAt.Equal(now) {
		t.Fatalf("event mismatch: %+v", event)
	}

	if _, _, err := next.Suspend(now); !errors.Is(err, domain.ErrStoreAlreadySuspended) {
		t.Fatalf("expected ErrStoreAlreadySuspended, got %v", err)
	}

	deleted := base
	deleted.Status = domain.StoreStatusDeleted
	if _, _, err := deleted.Suspend(now); !errors.Is(err, domain.ErrStoreAlreadyDeleted) {
		t.Fatalf("expected ErrStoreAlreadyDeleted, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	base := domain.Store{
		ID:          "store-1",
		OwnerUserID: "owner-1",
		Name:        "Corner Bakery",
		Status:      domain.StoreStatusRegistered,
	}

	next, event, err := base.Delete(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !next.IsDeleted() {
		t.Fatal("store must be deleted")
	}
	if next.DeletedAt == nil || !next.DeletedAt.Equal(now) {
		t.Fatalf("deleted_at = %v", next.DeletedAt)
	}
	if event.Kind() != domain.EventStoreDeleted {
		t.Fatalf("kind = %s", event.Kind())
	}

	if _, _, err := next.Delete(now); !errors.Is(err, domain.ErrStoreAlreadyDeleted) {
		t.Fatalf("second delete: expected ErrStoreAlreadyDeleted, got %v", err)
	}

	suspended := base
	suspended.Status = domain.StoreStatusSuspended
	if _, _, err := suspended.Delete(now); err != nil {
		t.Fatalf("deleting a suspended store must succeed, got %v", err)
	}
}

func TestCreatedEvent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := domain.Store{ID: "store-1", OwnerUserID: "owner-1", Name: "Corner Bakery", Description: "fresh bread"}
	event, err := s.CreatedEvent(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.PartitionKey() != "store-1" {
		t.Fatalf("partition key = %s", event.PartitionKey())
	}
	if event.Description != "fresh bread" {
		t.Fatalf("description = %q", event.Description)
	}

	unassigned := domain.Store{Name: "Corner Bakery"}
	if _, err := unassigned.CreatedEvent(now); !errors.Is(err, domain.ErrStoreIDUnassigned) {
		t.Fatalf("expected ErrStoreIDUnassigned, got %v", err)
	}
}
