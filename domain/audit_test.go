package domain_test

import (
	"testing"
	"time"

	"github.com/storelane/store-service/domain"
)

func TestBuildAudit(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	actor := "owner-1"

	tests := []struct {
		name        string
		event       domain.Event
		actor       *string
		wantType    domain.AuditEventType
		wantStatus  domain.StoreStatus
		wantSummary string
	}{
		{
			name: "registration",
			event: &domain.StoreCreated{
				StoreID:     "store-1",
				OwnerUserID: "owner-1",
				StoreName:   "Corner Bakery",
				Description: "fresh bread",
				OccurredAt:  now,
			},
			actor:       &actor,
			wantType:    domain.AuditRegistered,
			wantStatus:  domain.StoreStatusRegistered,
			wantSummary: "registered with name 'Corner Bakery'",
		},
		{
			name: "info update",
			event: &domain.StoreInfoUpdated{
				StoreID:     "store-1",
				OwnerUserID: "owner-1",
				Before:      domain.StoreSnapshot{Name: "Corner Bakery", Description: "fresh bread", Status: domain.StoreStatusRegistered},
				After:       domain.StoreSnapshot{Name: "Corner Bakery & Cafe", Description: "fresh bread", Status: domain.StoreStatusRegistered},
				OccurredAt:  now,
			},
			actor:       &actor,
			wantType:    domain.AuditInfoUpdated,
			wantStatus:  domain.StoreStatusRegistered,
			wantSummary: "name: 'Corner Bakery' → 'Corner Bakery & Cafe'",
		},
		{
			name: "suspension by the platform",
			event: &domain.StoreSuspended{
				StoreID:     "store-1",
				OwnerUserID: "owner-1",
				StoreName:   "Corner Bakery",
				OccurredAt:  now,
			},
			actor:       nil,
			wantType:    domain.AuditSuspended,
			wantStatus:  domain.StoreStatusSuspended,
			wantSummary: "suspended store 'Corner Bakery'",
		},
		{
			name: "deletion",
			event: &domain.StoreDeleted{
				StoreID:     "store-1",
				OwnerUserID: "owner-1",
				StoreName:   "Corner Bakery",
				OccurredAt:  now,
			},
			actor:       &actor,
			wantType:    domain.AuditDeleted,
			wantStatus:  domain.StoreStatusDeleted,
			wantSummary: "deleted store 'Corner Bakery'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := domain.BuildAudit(tt.event, tt.actor)

			if audit.ID == "" {
				t.Fatal("expected a generated audit id")
			}
			if audit.StoreID != "store-1" {
				t.Fatalf("store id = %s", audit.StoreID)
			}
			if audit.EventType != tt.wantType {
				t.Fatalf("event type = %s, want %s", audit.EventType, tt.wantType)
			}
			if audit.StatusSnapshot == nil || *audit.StatusSnapshot != tt.wantStatus {
				t.Fatalf("status snapshot = %v, want %s", audit.StatusSnapshot, tt.wantStatus)
			}
			if audit.ChangeSummary != tt.wantSummary {
				t.Fatalf("summary = %q, want %q", audit.ChangeSummary, tt.wantSummary)
			}
			if !audit.RecordedAt.Equal(now) {
				t.Fatalf("recorded_at = %v, want %v", audit.RecordedAt, now)
			}
			if (tt.actor == nil) != (audit.ActorUserID == nil) {
				t.Fatalf("actor = %v, want %v", audit.ActorUserID, tt.actor)
			}
		})
	}
}

func TestBuildAuditUpdateMetadata(t *testing.T) {
	event := &domain.StoreInfoUpdated{
		StoreID: "store-1",
		Before:  domain.StoreSnapshot{Name: "A", Description: "x", Status: domain.StoreStatusRegistered},
		After:   domain.StoreSnapshot{Name: "B", Description: "y", Status: domain.StoreStatusRegistered},
	}

	audit := domain.BuildAudit(event, nil)

	before, ok := audit.Metadata["before"].(map[string]any)
	if !ok {
		t.Fatalf("metadata before missing: %v", audit.Metadata)
	}
	after, ok := audit.Metadata["after"].(map[string]any)
	if !ok {
		t.Fatalf("metadata after missing: %v", audit.Metadata)
	}
	if before["name"] != "A" || after["name"] != "B" {
		t.Fatalf("metadata names = %v / %v", before["name"], after["name"])
	}
	if audit.ChangeSummary != "name: 'A' → 'B', description: 'x' → 'y'" {
		t.Fatalf("summary = %q", audit.ChangeSummary)
	}
}

func TestChangedFieldsOrder(t *testing.T) {
	event := &domain.StoreInfoUpdated{
		Before: domain.StoreSnapshot{Name: "A", Description: "x", Status: domain.StoreStatusRegistered},
		After:  domain.StoreSnapshot{Name: "B", Description: "y", Status: domain.StoreStatusRegistered},
	}

	got := event.ChangedFields()
	want := []string{"name", "description"}
	if len(got) != len(want) {
		t.Fatalf("changed fields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("changed fields = %v, want %v", got, want)
		}
	}
}
