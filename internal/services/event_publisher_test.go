package services_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/storelane/store-service/domain"
	"github.com/storelane/store-service/internal/infrastructure/outbox"
	"github.com/storelane/store-service/internal/services"
)

func openTestOutbox(t *testing.T) *outbox.Store {
	t.Helper()
	store, err := outbox.Open(filepath.Join(t.TempDir(), "outbox.db"), "outbox")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPublishAppendsToOutbox(t *testing.T) {
	store := openTestOutbox(t)
	publisher := services.NewEventPublisher(store, "store:events", nil)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	event := &domain.StoreCreated{
		StoreID:     "store-1",
		OwnerUserID: "owner-1",
		StoreName:   "Corner Bakery",
		Description: "fresh bread",
		OccurredAt:  now,
	}
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	records, err := store.Batch(10)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}

	record := records[0]
	if record.Topic != "store:events" {
		t.Fatalf("topic = %s", record.Topic)
	}
	if record.PartitionKey != "store-1" {
		t.Fatalf("partition key = %s", record.PartitionKey)
	}

	var message services.EventMessage
	if err := json.Unmarshal(record.Payload, &message); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if message.EventType != string(domain.EventStoreCreated) {
		t.Fatalf("event type = %s", message.EventType)
	}
	if message.OccurredAt != now.UnixMilli() {
		t.Fatalf("occurred_at = %d, want %d", message.OccurredAt, now.UnixMilli())
	}
	if message.Name != "Corner Bakery" || message.Status != "REGISTERED" {
		t.Fatalf("payload = %+v", message)
	}
	if record.EventID == "" || record.EventID != message.EventID {
		t.Fatalf("event id mismatch: record %q, message %q", record.EventID, message.EventID)
	}
}

func TestPublishUpdateCarriesDiff(t *testing.T) {
	store := openTestOutbox(t)
	publisher := services.NewEventPublisher(store, "store:events", nil)

	event := &domain.StoreInfoUpdated{
		StoreID:     "store-1",
		OwnerUserID: "owner-1",
		Before:      domain.StoreSnapshot{Name: "A", Description: "x", Status: domain.StoreStatusRegistered},
		After:       domain.StoreSnapshot{Name: "B", Description: "x", Status: domain.StoreStatusRegistered},
		OccurredAt:  time.Now(),
	}
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	records, _ := store.Batch(10)
	var message services.EventMessage
	if err := json.Unmarshal(records[0].Payload, &message); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	if message.Before == nil || message.After == nil {
		t.Fatalf("before/after missing: %+v", message)
	}
	if message.Before.Name != "A" || message.After.Name != "B" {
		t.Fatalf("diff = %+v → %+v", message.Before, message.After)
	}
	if len(message.ChangedFields) != 1 || message.ChangedFields[0] != "name" {
		t.Fatalf("changed fields = %v, want [name]", message.ChangedFields)
	}
}

func TestPublishNilEvent(t *testing.T) {
	store := openTestOutbox(t)
	publisher := services.NewEventPublisher(store, "store:events", nil)

	if err := publisher.Publish(context.Background(), nil); err != nil {
		t.Fatalf("nil event must be ignored, got %v", err)
	}
	size, _ := store.Size()
	if size != 0 {
		t.Fatalf("size = %d, want 0", size)
	}
}
