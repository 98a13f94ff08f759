package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storelane/store-service/internal/infrastructure/outbox"
	"github.com/storelane/store-service/internal/services"
)

type fakeBroker struct {
	sent    []string
	failIDs map[string]bool
}

func (b *fakeBroker) Send(_ context.Context, _ string, key string, payload []byte) error {
	id := string(payload)
	if b.failIDs[id] {
		return errors.New("broker unavailable")
	}
	b.sent = append(b.sent, id)
	return nil
}

type health bool

func (h health) IsOnline() bool { return bool(h) }

func seedOutbox(t *testing.T, store *outbox.Store, ids ...string) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range ids {
		err := store.Append(outbox.Record{
			ID:           id,
			EventID:      "event-" + id,
			Topic:        "store:events",
			PartitionKey: "store-1",
			Payload:      []byte(id),
			Timestamp:    base.Add(time.Duration(i) * time.Millisecond),
		})
		if err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}
}

func TestDrainDeliversInOrder(t *testing.T) {
	store := openTestOutbox(t)
	broker := &fakeBroker{}
	dispatcher := services.NewOutboxDispatcher(store, broker, health(true), nil, services.DispatcherConfig{})

	seedOutbox(t, store, "a", "b", "c")

	if err := dispatcher.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}

	want := []string{"a", "b", "c"}
	if len(broker.sent) != len(want) {
		t.Fatalf("sent = %v, want %v", broker.sent, want)
	}
	for i := range want {
		if broker.sent[i] != want[i] {
			t.Fatalf("sent = %v, want %v", broker.sent, want)
		}
	}
	if dispatcher.Size() != 0 {
		t.Fatalf("pending = %d, want 0", dispatcher.Size())
	}
}

func TestDrainStopsOnFailure(t *testing.T) {
	store := openTestOutbox(t)
	broker := &fakeBroker{failIDs: map[string]bool{"b": true}}
	dispatcher := services.NewOutboxDispatcher(store, broker, health(true), nil, services.DispatcherConfig{})

	seedOutbox(t, store, "a", "b", "c")

	if err := dispatcher.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}

	// a delivered, b failed, c must not overtake b
	if len(broker.sent) != 1 || broker.sent[0] != "a" {
		t.Fatalf("sent = %v, want [a]", broker.sent)
	}
	if dispatcher.Size() != 2 {
		t.Fatalf("pending = %d, want 2", dispatcher.Size())
	}

	// the failed record keeps its place at the head of the queue
	records, err := store.Batch(10)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if records[0].ID != "b" {
		t.Fatalf("head = %s, want b", records[0].ID)
	}
	if records[0].Retries != 1 {
		t.Fatalf("retries = %d, want 1", records[0].Retries)
	}
}

func TestDrainRecoversAfterFailure(t *testing.T) {
	store := openTestOutbox(t)
	broker := &fakeBroker{failIDs: map[string]bool{"b": true}}
	dispatcher := services.NewOutboxDispatcher(store, broker, health(true), nil, services.DispatcherConfig{})

	seedOutbox(t, store, "a", "b", "c")

	if err := dispatcher.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	broker.failIDs = nil
	if err := dispatcher.Drain(context.Background()); err != nil {
		t.Fatalf("second drain: %v", err)
	}

	want := []string{"a", "b", "c"}
	if len(broker.sent) != len(want) {
		t.Fatalf("sent = %v, want %v", broker.sent, want)
	}
	for i := range want {
		if broker.sent[i] != want[i] {
			t.Fatalf("sent = %v, want %v", broker.sent, want)
		}
	}
}

func TestDrainDropsAfterMaxRetries(t *testing.T) {
	store := openTestOutbox(t)
	broker := &fakeBroker{failIDs: map[string]bool{"a": true}}
	dispatcher := services.NewOutboxDispatcher(store, broker, health(true), nil, services.DispatcherConfig{MaxRetries: 2})

	seedOutbox(t, store, "a", "b")

	// first failure: retry count goes to 1, pass stops
	if err := dispatcher.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	// second failure: retry count reaches the limit, record is dropped
	if err := dispatcher.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}

	if len(broker.sent) != 1 || broker.sent[0] != "b" {
		t.Fatalf("sent = %v, want [b]", broker.sent)
	}
	if dispatcher.Size() != 0 {
		t.Fatalf("pending = %d, want 0", dispatcher.Size())
	}
}

func TestDrainSkipsWhenOffline(t *testing.T) {
	store := openTestOutbox(t)
	broker := &fakeBroker{}
	dispatcher := services.NewOutboxDispatcher(store, broker, health(false), nil, services.DispatcherConfig{})

	seedOutbox(t, store, "a")

	if err := dispatcher.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(broker.sent) != 0 {
		t.Fatalf("sent = %v, want none while offline", broker.sent)
	}
	if dispatcher.Size() != 1 {
		t.Fatalf("pending = %d, want 1", dispatcher.Size())
	}
}
