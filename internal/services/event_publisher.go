package services

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storelane/store-service/domain"
	"github.com/storelane/store-service/internal/infrastructure/outbox"
	"github.com/storelane/store-service/internal/infrastructure/stream"
	"github.com/storelane/store-service/usecase"
)

// SnapshotPayload mirrors a store snapshot on the wire.
type SnapshotPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// EventMessage is the outbound event schema. Consumers must treat unknown
// additional fields as ignorable.
type EventMessage struct {
	EventID       string           `json:"event_id"`
	EventType     string           `json:"event_type"`
	OccurredAt    int64            `json:"occurred_at"` // epoch millis
	StoreID       string           `json:"store_id"`
	OwnerUserID   string           `json:"owner_user_id"`
	Name          string           `json:"name,omitempty"`
	Description   string           `json:"description,omitempty"`
	Status        string           `json:"status,omitempty"`
	Before        *SnapshotPayload `json:"before,omitempty"`
	After         *SnapshotPayload `json:"after,omitempty"`
	ChangedFields []string         `json:"changed_fields"`
}

// EventPublisher serializes lifecycle events and appends them to the durable
// outbox. The dispatcher delivers them to the broker afterwards, so callers
// return before any network send happens.
type EventPublisher struct {
	outbox *outbox.Store
	topic  string
	logger *zap.Logger
}

func NewEventPublisher(store *outbox.Store, topic string, logger *zap.Logger) *EventPublisher {
	if topic == "" {
		topic = stream.TopicStoreEvents
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventPublisher{
		outbox: store,
		topic:  topic,
		logger: logger,
	}
}

func (p *EventPublisher) Publish(ctx context.Context, event domain.Event) error {
	if event == nil {
		return nil
	}

	message := encodeEvent(event)
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	record := outbox.Record{
		EventID:      message.EventID,
		Topic:        p.topic,
		PartitionKey: event.PartitionKey(),
		Payload:      payload,
	}
	if err := p.outbox.Append(record); err != nil {
		return err
	}

	p.logger.Debug("event queued for publication",
		zap.String("event_id", message.EventID),
		zap.String("event_type", message.EventType),
		zap.String("store_id", message.StoreID))
	return nil
}

func encodeEvent(event domain.Event) EventMessage {
	message := EventMessage{
		EventID:    uuid.NewString(),
		EventType:  string(event.Kind()),
		OccurredAt: event.Occurred().UnixMilli(),
		StoreID:    event.PartitionKey(),
	}

	switch e := event.(type) {
	case *domain.StoreCreated:
		message.OwnerUserID = e.OwnerUserID
		message.Name = e.StoreName
		message.Description = e.Description
		message.Status = string(domain.StoreStatusRegistered)
		message.ChangedFields = []string{"name", "description", "status"}

	case *domain.StoreInfoUpdated:
		message.OwnerUserID = e.OwnerUserID
		message.Name = e.After.Name
		message.Description = e.After.Description
		message.Status = string(e.After.Status)
		message.Before = snapshotPayload(e.Before)
		message.After = snapshotPayload(e.After)
		message.ChangedFields = e.ChangedFields()

	case *domain.StoreSuspended:
		message.OwnerUserID = e.OwnerUserID
		message.Name = e.StoreName
		message.Status = string(domain.StoreStatusSuspended)
		message.ChangedFields = []string{"status"}

	case *domain.StoreDeleted:
		message.OwnerUserID = e.OwnerUserID
		message.Name = e.StoreName
		message.Status = string(domain.StoreStatusDeleted)
		message.ChangedFields = []string{"status"}
	}

	return message
}

func snapshotPayload(s domain.StoreSnapshot) *SnapshotPayload {
	return &SnapshotPayload{
		Name:        s.Name,
		Description: s.Description,
		Status:      string(s.Status),
	}
}

var _ usecase.EventPublisher = (*EventPublisher)(nil)
