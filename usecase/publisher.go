package usecase

import (
	"context"

	"github.com/storelane/store-service/domain"
)

// EventPublisher hands a committed lifecycle event to the outbound pipeline.
// Publication is best-effort from the caller's point of view: use cases log a
// returned error and move on, they never roll back on it.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
