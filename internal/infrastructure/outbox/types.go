package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is a serialized domain event awaiting delivery to the broker.
// Records are appended after the owning database transaction commits and
// removed once the broker accepts them.
type Record struct {
	ID           string          `json:"id"`
	EventID      string          `json:"event_id"`
	Topic        string          `json:"topic"`
	PartitionKey string          `json:"partition_key"`
	Payload      json.RawMessage `json:"payload"`
	Retries      int             `json:"retries"`
	Timestamp    time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (r *Record) normalize() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
}
