package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuditEventType classifies an audit trail entry.
type AuditEventType string

const (
	AuditRegistered  AuditEventType = "REGISTERED"
	AuditInfoUpdated AuditEventType = "INFO_UPDATED"
	AuditSuspended   AuditEventType = "SUSPENDED"
	AuditDeleted     AuditEventType = "DELETED"
)

// StoreAudit is an append-only log entry recorded once per lifecycle
// transition. A nil ActorUserID denotes a system-originated action.
type StoreAudit struct {
	ID             string         `json:"id"`
	StoreID        string         `json:"store_id"`
	EventType      AuditEventType `json:"event_type"`
	StatusSnapshot *StoreStatus   `json:"status_snapshot,omitempty"`
	ChangeSummary  string         `json:"change_summary"`
	ActorUserID    *string        `json:"actor_user_id,omitempty"`
	RecordedAt     time.Time      `json:"recorded_at"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// BuildAudit deterministically maps a lifecycle event to its audit record.
// Replaying the same event yields an equivalent record modulo the generated id.
func BuildAudit(event Event, actorUserID *string) StoreAudit {
	audit := StoreAudit{
		ID:          uuid.NewString(),
		StoreID:     event.PartitionKey(),
		ActorUserID: actorUserID,
		RecordedAt:  event.Occurred(),
	}

	switch e := event.(type) {
	case *StoreCreated:
		audit.EventType = AuditRegistered
		audit.StatusSnapshot = statusPtr(StoreStatusRegistered)
		audit.ChangeSummary = fmt.Sprintf("registered with name '%s'", e.StoreName)
		audit.Metadata = map[string]any{
			"owner_user_id": e.OwnerUserID,
			"name":          e.StoreName,
			"description":   e.Description,
		}

	case *StoreInfoUpdated:
		audit.EventType = AuditInfoUpdated
		audit.StatusSnapshot = statusPtr(e.After.Status)
		audit.ChangeSummary = summarizeInfoChange(e.Before, e.After)
		audit.Metadata = map[string]any{
			"before": snapshotMap(e.Before),
			"after":  snapshotMap(e.After),
		}

	case *StoreSuspended:
		audit.EventType = AuditSuspended
		audit.StatusSnapshot = statusPtr(StoreStatusSuspended)
		audit.ChangeSummary = fmt.Sprintf("suspended store '%s'", e.StoreName)
		audit.Metadata = map[string]any{
			"name":   e.StoreName,
			"status": string(StoreStatusSuspended),
		}

	case *StoreDeleted:
		audit.EventType = AuditDeleted
		audit.StatusSnapshot = statusPtr(StoreStatusDeleted)
		audit.ChangeSummary = fmt.Sprintf("deleted store '%s'", e.StoreName)
		audit.Metadata = map[string]any{
			"name":   e.StoreName,
			"status": string(StoreStatusDeleted),
		}
	}

	return audit
}

// summarizeInfoChange diffs only the fields that actually changed,
// e.g. "name: 'A' → 'B', description: 'x' → 'y'".
func summarizeInfoChange(before, after StoreSnapshot) string {
	var parts []string
	if before.Name != after.Name {
		parts = append(parts, fmt.Sprintf("name: '%s' → '%s'", before.Name, after.Name))
	}
	if before.Description != after.Description {
		parts = append(parts, fmt.Sprintf("description: '%s' → '%s'", before.Description, after.Description))
	}
	if before.Status != after.Status {
		parts = append(parts, fmt.Sprintf("status: '%s' → '%s'", before.Status, after.Status))
	}
	return strings.Join(parts, ", ")
}

func snapshotMap(s StoreSnapshot) map[string]any {
	return map[string]any{
		"name":        s.Name,
		"description": s.Description,
		"status":      string(s.Status),
	}
}

func statusPtr(s StoreStatus) *StoreStatus {
	return &s
}
