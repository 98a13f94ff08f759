package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelane/store-service/domain"
	"github.com/storelane/store-service/repository"
)

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository returns a Postgres-backed implementation of AuditRepository.
// Audit rows are append-only; this repository never updates or deletes them.
func NewAuditRepository(pool *pgxpool.Pool) repository.AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Save(ctx context.Context, audit *domain.StoreAudit) (*domain.StoreAudit, error) {
	if audit == nil || audit.ID == "" {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO store_audits (id, store_id, event_type, status_snapshot, change_summary, actor_user_id, recorded_at, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var statusSnapshot *string
	if audit.StatusSnapshot != nil {
		s := string(*audit.StatusSnapshot)
		statusSnapshot = &s
	}

	if _, err := querier(ctx, r.pool).Exec(ctx, query,
		audit.ID,
		audit.StoreID,
		string(audit.EventType),
		statusSnapshot,
		audit.ChangeSummary,
		audit.ActorUserID,
		audit.RecordedAt,
		marshalMetadata(audit.Metadata),
	); err != nil {
		return nil, err
	}

	return audit, nil
}

func (r *auditRepository) ListByStoreID(ctx context.Context, storeID string, limit, offset int) ([]domain.StoreAudit, error) {
	const query = `
	SELECT id, store_id, event_type, status_snapshot, change_summary, actor_user_id, recorded_at, metadata
	FROM store_audits
	WHERE store_id = $1
	ORDER BY recorded_at DESC
	LIMIT $2 OFFSET $3
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, storeID, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []domain.StoreAudit
	for rows.Next() {
		var audit domain.StoreAudit
		var (
			eventType      string
			statusSnapshot *string
			metadata       []byte
		)
		if err := rows.Scan(
			&audit.ID,
			&audit.StoreID,
			&eventType,
			&statusSnapshot,
			&audit.ChangeSummary,
			&audit.ActorUserID,
			&audit.RecordedAt,
			&metadata,
		); err != nil {
			return nil, err
		}
		audit.EventType = domain.AuditEventType(eventType)
		if statusSnapshot != nil {
			s := domain.StoreStatus(*statusSnapshot)
			audit.StatusSnapshot = &s
		}
		if len(metadata) > 0 {
			_ = json.Unmarshal(metadata, &audit.Metadata)
		}
		audits = append(audits, audit)
	}
	return audits, rows.Err()
}

func marshalMetadata(metadata map[string]any) []byte {
	if len(metadata) == 0 {
		return nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return nil
	}
	return b
}
