package repository

import (
	"context"

	"github.com/storelane/store-service/domain"
)

type AuditRepository interface {
	Save(ctx context.Context, audit *domain.StoreAudit) (*domain.StoreAudit, error)
	ListByStoreID(ctx context.Context, storeID string, limit, offset int) ([]domain.StoreAudit, error)
}
