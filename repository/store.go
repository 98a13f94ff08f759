package repository

import (
	"context"

	"github.com/storelane/store-service/domain"
)

// StoreFilter narrows admin listings. Status and Name map to the
// load-by-status and load-by-name-containing lookups.
type StoreFilter struct {
	Status domain.StoreStatus
	Name   string
	Limit  int
	Offset int
}

type StoreRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	GetByOwnerUserID(ctx context.Context, ownerUserID string) (*domain.Store, error)
	// ExistsByOwnerUserID reports whether the owner has a non-deleted store.
	ExistsByOwnerUserID(ctx context.Context, ownerUserID string) (bool, error)
	List(ctx context.Context, filter StoreFilter) ([]domain.Store, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Store, error)
	Save(ctx context.Context, store *domain.Store) (*domain.Store, error)
}
