package store

import (
	"context"

	"github.com/storelane/store-service/domain"
	"github.com/storelane/store-service/repository"
)

// Guard holds the stateless policy checks consulted before any mutation.
type Guard struct {
	stores repository.StoreRepository
}

func NewGuard(stores repository.StoreRepository) *Guard {
	return &Guard{stores: stores}
}

// CheckStoreAlreadyExists fails when the owner already has a non-deleted store.
func (g *Guard) CheckStoreAlreadyExists(ctx context.Context, ownerUserID string) error {
	exists, err := g.stores.ExistsByOwnerUserID(ctx, ownerUserID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicateStore
	}
	return nil
}

// CheckStoreAccess loads the store and verifies the caller owns it.
func (g *Guard) CheckStoreAccess(ctx context.Context, storeID, userID string) (*domain.Store, error) {
	store, err := g.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store.OwnerUserID != userID {
		return nil, domain.ErrStoreAccessDenied
	}
	return store, nil
}

// CheckStoreDeletable loads the store and verifies it is not already deleted.
func (g *Guard) CheckStoreDeletable(ctx context.Context, storeID string) (*domain.Store, error) {
	store, err := g.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store.IsDeleted() {
		return nil, domain.ErrStoreAlreadyDeleted
	}
	return store, nil
}
