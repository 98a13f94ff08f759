package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/storelane/store-service/domain"
	"github.com/storelane/store-service/repository"
	"github.com/storelane/store-service/usecase"
)

// UseCase orchestrates the store lifecycle: guard checks, aggregate
// transitions, transactional persistence of state + audit, then post-commit
// event publication.
type UseCase struct {
	stores     repository.StoreRepository
	audits     repository.AuditRepository
	identities repository.IdentityResolver
	tx         repository.TxRunner
	publisher  usecase.EventPublisher
	guard      *Guard
	logger     *zap.Logger
	now        func() time.Time
}

func New(
	stores repository.StoreRepository,
	audits repository.AuditRepository,
	identities repository.IdentityResolver,
	tx repository.TxRunner,
	publisher usecase.EventPublisher,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		stores:     stores,
		audits:     audits,
		identities: identities,
		tx:         tx,
		publisher:  publisher,
		guard:      NewGuard(stores),
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates a store for the owner. Requires the OWNER role and at most
// one non-deleted store per owner.
func (uc *UseCase) Register(ctx context.Context, ownerUserID, name, description string) (*domain.Store, error) {
	identity, err := uc.identities.Resolve(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	if !identity.CanRegisterStore() {
		return nil, domain.ErrInsufficientPermission
	}

	if err := uc.guard.CheckStoreAlreadyExists(ctx, ownerUserID); err != nil {
		return nil, err
	}

	store, err := domain.NewStore(ownerUserID, name, description, uc.now())
	if err != nil {
		return nil, err
	}

	var saved *domain.Store
	var event *domain.StoreCreated
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		saved, err = uc.stores.Save(ctx, store)
		if err != nil {
			return err
		}
		event, err = saved.CreatedEvent(uc.now())
		if err != nil {
			return err
		}
		audit := domain.BuildAudit(event, &ownerUserID)
		_, err = uc.audits.Save(ctx, &audit)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, event)
	return saved, nil
}

// Update changes name/description. Identical values are a no-op: nothing is
// audited and no event leaves the service.
func (uc *UseCase) Update(ctx context.Context, storeID, userID, name, description string) (*domain.Store, error) {
	store, err := uc.guard.CheckStoreAccess(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureUpdatable(); err != nil {
		return nil, err
	}

	next, event, err := store.UpdateInfo(name, description, uc.now())
	if err != nil {
		return nil, err
	}
	if event == nil {
		return store, nil
	}

	var saved *domain.Store
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		saved, err = uc.stores.Save(ctx, &next)
		if err != nil {
			return err
		}
		audit := domain.BuildAudit(event, &userID)
		_, err = uc.audits.Save(ctx, &audit)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, event)
	return saved, nil
}

// Suspend hides a store from the storefront. An empty actorUserID denotes a
// system-originated action; otherwise the caller must hold the ADMIN role.
// The audit actor stays null either way: suspension is a platform action.
func (uc *UseCase) Suspend(ctx context.Context, storeID, actorUserID string) (*domain.Store, error) {
	if actorUserID != "" {
		identity, err := uc.identities.Resolve(ctx, actorUserID)
		if err != nil {
			return nil, err
		}
		if !identity.CanModerateStores() {
			return nil, domain.ErrInsufficientPermission
		}
	}

	store, err := uc.guard.CheckStoreDeletable(ctx, storeID)
	if err != nil {
		return nil, err
	}

	next, event, err := store.Suspend(uc.now())
	if err != nil {
		return nil, err
	}

	var saved *domain.Store
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		saved, err = uc.stores.Save(ctx, &next)
		if err != nil {
			return err
		}
		audit := domain.BuildAudit(event, nil)
		_, err = uc.audits.Save(ctx, &audit)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, event)
	return saved, nil
}

// Delete soft-deletes the caller's store. Delete always produces an event;
// a second delete fails and records nothing.
func (uc *UseCase) Delete(ctx context.Context, storeID, userID string) (*domain.Store, error) {
	store, err := uc.guard.CheckStoreAccess(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}

	next, event, err := store.Delete(uc.now())
	if err != nil {
		return nil, err
	}

	var saved *domain.Store
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		saved, err = uc.stores.Save(ctx, &next)
		if err != nil {
			return err
		}
		audit := domain.BuildAudit(event, &userID)
		_, err = uc.audits.Save(ctx, &audit)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, event)
	return saved, nil
}

// Get is a pure read by store id.
func (uc *UseCase) Get(ctx context.Context, storeID string) (*domain.Store, error) {
	return uc.stores.GetByID(ctx, storeID)
}

// GetByOwner is a pure read of the owner's non-deleted store.
func (uc *UseCase) GetByOwner(ctx context.Context, ownerUserID string) (*domain.Store, error) {
	return uc.stores.GetByOwnerUserID(ctx, ownerUserID)
}

// List returns stores matching the filter (admin reads).
func (uc *UseCase) List(ctx context.Context, filter repository.StoreFilter) ([]domain.Store, error) {
	return uc.stores.List(ctx, filter)
}

// Audits returns the audit trail of the caller's store.
func (uc *UseCase) Audits(ctx context.Context, storeID, userID string, limit, offset int) ([]domain.StoreAudit, error) {
	if _, err := uc.guard.CheckStoreAccess(ctx, storeID, userID); err != nil {
		return nil, err
	}
	return uc.audits.ListByStoreID(ctx, storeID, limit, offset)
}

// publish hands the event to the outbound pipeline after the transaction has
// committed. Failures are logged and never surfaced: the state change is
// already durable and must not be rolled back over a broker problem.
func (uc *UseCase) publish(ctx context.Context, event domain.Event) {
	if uc.publisher == nil || event == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Error("event publication failed",
			zap.String("event_kind", string(event.Kind())),
			zap.String("store_id", event.PartitionKey()),
			zap.Error(err))
	}
}
