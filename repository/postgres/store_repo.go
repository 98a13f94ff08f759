package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelane/store-service/domain"
	"github.com/storelane/store-service/repository"
)

const storeColumns = `
	s.id, s.owner_user_id, s.name, s.description, s.status, s.hidden_at, s.deleted_at,
	s.created_at, s.updated_at,
	r.average_rating, r.review_count, r.launched_at`

type storeRepository struct {
	pool *pgxpool.Pool
}

// NewStoreRepository returns a Postgres-backed implementation of StoreRepository.
func NewStoreRepository(pool *pgxpool.Pool) repository.StoreRepository {
	return &storeRepository{pool: pool}
}

func (r *storeRepository) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	query := `
	SELECT ` + storeColumns + `
	FROM stores s
	JOIN store_ratings r ON r.store_id = s.id
	WHERE s.id = $1
	`
	row := querier(ctx, r.pool).QueryRow(ctx, query, id)
	return scanStore(row)
}

func (r *storeRepository) GetByOwnerUserID(ctx context.Context, ownerUserID string) (*domain.Store, error) {
	query := `
	SELECT ` + storeColumns + `
	FROM stores s
	JOIN store_ratings r ON r.store_id = s.id
	WHERE s.owner_user_id = $1 AND s.status <> 'DELETED'
	`
	row := querier(ctx, r.pool).QueryRow(ctx, query, ownerUserID)
	return scanStore(row)
}

func (r *storeRepository) ExistsByOwnerUserID(ctx context.Context, ownerUserID string) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1 FROM stores WHERE owner_user_id = $1 AND status <> 'DELETED'
	)
	`
	var exists bool
	if err := querier(ctx, r.pool).QueryRow(ctx, query, ownerUserID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *storeRepository) List(ctx context.Context, filter repository.StoreFilter) ([]domain.Store, error) {
	query := `
	SELECT ` + storeColumns + `
	FROM stores s
	JOIN store_ratings r ON r.store_id = s.id
	WHERE ($1 = '' OR s.status = $1)
	  AND ($2 = '' OR s.name ILIKE '%' || $2 || '%')
	ORDER BY s.created_at DESC
	LIMIT $3 OFFSET $4
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query,
		string(filter.Status), filter.Name, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStores(rows)
}

func (r *storeRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Store, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
	SELECT ` + storeColumns + `
	FROM stores s
	JOIN store_ratings r ON r.store_id = s.id
	WHERE s.id = ANY($1)
	ORDER BY s.created_at DESC
	`
	rows, err := querier(ctx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStores(rows)
}

func (r *storeRepository) Save(ctx context.Context, store *domain.Store) (*domain.Store, error) {
	if store == nil || store.ID == "" {
		return nil, domain.ErrInvalidPayload
	}

	const upsertStore = `
	INSERT INTO stores (id, owner_user_id, name, description, status, hidden_at, deleted_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		status = EXCLUDED.status,
		hidden_at = EXCLUDED.hidden_at,
		deleted_at = EXCLUDED.deleted_at,
		updated_at = NOW()
	RETURNING created_at, updated_at
	`

	q := querier(ctx, r.pool)
	saved := *store
	if err := q.QueryRow(ctx, upsertStore,
		store.ID,
		store.OwnerUserID,
		store.Name,
		store.Description,
		string(store.Status),
		store.HiddenAt,
		store.DeletedAt,
	).Scan(&saved.CreatedAt, &saved.UpdatedAt); err != nil {
		// 23505: the partial unique index on owner_user_id
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateStore
		}
		return nil, err
	}

	const upsertRating = `
	INSERT INTO store_ratings (store_id, average_rating, review_count, launched_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (store_id) DO UPDATE SET
		average_rating = EXCLUDED.average_rating,
		review_count = EXCLUDED.review_count
	`
	if _, err := q.Exec(ctx, upsertRating,
		store.ID,
		store.Rating.AverageRating,
		store.Rating.ReviewCount,
		store.Rating.LaunchedAt,
	); err != nil {
		return nil, err
	}

	return &saved, nil
}

func scanStore(row pgx.Row) (*domain.Store, error) {
	var store domain.Store
	var status string

	if err := row.Scan(
		&store.ID,
		&store.OwnerUserID,
		&store.Name,
		&store.Description,
		&status,
		&store.HiddenAt,
		&store.DeletedAt,
		&store.CreatedAt,
		&store.UpdatedAt,
		&store.Rating.AverageRating,
		&store.Rating.ReviewCount,
		&store.Rating.LaunchedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, err
	}

	store.Status = domain.StoreStatus(status)
	return &store, nil
}

func collectStores(rows pgx.Rows) ([]domain.Store, error) {
	var stores []domain.Store
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		stores = append(stores, *store)
	}
	return stores, rows.Err()
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
