package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelane/store-service/domain"
	"github.com/storelane/store-service/repository"
)

type identityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityResolver reads the platform identity projection replicated into
// the service database. Only id, name and role are consumed here.
func NewIdentityResolver(pool *pgxpool.Pool) repository.IdentityResolver {
	return &identityRepository{pool: pool}
}

func (r *identityRepository) Resolve(ctx context.Context, userID string) (*domain.Identity, error) {
	const query = `SELECT id, name, role FROM users WHERE id = $1`

	var identity domain.Identity
	var role string
	if err := querier(ctx, r.pool).QueryRow(ctx, query, userID).Scan(&identity.ID, &identity.Name, &role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}
	identity.Role = domain.Role(role)
	return &identity, nil
}
