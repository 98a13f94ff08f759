package repository

import (
	"context"

	"github.com/storelane/store-service/domain"
)

// IdentityResolver looks up the platform role for a user id. The identity
// service itself lives outside this repository; only this projection is consumed.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID string) (*domain.Identity, error)
}
