package repository

import "context"

// TxRunner executes a function inside one database transaction. Repositories
// called with the derived context participate in that transaction, so a store
// save and its audit record commit or roll back together.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
