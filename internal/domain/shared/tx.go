package shared

import "context"

// TxManager runs a function inside a single database transaction.
// Repository calls made with the context passed to fn share that
// transaction, so compound financial updates (invoice payment plus account
// balance adjustment plus ledger row) either all commit or all roll back.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
