package persistence

import (
	"context"

	"github.com/finvoice/backend/internal/domain/shared"
	"gorm.io/gorm"
)

type txContextKey struct{}

// GormTxManager implements shared.TxManager by embedding the transaction
// handle in the context. Repositories resolve their handle through
// dbFromContext, so calls made inside WithinTransaction share one
// transaction and compound financial updates commit or roll back together.
type GormTxManager struct {
	db *gorm.DB
}

// NewGormTxManager creates a transaction manager over the base connection
func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

// WithinTransaction runs fn inside a single database transaction
func (m *GormTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls join the surrounding transaction
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// dbFromContext returns the transaction handle when inside
// WithinTransaction, the base handle otherwise.
func dbFromContext(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return base.WithContext(ctx)
}

// Ensure GormTxManager implements TxManager
var _ shared.TxManager = (*GormTxManager)(nil)
