package database

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// WithTx returns a context carrying the transaction handle. Repositories
// constructed with FromContext will route their queries through it.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// FromContext returns the transaction carried by the context, or the
// fallback handle when the context has none.
func FromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}

// TxManager runs a function inside a single database transaction. Every
// repository call made with the callback's context joins that transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager backed by GORM transactions
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

// Do executes fn inside a transaction, committing on nil and rolling back
// on error or panic.
func (m *gormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}
