package adapters

import (
	"context"

	"gorm.io/gorm"

	"storefront/internal/orders/ports"
)

// GormTransactionManager implements TransactionManager on a GORM connection.
// gorm's Transaction commits when fn returns nil and rolls back on error or
// panic.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a new transaction manager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// WithinTransaction runs fn with transaction-scoped repository and ledger handles
func (m *GormTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, orders ports.OrderRepository, ledger ports.ProductLedger) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewPostgresOrderRepository(tx), NewGormProductLedger(tx))
	})
}
