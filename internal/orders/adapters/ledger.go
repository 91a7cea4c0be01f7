package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/orders/domain"
	apperrors "storefront/pkg/errors"
)

// LedgerProductModel is a read/decrement view over the catalog's products
// table. The catalog context owns the table and its migration.
type LedgerProductModel struct {
	ID    uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name  string          `gorm:"size:255;not null"`
	Price decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (LedgerProductModel) TableName() string {
	return "products"
}

// GormProductLedger implements ProductLedger against the products table.
// Constructed from a transaction handle, its reads and writes share that
// transaction's scope.
type GormProductLedger struct {
	db *gorm.DB
}

// NewGormProductLedger creates a product ledger bound to the given handle
func NewGormProductLedger(db *gorm.DB) *GormProductLedger {
	return &GormProductLedger{db: db}
}

// Lookup returns the product's current name, price and stock
func (l *GormProductLedger) Lookup(ctx context.Context, productID uuid.UUID) (*domain.ProductSummary, error) {
	var model LedgerProductModel

	result := l.db.WithContext(ctx).First(&model, "id = ?", productID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewProductNotFound(productID)
		}
		return nil, apperrors.NewInternal("failed to look up product", result.Error)
	}

	return &domain.ProductSummary{
		ID:    model.ID,
		Name:  model.Name,
		Price: model.Price,
		Stock: model.Stock,
	}, nil
}

// DecrementStock reduces stock by quantity with a single conditional update.
// The WHERE guard is the stock invariant: it fails instead of clamping, and
// together with transaction isolation it keeps stock non-negative under
// concurrent orders without any application-level locking.
func (l *GormProductLedger) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	result := l.db.WithContext(ctx).
		Model(&LedgerProductModel{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return apperrors.NewInternal("failed to decrement stock", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrStockExhausted
	}
	return nil
}
