package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/pkg/errors"
)

// EntryProduct is the catalog data resolved onto a wishlist entry
type EntryProduct struct {
	ID     uuid.UUID
	Name   string
	Price  decimal.Decimal
	Stock  int
	Images []string
}

// Entry is one product on a user's wishlist. Adding an already listed
// product is a no-op.
type Entry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Product   *EntryProduct
	CreatedAt time.Time
}

// NewEntryNotFound creates a not found error with the product ID
func NewEntryNotFound(id interface{}) error {
	return errors.NewNotFound("wishlist entry", id)
}
