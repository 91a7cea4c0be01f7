package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/pkg/errors"
)

// ItemProduct is the catalog data resolved onto a cart item for display
type ItemProduct struct {
	ID     uuid.UUID
	Name   string
	Price  decimal.Decimal
	Stock  int
	Images []string
}

// Item is one product in a user's cart. A user holds at most one item per
// product; adding the same product again merges quantities.
type Item struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	Product   *ItemProduct
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtotal is the resolved price times quantity, zero when the product is gone
func (i *Item) Subtotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewItemNotFound creates a not found error with the cart item ID
func NewItemNotFound(id interface{}) error {
	return errors.NewNotFound("cart item", id)
}

// NewInvalidQuantity creates a validation error for a non-positive quantity
func NewInvalidQuantity() error {
	return errors.NewValidation("quantity must be a positive integer", nil)
}
