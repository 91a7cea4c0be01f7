package ports

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/cart/domain"
)

// CartRepository defines the persistence interface for cart items
type CartRepository interface {
	// Upsert inserts the item or, when the user already carries the product,
	// adds the quantity to the existing row. Returns the resulting item.
	Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.Item, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Item, error)
	GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*domain.Item, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.Item, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ProductChecker verifies that a product exists before it enters a cart
type ProductChecker interface {
	Exists(ctx context.Context, productID uuid.UUID) error
}
