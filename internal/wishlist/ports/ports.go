package ports

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/wishlist/domain"
)

// WishlistRepository defines the persistence interface for wishlist entries
type WishlistRepository interface {
	// Add inserts the entry, returning the existing one unchanged when the
	// product is already listed.
	Add(ctx context.Context, userID, productID uuid.UUID) (*domain.Entry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Entry, error)
	Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

// ProductChecker verifies that a product exists before it is wished for
type ProductChecker interface {
	Exists(ctx context.Context, productID uuid.UUID) error
}
