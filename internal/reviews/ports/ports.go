package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/reviews/domain"
)

// ReviewRepository defines the persistence interface for reviews
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Aggregate returns the average rating and review count for a product.
	// A product with no reviews aggregates to (0, 0).
	Aggregate(ctx context.Context, productID uuid.UUID) (decimal.Decimal, int, error)
}

// ProductRating pushes recalculated aggregates back to the catalog
type ProductRating interface {
	SetRating(ctx context.Context, productID uuid.UUID, rating decimal.Decimal, reviewCount int) error
}

// ProductChecker verifies that a product exists before it is reviewed
type ProductChecker interface {
	Exists(ctx context.Context, productID uuid.UUID) error
}
