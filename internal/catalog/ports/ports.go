package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/catalog/domain"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter domain.ListFilter) (*domain.ProductPage, error)
	Update(ctx context.Context, id uuid.UUID, update domain.ProductUpdate) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetRating(ctx context.Context, id uuid.UUID, rating decimal.Decimal, reviewCount int) error
}

// CategoryRepository defines the persistence interface for categories
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductCache caches product detail reads. Misses return (nil, nil).
type ProductCache interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Set(ctx context.Context, product *domain.Product, ttl time.Duration) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}
