package ports

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/orders/domain"
)

// ProductLedger is the authoritative store of product price and stock,
// consumed by the order workflow. Inside a transaction both methods must
// observe the effects of earlier calls made through the same handle.
type ProductLedger interface {
	// Lookup returns the product's current name, price and stock.
	// Returns a not-found error when the product does not exist.
	Lookup(ctx context.Context, productID uuid.UUID) (*domain.ProductSummary, error)

	// DecrementStock reduces stock by quantity only if current stock is
	// sufficient. Returns domain.ErrStockExhausted when it is not; it never
	// clamps. Must execute within the caller's transaction scope.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create persists an order together with all of its lines
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with lines and product references resolved
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// ListByUser retrieves a user's orders, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)

	// ListAll retrieves every order, newest first
	ListAll(ctx context.Context) ([]*domain.Order, error)

	// Update applies an administrative update and returns the result
	Update(ctx context.Context, id uuid.UUID, update domain.OrderUpdate) (*domain.Order, error)

	// Delete deletes an order and its lines
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionManager provides the atomic envelope around order placement.
// fn receives transaction-scoped handles; a nil return commits, any error
// rolls back everything, and the underlying transaction is always released.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, orders OrderRepository, ledger ProductLedger) error) error
}

// EventPublisher defines the interface for publishing order events
type EventPublisher interface {
	// PublishOrderPlaced publishes an event for a committed order
	PublishOrderPlaced(ctx context.Context, order *domain.Order) error
}
