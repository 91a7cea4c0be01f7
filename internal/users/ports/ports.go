package ports

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/users/domain"
)

// UserRepository defines the persistence interface for users
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, update domain.UserUpdate) (*domain.User, error)
}

// EventPublisher publishes user lifecycle events
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, user *domain.User) error
}
