package application

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/wishlist/domain"
	"storefront/internal/wishlist/ports"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
)

// WishlistUseCase implements the wishlist operations
type WishlistUseCase struct {
	repo     ports.WishlistRepository
	products ports.ProductChecker
	log      *logger.Logger
}

// NewWishlistUseCase creates a new wishlist use case
func NewWishlistUseCase(repo ports.WishlistRepository, products ports.ProductChecker, log *logger.Logger) *WishlistUseCase {
	return &WishlistUseCase{repo: repo, products: products, log: log}
}

// AddInput is the input for adding a product to the wishlist
type AddInput struct {
	UserID    string
	ProductID string
}

// AddOutput is the output of adding a product to the wishlist
type AddOutput struct {
	Entry *domain.Entry
}

// Add puts a product on the wishlist. Adding it twice is a no-op returning
// the existing entry.
func (uc *WishlistUseCase) Add(ctx context.Context, input AddInput) (*AddOutput, error) {
	userID, productID, err := parseIDs(input.UserID, input.ProductID)
	if err != nil {
		return nil, err
	}

	if err := uc.products.Exists(ctx, productID); err != nil {
		return nil, err
	}

	entry, err := uc.repo.Add(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	return &AddOutput{Entry: entry}, nil
}

// ListInput is the input for listing a wishlist
type ListInput struct {
	UserID string
}

// ListOutput is the output of listing a wishlist
type ListOutput struct {
	Entries []*domain.Entry
}

// List returns the user's wishlist entries with resolved products
func (uc *WishlistUseCase) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, errors.NewValidation("invalid user id", nil)
	}

	entries, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Entries: entries}, nil
}

// ContainsInput is the input for checking wishlist membership
type ContainsInput struct {
	UserID    string
	ProductID string
}

// ContainsOutput is the output of checking wishlist membership
type ContainsOutput struct {
	Contains bool
}

// Contains reports whether the product is on the user's wishlist
func (uc *WishlistUseCase) Contains(ctx context.Context, input ContainsInput) (*ContainsOutput, error) {
	userID, productID, err := parseIDs(input.UserID, input.ProductID)
	if err != nil {
		return nil, err
	}

	contains, err := uc.repo.Contains(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	return &ContainsOutput{Contains: contains}, nil
}

// RemoveInput is the input for removing a product from the wishlist
type RemoveInput struct {
	UserID    string
	ProductID string
}

// Remove takes a product off the wishlist
func (uc *WishlistUseCase) Remove(ctx context.Context, input RemoveInput) error {
	userID, productID, err := parseIDs(input.UserID, input.ProductID)
	if err != nil {
		return err
	}
	return uc.repo.Remove(ctx, userID, productID)
}

func parseIDs(rawUserID, rawProductID string) (uuid.UUID, uuid.UUID, error) {
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.NewValidation("invalid user id", nil)
	}
	productID, err := uuid.Parse(rawProductID)
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.NewValidation("invalid product id", nil)
	}
	return userID, productID, nil
}
