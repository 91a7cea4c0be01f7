package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/cart/domain"
	"storefront/internal/cart/ports"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
)

// CartUseCase implements the shopping cart operations
type CartUseCase struct {
	repo     ports.CartRepository
	products ports.ProductChecker
	log      *logger.Logger
}

// NewCartUseCase creates a new cart use case
func NewCartUseCase(repo ports.CartRepository, products ports.ProductChecker, log *logger.Logger) *CartUseCase {
	return &CartUseCase{repo: repo, products: products, log: log}
}

// AddItemInput is the input for adding a product to the cart
type AddItemInput struct {
	UserID    string
	ProductID string
	Quantity  int
}

// AddItemOutput is the output of adding a product to the cart
type AddItemOutput struct {
	Item *domain.Item
}

// AddItem puts a product in the cart, merging quantities when it is
// already there
func (uc *CartUseCase) AddItem(ctx context.Context, input AddItemInput) (*AddItemOutput, error) {
	userID, productID, err := parseIDs(input.UserID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if input.Quantity <= 0 {
		return nil, domain.NewInvalidQuantity()
	}

	if err := uc.products.Exists(ctx, productID); err != nil {
		return nil, err
	}

	item, err := uc.repo.Upsert(ctx, userID, productID, input.Quantity)
	if err != nil {
		return nil, err
	}

	return &AddItemOutput{Item: item}, nil
}

// GetCartInput is the input for retrieving a cart
type GetCartInput struct {
	UserID string
}

// GetCartOutput is a cart with its computed total
type GetCartOutput struct {
	Items []*domain.Item
	Total decimal.Decimal
}

// GetCart returns the user's cart items with resolved products and the
// running total at current catalog prices
func (uc *CartUseCase) GetCart(ctx context.Context, input GetCartInput) (*GetCartOutput, error) {
	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, errors.NewValidation("invalid user id", nil)
	}

	items, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}

	return &GetCartOutput{Items: items, Total: total}, nil
}

// UpdateItemInput is the input for changing an item's quantity
type UpdateItemInput struct {
	UserID    string
	ProductID string
	Quantity  int
}

// UpdateItemOutput is the output of changing an item's quantity. Item is
// nil when the update removed the item.
type UpdateItemOutput struct {
	Item *domain.Item
}

// UpdateItem sets an item's quantity. A quantity of zero or less removes
// the item from the cart.
func (uc *CartUseCase) UpdateItem(ctx context.Context, input UpdateItemInput) (*UpdateItemOutput, error) {
	userID, productID, err := parseIDs(input.UserID, input.ProductID)
	if err != nil {
		return nil, err
	}

	if input.Quantity <= 0 {
		if err := uc.repo.Remove(ctx, userID, productID); err != nil {
			return nil, err
		}
		return &UpdateItemOutput{}, nil
	}

	item, err := uc.repo.SetQuantity(ctx, userID, productID, input.Quantity)
	if err != nil {
		return nil, err
	}

	return &UpdateItemOutput{Item: item}, nil
}

// RemoveItemInput is the input for removing a product from the cart
type RemoveItemInput struct {
	UserID    string
	ProductID string
}

// RemoveItem removes a product from the cart
func (uc *CartUseCase) RemoveItem(ctx context.Context, input RemoveItemInput) error {
	userID, productID, err := parseIDs(input.UserID, input.ProductID)
	if err != nil {
		return err
	}
	return uc.repo.Remove(ctx, userID, productID)
}

// ClearCartInput is the input for emptying a cart
type ClearCartInput struct {
	UserID string
}

// ClearCart removes every item from the user's cart
func (uc *CartUseCase) ClearCart(ctx context.Context, input ClearCartInput) error {
	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return errors.NewValidation("invalid user id", nil)
	}
	return uc.repo.Clear(ctx, userID)
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
