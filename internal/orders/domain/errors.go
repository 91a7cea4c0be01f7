package domain

import (
	stderrors "errors"
	"fmt"

	"storefront/pkg/errors"
)

// Domain-specific errors
var (
	ErrShippingAddressRequired    = errors.NewValidation("shippingAddress is required", nil)
	ErrShippingCityRequired       = errors.NewValidation("shippingCity is required", nil)
	ErrShippingPostalCodeRequired = errors.NewValidation("shippingPostalCode is required", nil)
	ErrEmptyOrder                 = errors.NewValidation("order must contain at least one item", nil)
	ErrOrderNotFound              = errors.NewNotFound("order", "unknown")

	// ErrStockExhausted is the sentinel the ledger returns when a conditional
	// decrement finds less stock than requested.
	ErrStockExhausted = stderrors.New("stock exhausted")
)

// NewOrderNotFound creates a not found error with the order ID
func NewOrderNotFound(id interface{}) error {
	return errors.NewNotFound("order", id)
}

// NewProductNotFound creates a not found error carrying the offending product id
func NewProductNotFound(id interface{}) error {
	return errors.NewNotFound("product", id)
}

// NewInsufficientStock creates a client error naming the product that ran short
func NewInsufficientStock(id interface{}, name string) error {
	return errors.NewValidation(
		fmt.Sprintf("insufficient stock for product %s", name),
		map[string]interface{}{"product_id": fmt.Sprintf("%v", id)},
	)
}

// NewInvalidQuantity creates a validation error for a malformed quantity
func NewInvalidQuantity(raw string) error {
	return errors.NewValidation("quantity must be a positive integer", map[string]interface{}{
		"quantity": raw,
	})
}

// NewInvalidPrice creates a validation error for a malformed unit price
func NewInvalidPrice(raw string) error {
	return errors.NewValidation("price must be a non-negative amount with at most two decimal places", map[string]interface{}{
		"price": raw,
	})
}

// NewInvalidStatus creates a validation error for an unknown order status
func NewInvalidStatus(raw string) error {
	return errors.NewValidation("invalid order status", map[string]interface{}{
		"status": raw,
	})
}

// NewTransactionFailure wraps an infrastructure-level transaction error
func NewTransactionFailure(err error) error {
	return errors.NewInternal("order transaction failed", err)
}
