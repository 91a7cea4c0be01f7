package domain

import (
	"fmt"

	"storefront/pkg/errors"
)

// NewProductNotFound creates a not found error with the product ID
func NewProductNotFound(id interface{}) error {
	return errors.NewNotFound("product", id)
}

// NewCategoryNotFound creates a not found error with the category ID
func NewCategoryNotFound(id interface{}) error {
	return errors.NewNotFound("category", id)
}

// NewDuplicateSKU creates a conflict error for an already registered SKU
func NewDuplicateSKU(sku string) error {
	return errors.NewConflict(fmt.Sprintf("product with sku '%s' already exists", sku))
}

// NewDuplicateSlug creates a conflict error for an already registered slug
func NewDuplicateSlug(slug string) error {
	return errors.NewConflict(fmt.Sprintf("category with slug '%s' already exists", slug))
}

// NewInvalidPrice creates a validation error for a non-positive or malformed price
func NewInvalidPrice() error {
	return errors.NewValidation("price must be a positive amount with at most two decimal places", nil)
}

// NewInvalidStock creates a validation error for a negative stock value
func NewInvalidStock() error {
	return errors.NewValidation("stock must be zero or greater", nil)
}

// NewInvalidRating creates a validation error for a rating outside 1..5
func NewInvalidRating() error {
	return errors.NewValidation("rating must be between 1 and 5", nil)
}
