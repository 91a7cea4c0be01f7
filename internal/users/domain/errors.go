package domain

import (
	"fmt"

	"storefront/pkg/errors"
)

// NewUserNotFound creates a not found error with the user ID
func NewUserNotFound(id interface{}) error {
	return errors.NewNotFound("user", id)
}

// NewDuplicateEmail creates a conflict error for an already registered email
func NewDuplicateEmail(email string) error {
	return errors.NewConflict(fmt.Sprintf("user with email '%s' already exists", email))
}

// NewInvalidCredentials creates an unauthorized error for a failed login
func NewInvalidCredentials() error {
	return errors.NewUnauthorized("invalid email or password")
}
