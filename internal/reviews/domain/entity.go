package domain

import (
	"time"

	"github.com/google/uuid"

	"storefront/pkg/errors"
)

// Review is one user's rating of a product. A user reviews a product at
// most once.
type Review struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReviewNotFound creates a not found error with the review ID
func NewReviewNotFound(id interface{}) error {
	return errors.NewNotFound("review", id)
}

// NewDuplicateReview creates a conflict error for a repeated review
func NewDuplicateReview() error {
	return errors.NewConflict("product already reviewed by this user")
}

// NewInvalidRating creates a validation error for a rating outside 1..5
func NewInvalidRating() error {
	return errors.NewValidation("rating must be an integer between 1 and 5", nil)
}

// NewNotReviewOwner creates a forbidden error for deleting someone else's review
func NewNotReviewOwner() error {
	return errors.NewForbidden("review belongs to another user")
}
