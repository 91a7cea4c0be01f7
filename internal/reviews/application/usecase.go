package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/reviews/domain"
	"storefront/internal/reviews/ports"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
)

// ReviewUseCase implements the product review operations
type ReviewUseCase struct {
	repo     ports.ReviewRepository
	products ports.ProductChecker
	ratings  ports.ProductRating
	log      *logger.Logger
}

// NewReviewUseCase creates a new review use case
func NewReviewUseCase(repo ports.ReviewRepository, products ports.ProductChecker, ratings ports.ProductRating, log *logger.Logger) *ReviewUseCase {
	return &ReviewUseCase{
		repo:     repo,
		products: products,
		ratings:  ratings,
		log:      log,
	}
}

// CreateReviewInput is the input for creating a review
type CreateReviewInput struct {
	UserID    string
	ProductID string
	Rating    int
	Comment   string
}

// CreateReviewOutput is the output of creating a review
type CreateReviewOutput struct {
	Review *domain.Review
}

// CreateReview validates, persists and folds the review into the product's
// denormalized rating
func (uc *ReviewUseCase) CreateReview(ctx context.Context, input CreateReviewInput) (*CreateReviewOutput, error) {
	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, errors.NewValidation("invalid user id", nil)
	}
	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		return nil, errors.NewValidation("invalid product id", nil)
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domain.NewInvalidRating()
	}

	if err := uc.products.Exists(ctx, productID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	if err := uc.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	uc.recalculate(ctx, productID)

	return &CreateReviewOutput{Review: review}, nil
}

// ListReviewsInput is the input for listing a product's reviews
type ListReviewsInput struct {
	ProductID string
}

// ListReviewsOutput is the output of listing a product's reviews
type ListReviewsOutput struct {
	Reviews []*domain.Review
}

// ListReviews returns a product's reviews, newest first
func (uc *ReviewUseCase) ListReviews(ctx context.Context, input ListReviewsInput) (*ListReviewsOutput, error) {
	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		return nil, errors.NewValidation("invalid product id", nil)
	}

	reviews, err := uc.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &ListReviewsOutput{Reviews: reviews}, nil
}

// DeleteReviewInput is the input for deleting a review
type DeleteReviewInput struct {
	ID     string
	UserID string
	Admin  bool
}

// DeleteReview removes a review. Non-admins may only delete their own.
func (uc *ReviewUseCase) DeleteReview(ctx context.Context, input DeleteReviewInput) error {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return errors.NewValidation("invalid review id", nil)
	}

	review, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !input.Admin && review.UserID.String() != input.UserID {
		return domain.NewNotReviewOwner()
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.recalculate(ctx, review.ProductID)

	return nil
}

// recalculate refreshes the product's denormalized aggregates. Failures are
// logged, not propagated: the review write already committed.
func (uc *ReviewUseCase) recalculate(ctx context.Context, productID uuid.UUID) {
	rating, count, err := uc.repo.Aggregate(ctx, productID)
	if err == nil {
		err = uc.ratings.SetRating(ctx, productID, rating, count)
	}
	if err != nil {
		uc.log.WithContext(ctx).Warn("failed to refresh product rating",
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
	}
}
