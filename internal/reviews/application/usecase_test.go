package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/reviews/domain"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/logger"
)

type reviewKey struct {
	userID    uuid.UUID
	productID uuid.UUID
}

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*domain.Review
	byPair  map[reviewKey]uuid.UUID
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews: make(map[uuid.UUID]*domain.Review),
		byPair:  make(map[reviewKey]uuid.UUID),
	}
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	key := reviewKey{review.UserID, review.ProductID}
	if _, ok := r.byPair[key]; ok {
		return domain.NewDuplicateReview()
	}
	stored := *review
	r.reviews[review.ID] = &stored
	r.byPair[key] = review.ID
	return nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, domain.NewReviewNotFound(id)
	}
	return review, nil
}

func (r *fakeReviewRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, review := range r.reviews {
		if review.ProductID == productID {
			out = append(out, review)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	review, ok := r.reviews[id]
	if !ok {
		return domain.NewReviewNotFound(id)
	}
	delete(r.byPair, reviewKey{review.UserID, review.ProductID})
	delete(r.reviews, id)
	return nil
}

func (r *fakeReviewRepo) Aggregate(ctx context.Context, productID uuid.UUID) (decimal.Decimal, int, error) {
	sum, count := 0, 0
	for _, review := range r.reviews {
		if review.ProductID == productID {
			sum += review.Rating
			count++
		}
	}
	if count == 0 {
		return decimal.Zero, 0, nil
	}
	avg := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(count))).Round(2)
	return avg, count, nil
}

type fakeProductChecker struct {
	known map[uuid.UUID]bool
}

func (c *fakeProductChecker) Exists(ctx context.Context, productID uuid.UUID) error {
	if !c.known[productID] {
		return apperrors.NewNotFound("product", productID)
	}
	return nil
}

type fakeRating struct {
	rating map[uuid.UUID]decimal.Decimal
	count  map[uuid.UUID]int
}

func newFakeRating() *fakeRating {
	return &fakeRating{
		rating: make(map[uuid.UUID]decimal.Decimal),
		count:  make(map[uuid.UUID]int),
	}
}

func (f *fakeRating) SetRating(ctx context.Context, productID uuid.UUID, rating decimal.Decimal, reviewCount int) error {
	f.rating[productID] = rating
	f.count[productID] = reviewCount
	return nil
}

func newReviewFixture(productIDs ...uuid.UUID) (*ReviewUseCase, *fakeReviewRepo, *fakeRating) {
	repo := newFakeReviewRepo()
	checker := &fakeProductChecker{known: make(map[uuid.UUID]bool)}
	for _, id := range productIDs {
		checker.known[id] = true
	}
	ratings := newFakeRating()
	uc := NewReviewUseCase(repo, checker, ratings, logger.New("test", "error", "json"))
	return uc, repo, ratings
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateReviewRecalculatesRating(t *testing.T) {
	product := uuid.New()
	uc, _, ratings := newReviewFixture(product)

	_, err := uc.CreateReview(context.Background(), CreateReviewInput{
		UserID:    uuid.New().String(),
		ProductID: product.String(),
		Rating:    5,
		Comment:   "great",
	})
	require.NoError(t, err)

	_, err = uc.CreateReview(context.Background(), CreateReviewInput{
		UserID:    uuid.New().String(),
		ProductID: product.String(),
		Rating:    2,
	})
	require.NoError(t, err)

	assert.Equal(t, "3.50", ratings.rating[product].StringFixed(2))
	assert.Equal(t, 2, ratings.count[product])
}

func TestCreateReviewRejectsDuplicate(t *testing.T) {
	product := uuid.New()
	uc, _, _ := newReviewFixture(product)
	userID := uuid.New().String()

	_, err := uc.CreateReview(context.Background(), CreateReviewInput{
		UserID:    userID,
		ProductID: product.String(),
		Rating:    4,
	})
	require.NoError(t, err)

	_, err = uc.CreateReview(context.Background(), CreateReviewInput{
		UserID:    userID,
		ProductID: product.String(),
		Rating:    1,
	})
	assertCode(t, err, apperrors.CodeConflict)
}

func TestCreateReviewValidation(t *testing.T) {
	product := uuid.New()
	uc, _, _ := newReviewFixture(product)

	for _, rating := range []int{0, -1, 6} {
		_, err := uc.CreateReview(context.Background(), CreateReviewInput{
			UserID:    uuid.New().String(),
			ProductID: product.String(),
			Rating:    rating,
		})
		assertCode(t, err, apperrors.CodeValidation)
	}

	_, err := uc.CreateReview(context.Background(), CreateReviewInput{
		UserID:    uuid.New().String(),
		ProductID: uuid.New().String(),
		Rating:    3,
	})
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestDeleteReviewOwnership(t *testing.T) {
	product := uuid.New()
	uc, _, ratings := newReviewFixture(product)
	owner := uuid.New().String()

	created, err := uc.CreateReview(context.Background(), CreateReviewInput{
		UserID:    owner,
		ProductID: product.String(),
		Rating:    4,
	})
	require.NoError(t, err)
	id := created.Review.ID.String()

	err = uc.DeleteReview(context.Background(), DeleteReviewInput{
		ID:     id,
		UserID: uuid.New().String(),
	})
	assertCode(t, err, apperrors.CodeForbidden)

	// Admins may delete anyone's review; the aggregate resets
	err = uc.DeleteReview(context.Background(), DeleteReviewInput{
		ID:     id,
		UserID: uuid.New().String(),
		Admin:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, "0.00", ratings.rating[product].StringFixed(2))
	assert.Equal(t, 0, ratings.count[product])
}

func TestListReviews(t *testing.T) {
	product := uuid.New()
	uc, _, _ := newReviewFixture(product)

	for i := 0; i < 3; i++ {
		_, err := uc.CreateReview(context.Background(), CreateReviewInput{
			UserID:    uuid.New().String(),
			ProductID: product.String(),
			Rating:    5,
		})
		require.NoError(t, err)
	}

	output, err := uc.ListReviews(context.Background(), ListReviewsInput{ProductID: product.String()})
	require.NoError(t, err)
	assert.Len(t, output.Reviews, 3)
}
