package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/reviews/domain"
	apperrors "storefront/pkg/errors"
)

// ReviewModel is the GORM model for reviews. The unique index over user
// and product enforces one review per user per product.
type ReviewModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_product;index"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// BeforeCreate assigns an id when none was supplied
func (m *ReviewModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// PostgresReviewRepository implements ReviewRepository using PostgreSQL
type PostgresReviewRepository struct {
	db *gorm.DB
}

// NewPostgresReviewRepository creates a new PostgreSQL review repository
func NewPostgresReviewRepository(db *gorm.DB) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db}
}

// Migrate runs auto-migration for the review model
func (r *PostgresReviewRepository) Migrate() error {
	return r.db.AutoMigrate(&ReviewModel{})
}

// Create persists a new review
func (r *PostgresReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	model := toModel(review)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return domain.NewDuplicateReview()
		}
		return apperrors.NewInternal("failed to create review", result.Error)
	}

	review.ID = model.ID
	review.CreatedAt = model.CreatedAt
	review.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID retrieves a review by id
func (r *PostgresReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	var model ReviewModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewReviewNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get review", result.Error)
	}

	return toDomain(&model), nil
}

// ListByProduct retrieves a product's reviews, newest first
func (r *PostgresReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	var models []ReviewModel

	result := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list reviews", result.Error)
	}

	reviews := make([]*domain.Review, len(models))
	for i := range models {
		reviews[i] = toDomain(&models[i])
	}
	return reviews, nil
}

// Delete removes a review
func (r *PostgresReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ReviewModel{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewInternal("failed to delete review", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewReviewNotFound(id)
	}
	return nil
}

// Aggregate computes the average rating and review count for a product
func (r *PostgresReviewRepository) Aggregate(ctx context.Context, productID uuid.UUID) (decimal.Decimal, int, error) {
	var row struct {
		Avg   *float64
		Count int64
	}

	result := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row)
	if result.Error != nil {
		return decimal.Zero, 0, apperrors.NewInternal("failed to aggregate reviews", result.Error)
	}

	if row.Avg == nil {
		return decimal.Zero, 0, nil
	}
	return decimal.NewFromFloat(*row.Avg).Round(2), int(row.Count), nil
}

// isDuplicateKey reports whether err is a unique constraint violation
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}

// toModel converts a domain entity to a GORM model
func toModel(review *domain.Review) *ReviewModel {
	return &ReviewModel{
		ID:        review.ID,
		UserID:    review.UserID,
		ProductID: review.ProductID,
		Rating:    review.Rating,
		Comment:   review.Comment,
	}
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *ReviewModel) *domain.Review {
	return &domain.Review{
		ID:        model.ID,
		UserID:    model.UserID,
		ProductID: model.ProductID,
		Rating:    model.Rating,
		Comment:   model.Comment,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// GormProductChecker implements ProductChecker against the products table
type GormProductChecker struct {
	db *gorm.DB
}

// NewGormProductChecker creates a new product checker
func NewGormProductChecker(db *gorm.DB) *GormProductChecker {
	return &GormProductChecker{db: db}
}

// Exists returns a not found error when the product does not exist
func (c *GormProductChecker) Exists(ctx context.Context, productID uuid.UUID) error {
	var count int64
	result := c.db.WithContext(ctx).Table("products").Where("id = ?", productID).Count(&count)
	if result.Error != nil {
		return apperrors.NewInternal("failed to check product", result.Error)
	}
	if count == 0 {
		return apperrors.NewNotFound("product", productID)
	}
	return nil
}
