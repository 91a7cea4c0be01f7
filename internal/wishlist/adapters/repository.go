package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/wishlist/domain"
	apperrors "storefront/pkg/errors"
)

// WishlistProductModel is a read-only view over the catalog's products table
type WishlistProductModel struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name   string          `gorm:"size:255"`
	Price  decimal.Decimal `gorm:"type:decimal(10,2)"`
	Stock  int
	Images []string `gorm:"serializer:json;type:jsonb"`
}

// TableName returns the table name for GORM
func (WishlistProductModel) TableName() string {
	return "products"
}

// WishlistEntryModel is the GORM model for wishlist entries. The unique
// index over user and product makes adds idempotent.
type WishlistEntryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_product"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Product *WishlistProductModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (WishlistEntryModel) TableName() string {
	return "wishlist_entries"
}

// BeforeCreate assigns an id when none was supplied
func (m *WishlistEntryModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// PostgresWishlistRepository implements WishlistRepository using PostgreSQL
type PostgresWishlistRepository struct {
	db *gorm.DB
}

// NewPostgresWishlistRepository creates a new PostgreSQL wishlist repository
func NewPostgresWishlistRepository(db *gorm.DB) *PostgresWishlistRepository {
	return &PostgresWishlistRepository{db: db}
}

// Migrate runs auto-migration for the wishlist model
func (r *PostgresWishlistRepository) Migrate() error {
	return r.db.AutoMigrate(&WishlistEntryModel{})
}

// Add inserts the entry, tolerating a concurrent or earlier duplicate
func (r *PostgresWishlistRepository) Add(ctx context.Context, userID, productID uuid.UUID) (*domain.Entry, error) {
	model := &WishlistEntryModel{
		UserID:    userID,
		ProductID: productID,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil && !isDuplicateKey(err) {
		return nil, apperrors.NewInternal("failed to add wishlist entry", err)
	}

	return r.getByUserAndProduct(ctx, userID, productID)
}

func (r *PostgresWishlistRepository) getByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*domain.Entry, error) {
	var model WishlistEntryModel

	result := r.db.WithContext(ctx).
		Preload("Product").
		First(&model, "user_id = ? AND product_id = ?", userID, productID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewEntryNotFound(productID)
		}
		return nil, apperrors.NewInternal("failed to get wishlist entry", result.Error)
	}

	return toDomain(&model), nil
}

// ListByUser retrieves a user's wishlist, newest first
func (r *PostgresWishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Entry, error) {
	var models []WishlistEntryModel

	result := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list wishlist", result.Error)
	}

	entries := make([]*domain.Entry, len(models))
	for i := range models {
		entries[i] = toDomain(&models[i])
	}
	return entries, nil
}

// Contains reports whether the entry exists
func (r *PostgresWishlistRepository) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&WishlistEntryModel{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count)
	if result.Error != nil {
		return false, apperrors.NewInternal("failed to check wishlist", result.Error)
	}
	return count > 0, nil
}

// Remove deletes the entry
func (r *PostgresWishlistRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&WishlistEntryModel{})
	if result.Error != nil {
		return apperrors.NewInternal("failed to remove wishlist entry", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewEntryNotFound(productID)
	}
	return nil
}

// isDuplicateKey reports whether err is a unique constraint violation
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *WishlistEntryModel) *domain.Entry {
	entry := &domain.Entry{
		ID:        model.ID,
		UserID:    model.UserID,
		ProductID: model.ProductID,
		CreatedAt: model.CreatedAt,
	}
	if model.Product != nil {
		entry.Product = &domain.EntryProduct{
			ID:     model.Product.ID,
			Name:   model.Product.Name,
			Price:  model.Product.Price,
			Stock:  model.Product.Stock,
			Images: model.Product.Images,
		}
	}
	return entry
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
	result := c.db.WithContext(ctx).Model(&WishlistProductModel{}).Where("id = ?", productID).Count(&count)
	if result.Error != nil {
		return apperrors.NewInternal("failed to check product", result.Error)
	}
	if count == 0 {
		return apperrors.NewNotFound("product", productID)
	}
	return nil
}
