package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/cart/domain"
	apperrors "storefront/pkg/errors"
)

// CartProductModel is a read-only view over the catalog's products table,
// just wide enough to render a cart line.
type CartProductModel struct {
	ID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name   string          `gorm:"size:255"`
	Price  decimal.Decimal `gorm:"type:decimal(10,2)"`
	Stock  int
	Images []string `gorm:"serializer:json;type:jsonb"`
}

// TableName returns the table name for GORM
func (CartProductModel) TableName() string {
	return "products"
}

// CartItemModel is the GORM model for cart items. The unique index over
// user and product is what makes repeated adds merge instead of duplicate.
type CartItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `gorm:"not null;check:quantity > 0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Product *CartProductModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// BeforeCreate assigns an id when none was supplied
func (m *CartItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// PostgresCartRepository implements CartRepository using PostgreSQL
type PostgresCartRepository struct {
	db *gorm.DB
}

// NewPostgresCartRepository creates a new PostgreSQL cart repository
func NewPostgresCartRepository(db *gorm.DB) *PostgresCartRepository {
	return &PostgresCartRepository{db: db}
}

// Migrate runs auto-migration for the cart model
func (r *PostgresCartRepository) Migrate() error {
	return r.db.AutoMigrate(&CartItemModel{})
}

// Upsert inserts the item or adds quantity to the existing row
func (r *PostgresCartRepository) Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.Item, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&CartItemModel{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))
		if result.Error != nil {
			return apperrors.NewInternal("failed to update cart item", result.Error)
		}
		if result.RowsAffected > 0 {
			return nil
		}

		model := &CartItemModel{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := tx.Create(model).Error; err != nil {
			return apperrors.NewInternal("failed to create cart item", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByUserAndProduct(ctx, userID, productID)
}

// ListByUser retrieves a user's cart items with products resolved, oldest first
func (r *PostgresCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Item, error) {
	var models []CartItemModel

	result := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list cart items", result.Error)
	}

	items := make([]*domain.Item, len(models))
	for i := range models {
		items[i] = toDomain(&models[i])
	}
	return items, nil
}

// GetByUserAndProduct retrieves one cart item with its product resolved
func (r *PostgresCartRepository) GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*domain.Item, error) {
	var model CartItemModel

	result := r.db.WithContext(ctx).
		Preload("Product").
		First(&model, "user_id = ? AND product_id = ?", userID, productID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewItemNotFound(productID)
		}
		return nil, apperrors.NewInternal("failed to get cart item", result.Error)
	}

	return toDomain(&model), nil
}

// SetQuantity overwrites an item's quantity
func (r *PostgresCartRepository) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.Item, error) {
	result := r.db.WithContext(ctx).Model(&CartItemModel{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		UpdateColumn("quantity", quantity)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to update cart item", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.NewItemNotFound(productID)
	}

	return r.GetByUserAndProduct(ctx, userID, productID)
}

// Remove deletes one product from the user's cart
func (r *PostgresCartRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&CartItemModel{})
	if result.Error != nil {
		return apperrors.NewInternal("failed to remove cart item", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewItemNotFound(productID)
	}
	return nil
}

// Clear deletes every item in the user's cart
func (r *PostgresCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&CartItemModel{})
	if result.Error != nil {
		return apperrors.NewInternal("failed to clear cart", result.Error)
	}
	return nil
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *CartItemModel) *domain.Item {
	item := &domain.Item{
		ID:        model.ID,
		UserID:    model.UserID,
		ProductID: model.ProductID,
		Quantity:  model.Quantity,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.Product != nil {
		item.Product = &domain.ItemProduct{
			ID:     model.Product.ID,
			Name:   model.Product.Name,
			Price:  model.Product.Price,
			Stock:  model.Product.Stock,
			Images: model.Product.Images,
		}
	}
	return item
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
	result := c.db.WithContext(ctx).Model(&CartProductModel{}).Where("id = ?", productID).Count(&count)
	if result.Error != nil {
		return apperrors.NewInternal("failed to check product", result.Error)
	}
	if count == 0 {
		return apperrors.NewNotFound("product", productID)
	}
	return nil
}
