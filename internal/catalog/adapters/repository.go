package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront/internal/catalog/domain"
	apperrors "storefront/pkg/errors"
)

// CategoryModel is the GORM model for categories
type CategoryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// BeforeCreate assigns an id when none was supplied
func (m *CategoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ProductModel is the GORM model for products. This repository owns the
// products table and its migration; the order workflow reads and decrements
// the stock column through its own narrow view.
type ProductModel struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name        string           `gorm:"size:255;not null;index"`
	Description string           `gorm:"type:text"`
	Price       decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	OldPrice    *decimal.Decimal `gorm:"type:decimal(10,2)"`
	Stock       int              `gorm:"not null;default:0"`
	Images      []string         `gorm:"serializer:json;type:jsonb"`
	SKU         string           `gorm:"size:64;uniqueIndex"`
	IsActive    bool             `gorm:"not null;default:true"`
	Rating      decimal.Decimal  `gorm:"type:decimal(3,2);not null;default:0"`
	ReviewCount int              `gorm:"not null;default:0"`
	CategoryID  *uuid.UUID       `gorm:"type:uuid;index"`
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime"`

	Category *CategoryModel `gorm:"foreignKey:CategoryID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// BeforeCreate assigns an id when none was supplied
func (m *ProductModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// PostgresProductRepository implements ProductRepository using PostgreSQL
type PostgresProductRepository struct {
	db *gorm.DB
}

// NewPostgresProductRepository creates a new PostgreSQL product repository
func NewPostgresProductRepository(db *gorm.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// Migrate runs auto-migration for the catalog models
func (r *PostgresProductRepository) Migrate() error {
	return r.db.AutoMigrate(&CategoryModel{}, &ProductModel{})
}

// Create persists a new product
func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	model := toProductModel(product)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return domain.NewDuplicateSKU(product.SKU)
		}
		return apperrors.NewInternal("failed to create product", result.Error)
	}

	product.ID = model.ID
	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID retrieves a product with its category resolved
func (r *PostgresProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var model ProductModel

	result := r.db.WithContext(ctx).Preload("Category").First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewProductNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get product", result.Error)
	}

	return toProductDomain(&model), nil
}

// List returns a filtered, sorted page of products
func (r *PostgresProductRepository) List(ctx context.Context, filter domain.ListFilter) (*domain.ProductPage, error) {
	query := r.db.WithContext(ctx).Model(&ProductModel{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinRating != nil {
		query = query.Where("rating >= ?", *filter.MinRating)
	}
	if filter.InStock {
		query = query.Where("stock > 0")
	}
	if filter.ActiveOnly {
		query = query.Where("is_active")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.NewInternal("failed to count products", err)
	}

	var models []ProductModel
	result := query.
		Preload("Category").
		Order(orderClause(filter)).
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list products", result.Error)
	}

	products := make([]*domain.Product, len(models))
	for i := range models {
		products[i] = toProductDomain(&models[i])
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return &domain.ProductPage{
		Products:   products,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

var sortColumns = map[domain.SortField]string{
	domain.SortByCreatedAt: "created_at",
	domain.SortByPrice:     "price",
	domain.SortByName:      "name",
	domain.SortByRating:    "rating",
}

func orderClause(filter domain.ListFilter) string {
	column := sortColumns[filter.SortBy]
	direction := "DESC"
	if filter.SortOrder == domain.SortAsc {
		direction = "ASC"
	}
	return column + " " + direction
}

// Update applies a partial update and returns the result
func (r *PostgresProductRepository) Update(ctx context.Context, id uuid.UUID, update domain.ProductUpdate) (*domain.Product, error) {
	values := map[string]interface{}{}
	if update.Name != nil {
		values["name"] = *update.Name
	}
	if update.Description != nil {
		values["description"] = *update.Description
	}
	if update.Price != nil {
		values["price"] = *update.Price
	}
	if update.OldPrice != nil {
		values["old_price"] = *update.OldPrice
	}
	if update.Stock != nil {
		values["stock"] = *update.Stock
	}
	if update.Images != nil {
		values["images"] = *update.Images
	}
	if update.SKU != nil {
		values["sku"] = *update.SKU
	}
	if update.IsActive != nil {
		values["is_active"] = *update.IsActive
	}
	if update.CategoryID != nil {
		values["category_id"] = *update.CategoryID
	}

	if len(values) > 0 {
		result := r.db.WithContext(ctx).Model(&ProductModel{}).Where("id = ?", id).Updates(values)
		if result.Error != nil {
			if isDuplicateKey(result.Error) && update.SKU != nil {
				return nil, domain.NewDuplicateSKU(*update.SKU)
			}
			return nil, apperrors.NewInternal("failed to update product", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, domain.NewProductNotFound(id)
		}
	}

	return r.GetByID(ctx, id)
}

// Delete removes a product
func (r *PostgresProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewInternal("failed to delete product", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewProductNotFound(id)
	}
	return nil
}

// SetRating overwrites the denormalized review aggregates
func (r *PostgresProductRepository) SetRating(ctx context.Context, id uuid.UUID, rating decimal.Decimal, reviewCount int) error {
	result := r.db.WithContext(ctx).Model(&ProductModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":       rating,
		"review_count": reviewCount,
	})
	if result.Error != nil {
		return apperrors.NewInternal("failed to update product rating", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewProductNotFound(id)
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

// toProductModel converts a domain entity to a GORM model
func toProductModel(product *domain.Product) *ProductModel {
	return &ProductModel{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		OldPrice:    product.OldPrice,
		Stock:       product.Stock,
		Images:      product.Images,
		SKU:         product.SKU,
		IsActive:    product.IsActive,
		Rating:      product.Rating,
		ReviewCount: product.ReviewCount,
		CategoryID:  product.CategoryID,
	}
}

// toProductDomain converts a GORM model to a domain entity
func toProductDomain(model *ProductModel) *domain.Product {
	product := &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       model.Price,
		OldPrice:    model.OldPrice,
		Stock:       model.Stock,
		Images:      model.Images,
		SKU:         model.SKU,
		IsActive:    model.IsActive,
		Rating:      model.Rating,
		ReviewCount: model.ReviewCount,
		CategoryID:  model.CategoryID,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
	if model.Category != nil {
		product.Category = toCategoryDomain(model.Category)
	}
	return product
}

// PostgresCategoryRepository implements CategoryRepository using PostgreSQL
type PostgresCategoryRepository struct {
	db *gorm.DB
}

// NewPostgresCategoryRepository creates a new PostgreSQL category repository
func NewPostgresCategoryRepository(db *gorm.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

// Create persists a new category
func (r *PostgresCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	model := &CategoryModel{
		ID:   category.ID,
		Name: category.Name,
		Slug: category.Slug,
	}

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return domain.NewDuplicateSlug(category.Slug)
		}
		return apperrors.NewInternal("failed to create category", result.Error)
	}

	category.ID = model.ID
	category.CreatedAt = model.CreatedAt
	category.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID retrieves a category by id
func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var model CategoryModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewCategoryNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get category", result.Error)
	}

	return toCategoryDomain(&model), nil
}

// GetBySlug retrieves a category by slug
func (r *PostgresCategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	var model CategoryModel

	result := r.db.WithContext(ctx).First(&model, "slug = ?", slug)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewCategoryNotFound(slug)
		}
		return nil, apperrors.NewInternal("failed to get category", result.Error)
	}

	return toCategoryDomain(&model), nil
}

// List retrieves every category ordered by name
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var models []CategoryModel

	result := r.db.WithContext(ctx).Order("name ASC").Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list categories", result.Error)
	}

	categories := make([]*domain.Category, len(models))
	for i := range models {
		categories[i] = toCategoryDomain(&models[i])
	}
	return categories, nil
}

// Delete removes a category
func (r *PostgresCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewInternal("failed to delete category", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewCategoryNotFound(id)
	}
	return nil
}

// toCategoryDomain converts a GORM model to a domain entity
func toCategoryDomain(model *CategoryModel) *domain.Category {
	return &domain.Category{
		ID:        model.ID,
		Name:      model.Name,
		Slug:      model.Slug,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
