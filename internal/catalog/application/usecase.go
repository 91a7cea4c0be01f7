package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/catalog/domain"
	"storefront/internal/catalog/ports"
	"storefront/pkg/errors"
	"storefront/pkg/logger"
)

// ProductUseCase implements the catalog product operations
type ProductUseCase struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	cache      ports.ProductCache
	cacheTTL   time.Duration
	log        *logger.Logger
}

// NewProductUseCase creates a new product use case. cache may be nil when
// no cache backend is configured.
func NewProductUseCase(
	products ports.ProductRepository,
	categories ports.CategoryRepository,
	cache ports.ProductCache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		products:   products,
		categories: categories,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// CreateProductInput is the input for creating a product
type CreateProductInput struct {
	Name        string
	Description string
	Price       string
	OldPrice    string
	Stock       int
	Images      []string
	SKU         string
	IsActive    *bool
	CategoryID  string
}

// CreateProductOutput is the output of creating a product
type CreateProductOutput struct {
	Product *domain.Product
}

// CreateProduct validates and persists a new product
func (uc *ProductUseCase) CreateProduct(ctx context.Context, input CreateProductInput) (*CreateProductOutput, error) {
	if input.Name == "" {
		return nil, errors.NewValidation("name is required", nil)
	}

	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Price:       price,
		Stock:       input.Stock,
		Images:      input.Images,
		SKU:         input.SKU,
		IsActive:    true,
		Rating:      decimal.Zero,
	}

	if input.Stock < 0 {
		return nil, domain.NewInvalidStock()
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.OldPrice != "" {
		oldPrice, err := parsePrice(input.OldPrice)
		if err != nil {
			return nil, err
		}
		product.OldPrice = &oldPrice
	}
	if input.CategoryID != "" {
		categoryID, err := uuid.Parse(input.CategoryID)
		if err != nil {
			return nil, errors.NewValidation("invalid category id", nil)
		}
		if _, err := uc.categories.GetByID(ctx, categoryID); err != nil {
			return nil, err
		}
		product.CategoryID = &categoryID
	}

	if err := uc.products.Create(ctx, product); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)

	return &CreateProductOutput{Product: product}, nil
}

// GetProductInput is the input for retrieving a product
type GetProductInput struct {
	ID string
}

// GetProductOutput is the output of retrieving a product
type GetProductOutput struct {
	Product *domain.Product
}

// GetProduct retrieves a product, serving from cache when possible
func (uc *ProductUseCase) GetProduct(ctx context.Context, input GetProductInput) (*GetProductOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, errors.NewValidation("invalid product id", nil)
	}

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, id)
		if err != nil {
			uc.log.WithContext(ctx).Warn("product cache read failed", zap.Error(err))
		} else if cached != nil {
			return &GetProductOutput{Product: cached}, nil
		}
	}

	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, product, uc.cacheTTL); err != nil {
			uc.log.WithContext(ctx).Warn("product cache write failed", zap.Error(err))
		}
	}

	return &GetProductOutput{Product: product}, nil
}

// ListProductsInput is the input for listing products
type ListProductsInput struct {
	Filter domain.ListFilter
}

// ListProductsOutput is one page of products
type ListProductsOutput struct {
	Page *domain.ProductPage
}

// ListProducts returns a filtered, sorted page of products
func (uc *ProductUseCase) ListProducts(ctx context.Context, input ListProductsInput) (*ListProductsOutput, error) {
	filter := input.Filter
	filter.Normalize()

	page, err := uc.products.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListProductsOutput{Page: page}, nil
}

// UpdateProductInput is the input for updating a product
type UpdateProductInput struct {
	ID          string
	Name        *string
	Description *string
	Price       *string
	OldPrice    *string
	Stock       *int
	Images      *[]string
	SKU         *string
	IsActive    *bool
	CategoryID  *string
}

// UpdateProductOutput is the output of updating a product
type UpdateProductOutput struct {
	Product *domain.Product
}

// UpdateProduct applies a partial update and invalidates the cache entry
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, input UpdateProductInput) (*UpdateProductOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, errors.NewValidation("invalid product id", nil)
	}

	update := domain.ProductUpdate{
		Name:        input.Name,
		Description: input.Description,
		Images:      input.Images,
		SKU:         input.SKU,
		IsActive:    input.IsActive,
	}

	if input.Price != nil {
		price, err := parsePrice(*input.Price)
		if err != nil {
			return nil, err
		}
		update.Price = &price
	}
	if input.OldPrice != nil {
		oldPrice, err := parsePrice(*input.OldPrice)
		if err != nil {
			return nil, err
		}
		update.OldPrice = &oldPrice
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, domain.NewInvalidStock()
		}
		update.Stock = input.Stock
	}
	if input.CategoryID != nil {
		categoryID, err := uuid.Parse(*input.CategoryID)
		if err != nil {
			return nil, errors.NewValidation("invalid category id", nil)
		}
		if _, err := uc.categories.GetByID(ctx, categoryID); err != nil {
			return nil, err
		}
		update.CategoryID = &categoryID
	}

	product, err := uc.products.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, id)

	return &UpdateProductOutput{Product: product}, nil
}

// DeleteProductInput is the input for deleting a product
type DeleteProductInput struct {
	ID string
}

// DeleteProduct removes a product and its cache entry
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, input DeleteProductInput) error {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return errors.NewValidation("invalid product id", nil)
	}

	if err := uc.products.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidate(ctx, id)

	uc.log.WithContext(ctx).Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

// SetRating overwrites a product's denormalized review aggregates
func (uc *ProductUseCase) SetRating(ctx context.Context, id uuid.UUID, rating decimal.Decimal, reviewCount int) error {
	if err := uc.products.SetRating(ctx, id, rating, reviewCount); err != nil {
		return err
	}
	uc.invalidate(ctx, id)
	return nil
}

func (uc *ProductUseCase) invalidate(ctx context.Context, id uuid.UUID) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, id); err != nil {
		uc.log.WithContext(ctx).Warn("product cache invalidation failed",
			zap.String("product_id", id.String()),
			zap.Error(err),
		)
	}
}

// parsePrice parses a positive money amount with at most two decimal places
func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil || !price.IsPositive() || price.Exponent() < -2 {
		return decimal.Zero, domain.NewInvalidPrice()
	}
	return price, nil
}

// CategoryUseCase implements the catalog category operations
type CategoryUseCase struct {
	categories ports.CategoryRepository
	log        *logger.Logger
}

// NewCategoryUseCase creates a new category use case
func NewCategoryUseCase(categories ports.CategoryRepository, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{categories: categories, log: log}
}

// CreateCategoryInput is the input for creating a category
type CreateCategoryInput struct {
	Name string
	Slug string
}

// CreateCategoryOutput is the output of creating a category
type CreateCategoryOutput struct {
	Category *domain.Category
}

// CreateCategory validates and persists a new category
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	if input.Name == "" {
		return nil, errors.NewValidation("name is required", nil)
	}
	if input.Slug == "" {
		return nil, errors.NewValidation("slug is required", nil)
	}

	category := &domain.Category{
		ID:   uuid.New(),
		Name: input.Name,
		Slug: input.Slug,
	}

	if err := uc.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("category created",
		zap.String("category_id", category.ID.String()),
		zap.String("slug", category.Slug),
	)

	return &CreateCategoryOutput{Category: category}, nil
}

// GetCategoryInput is the input for retrieving a category by id or slug
type GetCategoryInput struct {
	ID   string
	Slug string
}

// GetCategoryOutput is the output of retrieving a category
type GetCategoryOutput struct {
	Category *domain.Category
}

// GetCategory retrieves a category by id, or by slug when no id is given
func (uc *CategoryUseCase) GetCategory(ctx context.Context, input GetCategoryInput) (*GetCategoryOutput, error) {
	if input.ID != "" {
		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, errors.NewValidation("invalid category id", nil)
		}
		category, err := uc.categories.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &GetCategoryOutput{Category: category}, nil
	}

	category, err := uc.categories.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &GetCategoryOutput{Category: category}, nil
}

// ListCategoriesOutput is the output of listing categories
type ListCategoriesOutput struct {
	Categories []*domain.Category
}

// ListCategories returns every category
func (uc *CategoryUseCase) ListCategories(ctx context.Context) (*ListCategoriesOutput, error) {
	categories, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ListCategoriesOutput{Categories: categories}, nil
}

// DeleteCategoryInput is the input for deleting a category
type DeleteCategoryInput struct {
	ID string
}

// DeleteCategory removes a category
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, input DeleteCategoryInput) error {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return errors.NewValidation("invalid category id", nil)
	}
	return uc.categories.Delete(ctx, id)
}
