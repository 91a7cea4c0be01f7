package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/catalog/application"
	"storefront/internal/catalog/domain"
	"storefront/pkg/errors"
	"storefront/pkg/middleware"
)

// HTTPHandler handles HTTP requests for the catalog
type HTTPHandler struct {
	products   *application.ProductUseCase
	categories *application.CategoryUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(products *application.ProductUseCase, categories *application.CategoryUseCase) *HTTPHandler {
	return &HTTPHandler{products: products, categories: categories}
}

// RegisterRoutes registers the catalog routes. Reads are public, writes
// require an admin.
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth, requireAdmin gin.HandlerFunc) {
	products := r.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.POST("", requireAuth, requireAdmin, h.CreateProduct)
		products.PATCH("/:id", requireAuth, requireAdmin, h.UpdateProduct)
		products.DELETE("/:id", requireAuth, requireAdmin, h.DeleteProduct)
	}

	categories := r.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:slug", h.GetCategory)
		categories.POST("", requireAuth, requireAdmin, h.CreateCategory)
		categories.DELETE("/:id", requireAuth, requireAdmin, h.DeleteCategory)
	}
}

// CreateProductRequest is the request body for creating a product
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       string   `json:"price" binding:"required"`
	OldPrice    string   `json:"oldPrice"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
	SKU         string   `json:"sku"`
	IsActive    *bool    `json:"isActive"`
	CategoryID  string   `json:"categoryId"`
}

// UpdateProductRequest is the request body for partial product updates
type UpdateProductRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *string   `json:"price"`
	OldPrice    *string   `json:"oldPrice"`
	Stock       *int      `json:"stock"`
	Images      *[]string `json:"images"`
	SKU         *string   `json:"sku"`
	IsActive    *bool     `json:"isActive"`
	CategoryID  *string   `json:"categoryId"`
}

// CategoryResponse is the response body for category operations
type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ProductResponse is the response body for product operations
type ProductResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       string            `json:"price"`
	OldPrice    *string           `json:"oldPrice,omitempty"`
	Stock       int               `json:"stock"`
	Images      []string          `json:"images"`
	SKU         string            `json:"sku,omitempty"`
	IsActive    bool              `json:"isActive"`
	Rating      string            `json:"rating"`
	ReviewCount int               `json:"reviewCount"`
	CategoryID  *string           `json:"categoryId,omitempty"`
	Category    *CategoryResponse `json:"category,omitempty"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
}

// ProductPageResponse is one page of a product listing
type ProductPageResponse struct {
	Products   []ProductResponse `json:"products"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

// CreateCategoryRequest is the request body for creating a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// CreateProduct handles POST /products
func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.products.CreateProduct(c.Request.Context(), application.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		OldPrice:    req.OldPrice,
		Stock:       req.Stock,
		Images:      req.Images,
		SKU:         req.SKU,
		IsActive:    req.IsActive,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toProductResponse(output.Product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetProduct handles GET /products/:id
func (h *HTTPHandler) GetProduct(c *gin.Context) {
	output, err := h.products.GetProduct(c.Request.Context(), application.GetProductInput{
		ID: c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toProductResponse(output.Product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListProducts handles GET /products
func (h *HTTPHandler) ListProducts(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		c.Error(err)
		return
	}

	output, err := h.products.ListProducts(c.Request.Context(), application.ListProductsInput{
		Filter: filter,
	})
	if err != nil {
		c.Error(err)
		return
	}

	page := ProductPageResponse{
		Products:   make([]ProductResponse, len(output.Page.Products)),
		Total:      output.Page.Total,
		Page:       output.Page.Page,
		Limit:      output.Page.Limit,
		TotalPages: output.Page.TotalPages,
	}
	for i, product := range output.Page.Products {
		page.Products[i] = toProductResponse(product)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     page,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

func parseListFilter(c *gin.Context) (domain.ListFilter, error) {
	var filter domain.ListFilter

	if raw := c.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.NewValidation("invalid category id", nil)
		}
		filter.CategoryID = &id
	}
	filter.Search = c.Query("search")
	if raw := c.Query("minPrice"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.NewValidation("invalid minPrice", nil)
		}
		filter.MinPrice = &price
	}
	if raw := c.Query("maxPrice"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.NewValidation("invalid maxPrice", nil)
		}
		filter.MaxPrice = &price
	}
	if raw := c.Query("minRating"); raw != "" {
		rating, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.NewValidation("invalid minRating", nil)
		}
		filter.MinRating = &rating
	}
	filter.InStock = c.Query("inStock") == "true"
	filter.ActiveOnly = c.Query("activeOnly") == "true"
	filter.SortBy = domain.SortField(c.Query("sortBy"))
	filter.SortOrder = domain.SortOrder(c.Query("sortOrder"))
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))

	return filter, nil
}

// UpdateProduct handles PATCH /products/:id
func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.products.UpdateProduct(c.Request.Context(), application.UpdateProductInput{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		OldPrice:    req.OldPrice,
		Stock:       req.Stock,
		Images:      req.Images,
		SKU:         req.SKU,
		IsActive:    req.IsActive,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toProductResponse(output.Product),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// DeleteProduct handles DELETE /products/:id
func (h *HTTPHandler) DeleteProduct(c *gin.Context) {
	if err := h.products.DeleteProduct(c.Request.Context(), application.DeleteProductInput{
		ID: c.Param("id"),
	}); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateCategory handles POST /categories
func (h *HTTPHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.categories.CreateCategory(c.Request.Context(), application.CreateCategoryInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toCategoryResponse(output.Category),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetCategory handles GET /categories/:slug. A UUID is accepted as well.
func (h *HTTPHandler) GetCategory(c *gin.Context) {
	input := application.GetCategoryInput{Slug: c.Param("slug")}
	if _, err := uuid.Parse(input.Slug); err == nil {
		input = application.GetCategoryInput{ID: input.Slug}
	}

	output, err := h.categories.GetCategory(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toCategoryResponse(output.Category),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListCategories handles GET /categories
func (h *HTTPHandler) ListCategories(c *gin.Context) {
	output, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]CategoryResponse, len(output.Categories))
	for i, category := range output.Categories {
		responses[i] = toCategoryResponse(category)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// DeleteCategory handles DELETE /categories/:id
func (h *HTTPHandler) DeleteCategory(c *gin.Context) {
	if err := h.categories.DeleteCategory(c.Request.Context(), application.DeleteCategoryInput{
		ID: c.Param("id"),
	}); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toProductResponse(product *domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.StringFixed(2),
		Stock:       product.Stock,
		Images:      product.Images,
		SKU:         product.SKU,
		IsActive:    product.IsActive,
		Rating:      product.Rating.StringFixed(2),
		ReviewCount: product.ReviewCount,
		CreatedAt:   product.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   product.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if product.OldPrice != nil {
		oldPrice := product.OldPrice.StringFixed(2)
		resp.OldPrice = &oldPrice
	}
	if product.CategoryID != nil {
		categoryID := product.CategoryID.String()
		resp.CategoryID = &categoryID
	}
	if product.Category != nil {
		category := toCategoryResponse(product.Category)
		resp.Category = &category
	}
	return resp
}

func toCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID.String(),
		Name:      category.Name,
		Slug:      category.Slug,
		CreatedAt: category.CreatedAt.Format(time.RFC3339),
		UpdatedAt: category.UpdatedAt.Format(time.RFC3339),
	}
}
