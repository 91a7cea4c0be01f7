package infrastructure

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/wishlist/application"
	"storefront/internal/wishlist/domain"
	"storefront/pkg/errors"
	"storefront/pkg/middleware"
)

// HTTPHandler handles HTTP requests for the wishlist
type HTTPHandler struct {
	useCase *application.WishlistUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.WishlistUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the wishlist routes, all of them user-scoped
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	wishlist := r.Group("/wishlist")
	wishlist.Use(requireAuth)
	{
		wishlist.GET("", h.List)
		wishlist.POST("", h.Add)
		wishlist.GET("/:productId", h.Contains)
		wishlist.DELETE("/:productId", h.Remove)
	}
}

// AddRequest is the request body for adding a product to the wishlist
type AddRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// EntryProductResponse is the resolved product on a wishlist entry
type EntryProductResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  string   `json:"price"`
	Stock  int      `json:"stock"`
	Images []string `json:"images"`
}

// EntryResponse is one wishlist entry in a response
type EntryResponse struct {
	ID        string                `json:"id"`
	ProductID string                `json:"productId"`
	Product   *EntryProductResponse `json:"product,omitempty"`
	CreatedAt string                `json:"createdAt"`
}

// Add handles POST /wishlist
func (h *HTTPHandler) Add(c *gin.Context) {
	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.Add(c.Request.Context(), application.AddInput{
		UserID:    c.GetString(middleware.UserIDKey),
		ProductID: req.ProductID,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toEntryResponse(output.Entry),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// List handles GET /wishlist
func (h *HTTPHandler) List(c *gin.Context) {
	output, err := h.useCase.List(c.Request.Context(), application.ListInput{
		UserID: c.GetString(middleware.UserIDKey),
	})
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]EntryResponse, len(output.Entries))
	for i, entry := range output.Entries {
		responses[i] = toEntryResponse(entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// Contains handles GET /wishlist/:productId
func (h *HTTPHandler) Contains(c *gin.Context) {
	output, err := h.useCase.Contains(c.Request.Context(), application.ContainsInput{
		UserID:    c.GetString(middleware.UserIDKey),
		ProductID: c.Param("productId"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     gin.H{"contains": output.Contains},
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// Remove handles DELETE /wishlist/:productId
func (h *HTTPHandler) Remove(c *gin.Context) {
	if err := h.useCase.Remove(c.Request.Context(), application.RemoveInput{
		UserID:    c.GetString(middleware.UserIDKey),
		ProductID: c.Param("productId"),
	}); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toEntryResponse(entry *domain.Entry) EntryResponse {
	resp := EntryResponse{
		ID:        entry.ID.String(),
		ProductID: entry.ProductID.String(),
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.Product != nil {
		images := entry.Product.Images
		if images == nil {
			images = []string{}
		}
		resp.Product = &EntryProductResponse{
			ID:     entry.Product.ID.String(),
			Name:   entry.Product.Name,
			Price:  entry.Product.Price.StringFixed(2),
			Stock:  entry.Product.Stock,
			Images: images,
		}
	}
	return resp
}
