package infrastructure

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart/application"
	"storefront/internal/cart/domain"
	"storefront/pkg/errors"
	"storefront/pkg/middleware"
)

// HTTPHandler handles HTTP requests for the shopping cart
type HTTPHandler struct {
	useCase *application.CartUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.CartUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the cart routes, all of them user-scoped
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	cart := r.Group("/cart")
	cart.Use(requireAuth)
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.PATCH("/items/:productId", h.UpdateItem)
		cart.DELETE("/items/:productId", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
	}
}

// AddItemRequest is the request body for adding a product to the cart
type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// UpdateItemRequest is the request body for changing an item's quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// ItemProductResponse is the resolved product on a cart line
type ItemProductResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  string   `json:"price"`
	Stock  int      `json:"stock"`
	Images []string `json:"images"`
}

// ItemResponse is one cart line in a response
type ItemResponse struct {
	ID        string               `json:"id"`
	ProductID string               `json:"productId"`
	Quantity  int                  `json:"quantity"`
	Subtotal  string               `json:"subtotal"`
	Product   *ItemProductResponse `json:"product,omitempty"`
	CreatedAt string               `json:"createdAt"`
	UpdatedAt string               `json:"updatedAt"`
}

// CartResponse is the response body for cart reads
type CartResponse struct {
	Items []ItemResponse `json:"items"`
	Total string         `json:"total"`
}

// GetCart handles GET /cart
func (h *HTTPHandler) GetCart(c *gin.Context) {
	output, err := h.useCase.GetCart(c.Request.Context(), application.GetCartInput{
		UserID: c.GetString(middleware.UserIDKey),
	})
	if err != nil {
		c.Error(err)
		return
	}

	cart := CartResponse{
		Items: make([]ItemResponse, len(output.Items)),
		Total: output.Total.StringFixed(2),
	}
	for i, item := range output.Items {
		cart.Items[i] = toItemResponse(item)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     cart,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// AddItem handles POST /cart/items
func (h *HTTPHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.AddItem(c.Request.Context(), application.AddItemInput{
		UserID:    c.GetString(middleware.UserIDKey),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toItemResponse(output.Item),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// UpdateItem handles PATCH /cart/items/:productId. A quantity of zero or
// less removes the item.
func (h *HTTPHandler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.UpdateItem(c.Request.Context(), application.UpdateItemInput{
		UserID:    c.GetString(middleware.UserIDKey),
		ProductID: c.Param("productId"),
		Quantity:  req.Quantity,
	})
	if err != nil {
		c.Error(err)
		return
	}

	if output.Item == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toItemResponse(output.Item),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// RemoveItem handles DELETE /cart/items/:productId
func (h *HTTPHandler) RemoveItem(c *gin.Context) {
	if err := h.useCase.RemoveItem(c.Request.Context(), application.RemoveItemInput{
		UserID:    c.GetString(middleware.UserIDKey),
		ProductID: c.Param("productId"),
	}); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearCart handles DELETE /cart
func (h *HTTPHandler) ClearCart(c *gin.Context) {
	if err := h.useCase.ClearCart(c.Request.Context(), application.ClearCartInput{
		UserID: c.GetString(middleware.UserIDKey),
	}); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toItemResponse(item *domain.Item) ItemResponse {
	resp := ItemResponse{
		ID:        item.ID.String(),
		ProductID: item.ProductID.String(),
		Quantity:  item.Quantity,
		Subtotal:  item.Subtotal().StringFixed(2),
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
		UpdatedAt: item.UpdatedAt.Format(time.RFC3339),
	}
	if item.Product != nil {
		images := item.Product.Images
		if images == nil {
			images = []string{}
		}
		resp.Product = &ItemProductResponse{
			ID:     item.Product.ID.String(),
			Name:   item.Product.Name,
			Price:  item.Product.Price.StringFixed(2),
			Stock:  item.Product.Stock,
			Images: images,
		}
	}
	return resp
}
