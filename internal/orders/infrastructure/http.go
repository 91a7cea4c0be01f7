package infrastructure

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/orders/application"
	"storefront/internal/orders/domain"
	"storefront/pkg/errors"
	"storefront/pkg/middleware"
)

// HTTPHandler handles HTTP requests for orders
type HTTPHandler struct {
	useCase *application.OrderUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.OrderUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the order routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth, requireAdmin gin.HandlerFunc) {
	orders := r.Group("/orders")
	orders.Use(requireAuth)
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.PATCH("/:id", requireAdmin, h.UpdateOrder)
		orders.DELETE("/:id", requireAdmin, h.DeleteOrder)
	}
}

// OrderItemRequest is one submitted cart line. Quantity and price are
// accepted as strings and validated by the use case.
type OrderItemRequest struct {
	ProductID   string `json:"productId" binding:"required"`
	ProductName string `json:"productName" binding:"required"`
	Quantity    string `json:"quantity" binding:"required"`
	Price       string `json:"price" binding:"required"`
}

// PlaceOrderRequest is the request body for placing an order
type PlaceOrderRequest struct {
	Items              []OrderItemRequest `json:"items" binding:"required"`
	ShippingAddress    string             `json:"shippingAddress" binding:"required"`
	ShippingCity       string             `json:"shippingCity" binding:"required"`
	ShippingPostalCode string             `json:"shippingPostalCode" binding:"required"`
	ShippingPhone      string             `json:"shippingPhone"`
	Notes              string             `json:"notes"`
	Status             string             `json:"status"`
}

// UpdateOrderRequest is the request body for administrative order updates
type UpdateOrderRequest struct {
	Status             *string `json:"status"`
	ShippingAddress    *string `json:"shippingAddress"`
	ShippingCity       *string `json:"shippingCity"`
	ShippingPostalCode *string `json:"shippingPostalCode"`
	ShippingPhone      *string `json:"shippingPhone"`
	Notes              *string `json:"notes"`
}

// OrderItemResponse is one order line in a response
type OrderItemResponse struct {
	ID          string           `json:"id"`
	ProductID   string           `json:"productId"`
	ProductName string           `json:"productName"`
	Quantity    int              `json:"quantity"`
	Price       string           `json:"price"`
	Product     *ProductResponse `json:"product,omitempty"`
}

// ProductResponse is the resolved product reference on an order line
type ProductResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int    `json:"stock"`
}

// OrderResponse is the response body for order operations
type OrderResponse struct {
	ID                 string              `json:"id"`
	UserID             string              `json:"userId"`
	Items              []OrderItemResponse `json:"items"`
	Total              string              `json:"total"`
	ShippingCost       string              `json:"shippingCost"`
	Tax                string              `json:"tax"`
	Status             string              `json:"status"`
	ShippingAddress    string              `json:"shippingAddress"`
	ShippingCity       string              `json:"shippingCity"`
	ShippingPostalCode string              `json:"shippingPostalCode"`
	ShippingPhone      string              `json:"shippingPhone,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	CreatedAt          string              `json:"createdAt"`
	UpdatedAt          string              `json:"updatedAt"`
}

// PlaceOrder handles POST /orders
func (h *HTTPHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	lines := make([]application.PlaceOrderLineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = application.PlaceOrderLineInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		}
	}

	output, err := h.useCase.PlaceOrder(c.Request.Context(), application.PlaceOrderInput{
		UserID:             c.GetString(middleware.UserIDKey),
		Lines:              lines,
		ShippingAddress:    req.ShippingAddress,
		ShippingCity:       req.ShippingCity,
		ShippingPostalCode: req.ShippingPostalCode,
		ShippingPhone:      req.ShippingPhone,
		Notes:              req.Notes,
		Status:             req.Status,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toOrderResponse(output.Order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListOrders handles GET /orders
func (h *HTTPHandler) ListOrders(c *gin.Context) {
	// Admins see every order, customers only their own
	output, err := h.useCase.ListOrders(c.Request.Context(), application.ListOrdersInput{
		UserID: c.GetString(middleware.UserIDKey),
		All:    c.GetString(middleware.UserRoleKey) == middleware.RoleAdmin,
	})
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]OrderResponse, len(output.Orders))
	for i, order := range output.Orders {
		responses[i] = toOrderResponse(order)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetOrder handles GET /orders/:id
func (h *HTTPHandler) GetOrder(c *gin.Context) {
	output, err := h.useCase.GetOrder(c.Request.Context(), application.GetOrderInput{
		ID: c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toOrderResponse(output.Order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// UpdateOrder handles PATCH /orders/:id
func (h *HTTPHandler) UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	update := domain.OrderUpdate{
		ShippingAddress:    req.ShippingAddress,
		ShippingCity:       req.ShippingCity,
		ShippingPostalCode: req.ShippingPostalCode,
		ShippingPhone:      req.ShippingPhone,
		Notes:              req.Notes,
	}
	if req.Status != nil {
		status := domain.OrderStatus(*req.Status)
		update.Status = &status
	}

	output, err := h.useCase.UpdateOrder(c.Request.Context(), application.UpdateOrderInput{
		ID:     c.Param("id"),
		Update: update,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toOrderResponse(output.Order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// DeleteOrder handles DELETE /orders/:id
func (h *HTTPHandler) DeleteOrder(c *gin.Context) {
	if err := h.useCase.DeleteOrder(c.Request.Context(), application.DeleteOrderInput{
		ID: c.Param("id"),
	}); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Lines))
	for i, line := range order.Lines {
		items[i] = OrderItemResponse{
			ID:          line.ID.String(),
			ProductID:   line.ProductID.String(),
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Price:       line.UnitPrice.StringFixed(2),
		}
		if line.Product != nil {
			items[i].Product = &ProductResponse{
				ID:    line.Product.ID.String(),
				Name:  line.Product.Name,
				Price: line.Product.Price.StringFixed(2),
				Stock: line.Product.Stock,
			}
		}
	}

	return OrderResponse{
		ID:                 order.ID.String(),
		UserID:             order.UserID.String(),
		Items:              items,
		Total:              order.Total.StringFixed(2),
		ShippingCost:       order.ShippingCost.StringFixed(2),
		Tax:                order.Tax.StringFixed(2),
		Status:             string(order.Status),
		ShippingAddress:    order.ShippingAddress,
		ShippingCity:       order.ShippingCity,
		ShippingPostalCode: order.ShippingPostalCode,
		ShippingPhone:      order.ShippingPhone,
		Notes:              order.Notes,
		CreatedAt:          order.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          order.UpdatedAt.Format(time.RFC3339),
	}
}
