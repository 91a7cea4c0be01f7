package infrastructure

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/reviews/application"
	"storefront/internal/reviews/domain"
	"storefront/pkg/errors"
	"storefront/pkg/middleware"
)

// HTTPHandler handles HTTP requests for product reviews
type HTTPHandler struct {
	useCase *application.ReviewUseCase
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(useCase *application.ReviewUseCase) *HTTPHandler {
	return &HTTPHandler{useCase: useCase}
}

// RegisterRoutes registers the review routes. Listing is public, writing
// requires a logged-in user.
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	r.GET("/products/:id/reviews", h.ListReviews)
	r.POST("/products/:id/reviews", requireAuth, h.CreateReview)
	r.DELETE("/reviews/:id", requireAuth, h.DeleteReview)
}

// CreateReviewRequest is the request body for creating a review
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// ReviewResponse is the response body for review operations
type ReviewResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// CreateReview handles POST /products/:id/reviews
func (h *HTTPHandler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	output, err := h.useCase.CreateReview(c.Request.Context(), application.CreateReviewInput{
		UserID:    c.GetString(middleware.UserIDKey),
		ProductID: c.Param("id"),
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toReviewResponse(output.Review),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListReviews handles GET /products/:id/reviews
func (h *HTTPHandler) ListReviews(c *gin.Context) {
	output, err := h.useCase.ListReviews(c.Request.Context(), application.ListReviewsInput{
		ProductID: c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]ReviewResponse, len(output.Reviews))
	for i, review := range output.Reviews {
		responses[i] = toReviewResponse(review)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// DeleteReview handles DELETE /reviews/:id
func (h *HTTPHandler) DeleteReview(c *gin.Context) {
	if err := h.useCase.DeleteReview(c.Request.Context(), application.DeleteReviewInput{
		ID:     c.Param("id"),
		UserID: c.GetString(middleware.UserIDKey),
		Admin:  c.GetString(middleware.UserRoleKey) == middleware.RoleAdmin,
	}); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toReviewResponse(review *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID.String(),
		UserID:    review.UserID.String(),
		ProductID: review.ProductID.String(),
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
		UpdatedAt: review.UpdatedAt.Format(time.RFC3339),
	}
}
