package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"brickstore-service/internal/middleware"
	"brickstore-service/internal/models"
	"brickstore-service/internal/services"
)

type ReviewsHandler struct {
	reviews services.ReviewService
	logger  *logrus.Logger
}

func NewReviewsHandler(reviews services.ReviewService, logger *logrus.Logger) *ReviewsHandler {
	return &ReviewsHandler{reviews: reviews, logger: logger}
}

// CreateReview reviews one delivered order item
func (h *ReviewsHandler) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	review, err := h.reviews.ReviewOrderItem(c.Request.Context(), middleware.CallerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: review})
}

// GetProductReviews lists a product's visible reviews with its summary
func (h *ReviewsHandler) GetProductReviews(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	page, limit := pageParams(c)
	reviews, total, serr := h.reviews.GetProductReviews(c.Request.Context(), productID, page, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}
	summary, serr := h.reviews.GetProductReviewSummary(c.Request.Context(), productID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: gin.H{
			"reviews":    reviews,
			"summary":    summary,
			"pagination": paginationInfo(page, limit, total),
		},
	})
}

// GetAllReviews lists every review for moderation (admin)
func (h *ReviewsHandler) GetAllReviews(c *gin.Context) {
	page, limit := pageParams(c)
	reviews, total, err := h.reviews.GetAllReviews(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: gin.H{
			"reviews":    reviews,
			"pagination": paginationInfo(page, limit, total),
		},
	})
}

// SetReviewVisibility toggles whether a review shows on the storefront (admin)
func (h *ReviewsHandler) SetReviewVisibility(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	visible, err := strconv.ParseBool(c.DefaultQuery("visible", "true"))
	if err != nil {
		respondInvalidID(c, "visible")
		return
	}
	if serr := h.reviews.SetReviewVisibility(c.Request.Context(), reviewID, visible); serr != nil {
		respondError(c, serr)
		return
	}
	message := "Review visibility updated"
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: &message})
}
