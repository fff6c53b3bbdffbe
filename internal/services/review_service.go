package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"brickstore-service/internal/models"
	"brickstore-service/internal/repository"
)

// ReviewService handles customer reviews and admin moderation. A review is
// tied to one delivered order item and can be written exactly once.
type ReviewService interface {
	ReviewOrderItem(ctx context.Context, userID string, req *models.CreateReviewRequest) (*models.Review, error)
	GetProductReviews(ctx context.Context, productID uuid.UUID, page, limit int) ([]models.Review, int64, error)
	GetProductReviewSummary(ctx context.Context, productID uuid.UUID) (*models.ReviewSummary, error)
	GetAllReviews(ctx context.Context, page, limit int) ([]models.Review, int64, error)
	SetReviewVisibility(ctx context.Context, reviewID uuid.UUID, visible bool) error
}

type reviewService struct {
	orders  *repository.OrdersRepository
	reviews *repository.ReviewsRepository
	logger  *logrus.Logger
}

func NewReviewService(orders *repository.OrdersRepository, reviews *repository.ReviewsRepository, logger *logrus.Logger) ReviewService {
	return &reviewService{
		orders:  orders,
		reviews: reviews,
		logger:  logger,
	}
}

func (s *reviewService) ReviewOrderItem(ctx context.Context, userID string, req *models.CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, Validationf("rating must be between 1 and 5").WithField("rating")
	}

	item, err := s.orders.GetOrderItem(ctx, req.OrderItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundf("order item not found")
		}
		return nil, Internalf(err, "failed to load order item")
	}
	order, err := s.orders.GetOrder(ctx, item.OrderID)
	if err != nil {
		return nil, Internalf(err, "failed to load order")
	}
	if order.UserID != userID {
		return nil, NotFoundf("order item not found")
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, Conflictf("only delivered orders can be reviewed")
	}
	if item.Reviewed {
		return nil, Conflictf("order item has already been reviewed")
	}

	review := &models.Review{
		ProductID:   item.ProductID,
		OrderItemID: item.ID,
		UserID:      userID,
		Rating:      req.Rating,
		Comment:     req.Comment,
		IsVisible:   true,
	}
	err = s.orders.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// MarkItemReviewed only succeeds for a not-yet-reviewed row, so a
		// concurrent duplicate loses here.
		if err := s.orders.MarkItemReviewed(tx, item.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return Conflictf("order item has already been reviewed")
			}
			return err
		}
		return s.reviews.CreateReview(tx, review)
	})
	if err != nil {
		if de, ok := err.(*DomainError); ok {
			return nil, de
		}
		return nil, Internalf(err, "failed to create review")
	}

	s.logger.WithFields(logrus.Fields{
		"review_id":  review.ID,
		"product_id": review.ProductID,
		"rating":     review.Rating,
	}).Info("Review created")
	return review, nil
}

func (s *reviewService) GetProductReviews(ctx context.Context, productID uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	reviews, total, err := s.reviews.GetVisibleReviewsByProduct(ctx, productID, page, limit)
	if err != nil {
		return nil, 0, Internalf(err, "failed to list reviews")
	}
	return reviews, total, nil
}

func (s *reviewService) GetProductReviewSummary(ctx context.Context, productID uuid.UUID) (*models.ReviewSummary, error) {
	summary, err := s.reviews.GetProductReviewSummary(ctx, productID)
	if err != nil {
		return nil, Internalf(err, "failed to compute review summary")
	}
	return summary, nil
}

func (s *reviewService) GetAllReviews(ctx context.Context, page, limit int) ([]models.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	reviews, total, err := s.reviews.GetReviews(ctx, page, limit)
	if err != nil {
		return nil, 0, Internalf(err, "failed to list reviews")
	}
	return reviews, total, nil
}

func (s *reviewService) SetReviewVisibility(ctx context.Context, reviewID uuid.UUID, visible bool) error {
	if err := s.reviews.SetReviewVisibility(ctx, reviewID, visible); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFoundf("review not found")
		}
		return Internalf(err, "failed to update review visibility")
	}
	return nil
}
