package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"brickstore-service/internal/models"
)

type ReviewsRepository struct {
	db *gorm.DB
}

func NewReviewsRepository(db *gorm.DB) *ReviewsRepository {
	return &ReviewsRepository{db: db}
}

// CreateReview persists a review inside tx (shares the transaction that
// marks the order item reviewed)
func (r *ReviewsRepository) CreateReview(tx *gorm.DB, review *models.Review) error {
	review.CreatedAt = time.Now()
	review.UpdatedAt = time.Now()
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	return tx.Create(review).Error
}

// GetReview loads a single review
func (r *ReviewsRepository) GetReview(ctx context.Context, reviewID uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("id = ?", reviewID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// GetVisibleReviewsByProduct lists a product's visible reviews, newest first
func (r *ReviewsRepository) GetVisibleReviewsByProduct(ctx context.Context, productID uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ? AND is_visible = ?", productID, true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// GetReviews lists all reviews for moderation, newest first
func (r *ReviewsRepository) GetReviews(ctx context.Context, page, limit int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Review{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// SetReviewVisibility toggles whether a review shows on the storefront
func (r *ReviewsRepository) SetReviewVisibility(ctx context.Context, reviewID uuid.UUID, visible bool) error {
	result := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", reviewID).
		Updates(map[string]interface{}{
			"is_visible": visible,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProductReviewSummary aggregates a product's visible reviews
func (r *ReviewsRepository) GetProductReviewSummary(ctx context.Context, productID uuid.UUID) (*models.ReviewSummary, error) {
	var result struct {
		AverageRating float64
		ReviewCount   int64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ? AND is_visible = ?", productID, true).
		Select("COALESCE(AVG(rating), 0) as average_rating, COUNT(*) as review_count").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return &models.ReviewSummary{
		ProductID:     productID,
		AverageRating: result.AverageRating,
		ReviewCount:   result.ReviewCount,
	}, nil
}
