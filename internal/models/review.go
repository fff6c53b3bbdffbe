package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating tied to a delivered order item. Each order
// item can be reviewed at most once; visibility is moderated by admins.
type Review struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID   uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	OrderItemID uuid.UUID `json:"orderItemId" gorm:"type:uuid;not null;uniqueIndex"`
	UserID      string    `json:"userId" gorm:"not null;index"`
	Rating      int       `json:"rating" gorm:"not null"`
	Comment     *string   `json:"comment,omitempty" gorm:"type:text"`
	IsVisible   bool      `json:"isVisible" gorm:"not null;default:true;index"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateReviewRequest reviews one order item.
type CreateReviewRequest struct {
	OrderItemID uuid.UUID `json:"orderItemId" binding:"required"`
	Rating      int       `json:"rating" binding:"required,min=1,max=5"`
	Comment     *string   `json:"comment,omitempty"`
}

// ReviewSummary aggregates a product's visible reviews.
type ReviewSummary struct {
	ProductID     uuid.UUID `json:"productId"`
	AverageRating float64   `json:"averageRating"`
	ReviewCount   int64     `json:"reviewCount"`
}

// TableName returns the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
