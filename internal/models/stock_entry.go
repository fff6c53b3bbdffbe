package models

import (
	"time"

	"github.com/google/uuid"
)

// StockEntryStatus represents the lifecycle status of a stock entry
type StockEntryStatus string

const (
	StockEntryStatusImported  StockEntryStatus = "IMPORTED"
	StockEntryStatusCancelled StockEntryStatus = "CANCELLED"
)

// StockEntry is one imported batch of sellable units for a product or for a
// specific variant combination of it. Orders consume RemainingQuantity from
// the oldest imported entries first.
type StockEntry struct {
	ID                   uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProductID            uuid.UUID        `json:"productId" gorm:"type:uuid;not null;index"`
	VariantCombinationID *string          `json:"variantCombinationId,omitempty" gorm:"index"`
	Quantity             int              `json:"quantity" gorm:"not null"`
	RemainingQuantity    int              `json:"remainingQuantity" gorm:"not null"`
	UnitCost             float64          `json:"unitCost" gorm:"not null;default:0"`
	Status               StockEntryStatus `json:"status" gorm:"not null;default:'IMPORTED';index"`
	Note                 *string          `json:"note,omitempty"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy *string   `json:"createdBy,omitempty"`
}

// CreateStockEntryRequest imports a batch of stock. ProductID is taken from
// the route, not the body.
type CreateStockEntryRequest struct {
	ProductID            uuid.UUID `json:"-"`
	VariantCombinationID *string   `json:"variantCombinationId,omitempty"`
	Quantity             int       `json:"quantity" binding:"required,gt=0"`
	UnitCost             float64   `json:"unitCost"`
	Note                 *string   `json:"note,omitempty"`
}

// StockAvailability summarizes remaining units for a product or combination.
type StockAvailability struct {
	ProductID            uuid.UUID `json:"productId"`
	VariantCombinationID *string   `json:"variantCombinationId,omitempty"`
	Available            int       `json:"available"`
}

// TableName returns the table name for the StockEntry model
func (StockEntry) TableName() string {
	return "stock_entries"
}
