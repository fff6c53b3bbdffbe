package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringArray is a JSONB-backed list of strings (image reference paths etc).
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		a = StringArray{}
	}
	return json.Marshal(a)
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// Variant is one named axis of a product (e.g. "Color") with its selectable
// option values in display order. Variants live inside the product document;
// they have no identity outside their parent.
type Variant struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// CombinationPair binds one variant axis to one of its option values.
type CombinationPair struct {
	VariantID string `json:"variantId"`
	Value     string `json:"value"`
}

// VariantCombination is a sellable combination of option values across axes,
// carrying its own price, stock counter and image set.
type VariantCombination struct {
	ID         string            `json:"id"`
	VariantKey string            `json:"variantKey"`
	Variants   []CombinationPair `json:"variants"`
	Price      float64           `json:"price"`
	Stock      int               `json:"stock"`
	Images     []string          `json:"images"`
}

// VariantList is the JSONB column type for the embedded variants.
type VariantList []Variant

func (l VariantList) Value() (driver.Value, error) {
	if l == nil {
		l = VariantList{}
	}
	return json.Marshal(l)
}

func (l *VariantList) Scan(value interface{}) error {
	if value == nil {
		*l = VariantList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// CombinationList is the JSONB column type for the embedded combinations.
type CombinationList []VariantCombination

func (l CombinationList) Value() (driver.Value, error) {
	if l == nil {
		l = CombinationList{}
	}
	return json.Marshal(l)
}

func (l *CombinationList) Scan(value interface{}) error {
	if value == nil {
		*l = CombinationList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, l)
}

// Product is the aggregate root. Variants and combinations are embedded as
// JSONB so every mutation of the variant state is a single-row write.
// Version is a revision counter; saves compare-and-swap on it.
type Product struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name        string    `json:"name" gorm:"not null"`
	Slug        *string   `json:"slug,omitempty" gorm:"uniqueIndex"`
	CategoryID  uuid.UUID `json:"categoryId" gorm:"type:uuid;not null;index"`
	BrandID     uuid.UUID `json:"brandId" gorm:"type:uuid;not null;index"`
	ProductInfo *string   `json:"productInfo,omitempty" gorm:"type:text"`
	Usage       *string   `json:"usage,omitempty" gorm:"type:text"`

	// Price is authoritative only while HasVariants is false; with variants
	// enabled each combination carries its own price and Price is zeroed.
	Price       float64 `json:"price" gorm:"not null;default:0"`
	IsActive    bool    `json:"isActive" gorm:"not null;default:false;index"`
	HasVariants bool    `json:"hasVariants" gorm:"not null;default:false"`

	Images              StringArray     `json:"images" gorm:"type:jsonb"`
	Variants            VariantList     `json:"variants" gorm:"type:jsonb"`
	VariantCombinations CombinationList `json:"variantCombinations" gorm:"type:jsonb"`

	Version int `json:"version" gorm:"not null;default:1"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	CreatedBy *string        `json:"createdBy,omitempty"`
	UpdatedBy *string        `json:"updatedBy,omitempty"`
}

// VariantByID returns the embedded variant with the given id, or nil.
func (p *Product) VariantByID(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// CombinationByID returns the embedded combination with the given id, or nil.
func (p *Product) CombinationByID(comboID string) *VariantCombination {
	for i := range p.VariantCombinations {
		if p.VariantCombinations[i].ID == comboID {
			return &p.VariantCombinations[i]
		}
	}
	return nil
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name        string    `json:"name" binding:"required"`
	Price       float64   `json:"price"`
	CategoryID  uuid.UUID `json:"categoryId" binding:"required"`
	BrandID     uuid.UUID `json:"brandId" binding:"required"`
	ProductInfo *string   `json:"productInfo,omitempty"`
	Usage       *string   `json:"usage,omitempty"`
	HasVariants bool      `json:"hasVariants"`
}

// UpdateProductRequest represents a full product update, including a possible
// hasVariants flip. Replacement image files travel alongside as upload refs.
type UpdateProductRequest struct {
	Name        string    `json:"name" binding:"required"`
	Price       float64   `json:"price"`
	CategoryID  uuid.UUID `json:"categoryId" binding:"required"`
	BrandID     uuid.UUID `json:"brandId" binding:"required"`
	ProductInfo *string   `json:"productInfo,omitempty"`
	Usage       *string   `json:"usage,omitempty"`
	HasVariants bool      `json:"hasVariants"`
}

// AddVariantRequest adds one axis with its initial option values.
type AddVariantRequest struct {
	Name    string   `json:"name" binding:"required"`
	Options []string `json:"options" binding:"required"`
}

// RenameVariantRequest renames an axis.
type RenameVariantRequest struct {
	Name string `json:"name" binding:"required"`
}

// VariantOptionRequest adds a single option value to an axis.
type VariantOptionRequest struct {
	Value string `json:"value" binding:"required"`
}

// UpdateVariantOptionRequest renames an option value on an axis.
type UpdateVariantOptionRequest struct {
	OldValue string `json:"oldValue" binding:"required"`
	NewValue string `json:"newValue" binding:"required"`
}

// AddCombinationRequest creates a combination from a key and its pairs.
// Images travel as multipart file parts, not in the JSON payload.
type AddCombinationRequest struct {
	VariantKey string            `json:"variantKey" binding:"required"`
	Variants   []CombinationPair `json:"variants" binding:"required"`
}

// UpdateCombinationRequest restructures a combination. DeletedImages lists
// currently attached reference paths to detach and remove from storage.
type UpdateCombinationRequest struct {
	VariantKey    string            `json:"variantKey" binding:"required"`
	Variants      []CombinationPair `json:"variants" binding:"required"`
	DeletedImages []string          `json:"deletedImages"`
}

// UpdateCombinationPriceRequest updates only the price of a combination.
type UpdateCombinationPriceRequest struct {
	Price float64 `json:"price"`
}

// SearchProductsRequest filters the admin product list.
type SearchProductsRequest struct {
	Query      *string    `json:"query,omitempty"`
	CategoryID *uuid.UUID `json:"categoryId,omitempty"`
	BrandID    *uuid.UUID `json:"brandId,omitempty"`
	IsActive   *bool      `json:"isActive,omitempty"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
}

// Response types
type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
	Message *string  `json:"message,omitempty"`
}

type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
