package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipping  OrderStatus = "SHIPPING"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderItem is one purchased line. Name, price and the chosen combination
// are denormalized at purchase time so later catalog edits cannot rewrite
// order history.
type OrderItem struct {
	ID                   uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID              uuid.UUID `json:"orderId" gorm:"type:uuid;not null;index"`
	ProductID            uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`
	VariantCombinationID *string   `json:"variantCombinationId,omitempty"`
	ProductName          string    `json:"productName" gorm:"not null"`
	VariantLabel         *string   `json:"variantLabel,omitempty"`
	Quantity             int       `json:"quantity" gorm:"not null"`
	UnitPrice            float64   `json:"unitPrice" gorm:"not null"`
	Reviewed             bool      `json:"reviewed" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Order is a customer purchase with its items.
type Order struct {
	ID              uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderCode       string      `json:"orderCode" gorm:"uniqueIndex;not null"`
	UserID          string      `json:"userId" gorm:"not null;index"`
	Status          OrderStatus `json:"status" gorm:"not null;default:'PENDING';index"`
	TotalAmount     float64     `json:"totalAmount" gorm:"not null"`
	ShippingAddress string      `json:"shippingAddress" gorm:"not null"`
	PhoneNumber     string      `json:"phoneNumber" gorm:"not null"`
	Note            *string     `json:"note,omitempty"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PlaceOrderItemRequest selects a product (and combination when the product
// has variants) with a quantity.
type PlaceOrderItemRequest struct {
	ProductID            uuid.UUID `json:"productId" binding:"required"`
	VariantCombinationID *string   `json:"variantCombinationId,omitempty"`
	Quantity             int       `json:"quantity" binding:"required,gt=0"`
}

// PlaceOrderRequest creates an order for the calling user.
type PlaceOrderRequest struct {
	Items           []PlaceOrderItemRequest `json:"items" binding:"required,min=1"`
	ShippingAddress string                  `json:"shippingAddress" binding:"required"`
	PhoneNumber     string                  `json:"phoneNumber" binding:"required"`
	Note            *string                 `json:"note,omitempty"`
}

// UpdateOrderStatusRequest moves an order along its lifecycle.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
