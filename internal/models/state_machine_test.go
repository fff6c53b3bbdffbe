package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrderStatus(t *testing.T) {
	// Forward path
	assert.True(t, CanTransitionOrderStatus(OrderStatusPending, OrderStatusConfirmed))
	assert.True(t, CanTransitionOrderStatus(OrderStatusConfirmed, OrderStatusShipping))
	assert.True(t, CanTransitionOrderStatus(OrderStatusShipping, OrderStatusDelivered))

	// Cancellation only from pending
	assert.True(t, CanTransitionOrderStatus(OrderStatusPending, OrderStatusCancelled))
	assert.False(t, CanTransitionOrderStatus(OrderStatusConfirmed, OrderStatusCancelled))
	assert.False(t, CanTransitionOrderStatus(OrderStatusShipping, OrderStatusCancelled))

	// No skipping or moving backwards
	assert.False(t, CanTransitionOrderStatus(OrderStatusPending, OrderStatusShipping))
	assert.False(t, CanTransitionOrderStatus(OrderStatusConfirmed, OrderStatusPending))
	assert.False(t, CanTransitionOrderStatus(OrderStatusDelivered, OrderStatusShipping))

	// Unknown status never transitions
	assert.False(t, CanTransitionOrderStatus(OrderStatus("UNKNOWN"), OrderStatusConfirmed))
}

func TestIsTerminalOrderStatus(t *testing.T) {
	assert.True(t, IsTerminalOrderStatus(OrderStatusDelivered))
	assert.True(t, IsTerminalOrderStatus(OrderStatusCancelled))
	assert.False(t, IsTerminalOrderStatus(OrderStatusPending))
	assert.False(t, IsTerminalOrderStatus(OrderStatusConfirmed))
	assert.False(t, IsTerminalOrderStatus(OrderStatusShipping))
}
