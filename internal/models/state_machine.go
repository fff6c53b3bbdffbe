package models

// OrderStatusTransitions defines the valid status transitions for orders.
// Cancellation is only reachable from PENDING; once an order is confirmed it
// can only move forward.
var OrderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipping},
	OrderStatusShipping:  {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// CanTransitionOrderStatus checks if an order status transition is valid
func CanTransitionOrderStatus(from, to OrderStatus) bool {
	validTransitions, exists := OrderStatusTransitions[from]
	if !exists {
		return false
	}
	for _, validStatus := range validTransitions {
		if validStatus == to {
			return true
		}
	}
	return false
}

// IsTerminalOrderStatus checks if an order status is terminal
func IsTerminalOrderStatus(status OrderStatus) bool {
	return len(OrderStatusTransitions[status]) == 0
}
