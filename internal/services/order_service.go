package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"brickstore-service/internal/models"
	"brickstore-service/internal/repository"
)

// OrderService places and manages orders. Prices and product names are
// snapshotted onto order items at placement; stock is consumed oldest
// imports first and restored on cancellation.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, req *models.PlaceOrderRequest) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID, userID string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	GetUserOrders(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error)
	GetOrders(ctx context.Context, status *models.OrderStatus, page, limit int) ([]models.Order, int64, error)
}

type orderService struct {
	products  ProductStore
	orders    *repository.OrdersRepository
	stock     *repository.StockRepository
	publisher EventPublisher
	logger    *logrus.Logger
}

func NewOrderService(products ProductStore, orders *repository.OrdersRepository, stock *repository.StockRepository, publisher EventPublisher, logger *logrus.Logger) OrderService {
	return &orderService{
		products:  products,
		orders:    orders,
		stock:     stock,
		publisher: publisher,
		logger:    logger,
	}
}

// generateOrderCode builds the human-facing order reference, e.g.
// BS-20260828-3F9A21D4.
func generateOrderCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("BS-%s-%s", time.Now().Format("20060102"), suffix)
}

func (s *orderService) PlaceOrder(ctx context.Context, userID string, req *models.PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, Validationf("order must contain at least one item").WithField("items")
	}

	order := &models.Order{
		OrderCode:       generateOrderCode(),
		UserID:          userID,
		Status:          models.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		PhoneNumber:     req.PhoneNumber,
		Note:            req.Note,
		Items:           make([]models.OrderItem, 0, len(req.Items)),
	}

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, Validationf("quantity must be positive").WithField("quantity")
		}
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, NotFoundf("product %s not found", item.ProductID)
			}
			return nil, Internalf(err, "failed to load product")
		}
		if !product.IsActive {
			return nil, Conflictf("product %q is not available", product.Name)
		}

		line := models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
		}
		if product.HasVariants {
			if item.VariantCombinationID == nil || *item.VariantCombinationID == "" {
				return nil, Validationf("a variant combination is required for %q", product.Name).WithField("variantCombinationId")
			}
			combo := product.CombinationByID(*item.VariantCombinationID)
			if combo == nil {
				return nil, NotFoundf("combination not found for product %q", product.Name)
			}
			line.VariantCombinationID = item.VariantCombinationID
			label := combo.VariantKey
			line.VariantLabel = &label
			line.UnitPrice = combo.Price
		} else {
			if item.VariantCombinationID != nil && *item.VariantCombinationID != "" {
				return nil, Validationf("product %q does not have variants", product.Name).WithField("variantCombinationId")
			}
			line.UnitPrice = product.Price
		}
		order.TotalAmount += line.UnitPrice * float64(line.Quantity)
		order.Items = append(order.Items, line)
	}

	err := s.orders.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, line := range order.Items {
			if err := s.stock.Deduct(tx, line.ProductID, line.VariantCombinationID, line.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return Conflictf("not enough stock for %q", line.ProductName)
				}
				return fmt.Errorf("failed to deduct stock: %w", err)
			}
		}
		return s.orders.CreateOrder(tx, order)
	})
	if err != nil {
		if de, ok := err.(*DomainError); ok {
			return nil, de
		}
		return nil, Internalf(err, "failed to place order")
	}

	s.adjustCombinationCounters(ctx, order, -1)
	if s.publisher != nil {
		s.publisher.PublishProductEvent(ctx, "order.placed", nil)
	}
	s.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  userID,
		"total":    order.TotalAmount,
	}).Info("Order placed")
	return order, nil
}

// CancelOrder lets the owning user cancel a still-pending order. Consumed
// stock is restored.
func (s *orderService) CancelOrder(ctx context.Context, orderID uuid.UUID, userID string) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundf("order not found")
		}
		return nil, Internalf(err, "failed to load order")
	}
	if order.UserID != userID {
		return nil, NotFoundf("order not found")
	}
	if !models.CanTransitionOrderStatus(order.Status, models.OrderStatusCancelled) {
		return nil, Conflictf("order in status %s cannot be cancelled", order.Status)
	}

	if err := s.cancelInternal(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) cancelInternal(ctx context.Context, order *models.Order) error {
	err := s.orders.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orders.UpdateOrderStatus(tx, order.ID, models.OrderStatusCancelled); err != nil {
			return err
		}
		for _, line := range order.Items {
			if err := s.stock.Restore(tx, line.ProductID, line.VariantCombinationID, line.Quantity); err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Internalf(err, "failed to cancel order")
	}
	order.Status = models.OrderStatusCancelled

	s.adjustCombinationCounters(ctx, order, 1)
	if s.publisher != nil {
		s.publisher.PublishProductEvent(ctx, "order.cancelled", nil)
	}
	s.logger.WithField("order_id", order.ID).Info("Order cancelled")
	return nil
}

// UpdateOrderStatus moves an order along the lifecycle (admin). A move to
// CANCELLED also restores stock.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundf("order not found")
		}
		return nil, Internalf(err, "failed to load order")
	}
	if !models.CanTransitionOrderStatus(order.Status, status) {
		return nil, Conflictf("invalid status transition %s -> %s", order.Status, status)
	}

	if status == models.OrderStatusCancelled {
		if err := s.cancelInternal(ctx, order); err != nil {
			return nil, err
		}
		return order, nil
	}

	if err := s.orders.UpdateOrderStatus(s.orders.DB().WithContext(ctx), orderID, status); err != nil {
		return nil, Internalf(err, "failed to update order status")
	}
	order.Status = status
	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"status":   status,
	}).Info("Order status updated")
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFoundf("order not found")
		}
		return nil, Internalf(err, "failed to load order")
	}
	return order, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	orders, total, err := s.orders.GetOrdersByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, Internalf(err, "failed to list orders")
	}
	return orders, total, nil
}

func (s *orderService) GetOrders(ctx context.Context, status *models.OrderStatus, page, limit int) ([]models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	orders, total, err := s.orders.GetOrders(ctx, status, page, limit)
	if err != nil {
		return nil, 0, Internalf(err, "failed to list orders")
	}
	return orders, total, nil
}

// adjustCombinationCounters maintains the display-only stock counters on the
// affected combinations. direction is -1 for placement, +1 for cancellation.
func (s *orderService) adjustCombinationCounters(ctx context.Context, order *models.Order, direction int) {
	for _, line := range order.Items {
		if line.VariantCombinationID == nil {
			continue
		}
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to reload product for stock counter update")
			continue
		}
		combo := product.CombinationByID(*line.VariantCombinationID)
		if combo == nil {
			continue
		}
		combo.Stock += direction * line.Quantity
		if combo.Stock < 0 {
			combo.Stock = 0
		}
		if err := s.products.SaveProduct(ctx, product); err != nil {
			s.logger.WithError(err).WithField("product_id", line.ProductID).Warn("Failed to update combination stock counter")
		}
	}
}
