package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"brickstore-service/internal/middleware"
	"brickstore-service/internal/models"
	"brickstore-service/internal/services"
)

type OrdersHandler struct {
	orders services.OrderService
	logger *logrus.Logger
}

func NewOrdersHandler(orders services.OrderService, logger *logrus.Logger) *OrdersHandler {
	return &OrdersHandler{orders: orders, logger: logger}
}

// PlaceOrder creates an order for the calling user
func (h *OrdersHandler) PlaceOrder(c *gin.Context) {
	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := h.orders.PlaceOrder(c.Request.Context(), middleware.CallerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.SuccessResponse{Success: true, Data: order})
}

// GetMyOrders lists the calling user's orders
func (h *OrdersHandler) GetMyOrders(c *gin.Context) {
	page, limit := pageParams(c)
	orders, total, err := h.orders.GetUserOrders(c.Request.Context(), middleware.CallerID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: gin.H{
			"orders":     orders,
			"pagination": paginationInfo(page, limit, total),
		},
	})
}

// GetOrder returns one order; users only see their own, admins see all
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	order, serr := h.orders.GetOrder(c.Request.Context(), orderID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	if !middleware.IsAdmin(c) && order.UserID != middleware.CallerID(c) {
		respondError(c, services.NotFoundf("order not found"))
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: order})
}

// CancelOrder lets the owner cancel a pending order
func (h *OrdersHandler) CancelOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	order, serr := h.orders.CancelOrder(c.Request.Context(), orderID, middleware.CallerID(c))
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: order})
}

// GetOrders lists all orders (admin), optionally filtered by status
func (h *OrdersHandler) GetOrders(c *gin.Context) {
	page, limit := pageParams(c)
	var status *models.OrderStatus
	if v := c.Query("status"); v != "" {
		s := models.OrderStatus(v)
		status = &s
	}
	orders, total, err := h.orders.GetOrders(c.Request.Context(), status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data: gin.H{
			"orders":     orders,
			"pagination": paginationInfo(page, limit, total),
		},
	})
}

// UpdateOrderStatus moves an order along its lifecycle (admin)
func (h *OrdersHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}
	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	order, serr := h.orders.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: order})
}
