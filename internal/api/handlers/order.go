package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/checkout"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/orders"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders *orders.Service
	logger *logger.Logger
}

func NewOrderHandler(orders *orders.Service, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// ListByUser returns a customer's order history, newest first.
func (h *OrderHandler) ListByUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	list, err := h.orders.ListByUser(c.Request.Context(), uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// List returns every order for the manager console.
func (h *OrderHandler) List(c *gin.Context) {
	list, err := h.orders.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.orders.Get(c.Request.Context(), uint(orderID))
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

type cancelOrderRequest struct {
	OrderID uint `json:"orderId" binding:"required"`
}

// Cancel lets a customer back out of an order that has not shipped yet.
// An order past that point comes back as a business rejection with the
// reason.
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req cancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.orders.Cancel(c.Request.Context(), req.OrderID); err != nil {
		var rejection *checkout.Rejection
		switch {
		case errors.Is(err, orders.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Order not found"})
		case errors.As(err, &rejection):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": rejection.Message})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to cancel order"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type setStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (h *OrderHandler) SetStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.Status {
	case models.OrderStatusProcessing, models.OrderStatusShipped, models.OrderStatusDelivered, models.OrderStatusCanceled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
		return
	}

	if err := h.orders.SetStatus(c.Request.Context(), uint(orderID), req.Status); err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
