package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/logger"
	"storefront/internal/stock"

	"github.com/gin-gonic/gin"
)

// StockHandler exposes the restock workflow: the low-stock list, checkbox
// selection, the pending-order list, and supplier order submission.
type StockHandler struct {
	stocks *stock.Service
	logger *logger.Logger
}

func NewStockHandler(stocks *stock.Service, logger *logger.Logger) *StockHandler {
	return &StockHandler{
		stocks: stocks,
		logger: logger,
	}
}

// LowStock refreshes and returns the reconciled low-stock list.
func (h *StockHandler) LowStock(c *gin.Context) {
	items, err := h.stocks.Refresh(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to refresh low-stock list: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch low stock products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

type selectAllRequest struct {
	Checked bool `json:"checked"`
}

func (h *StockHandler) SelectAll(c *gin.Context) {
	var req selectAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.stocks.SetAllChecked(c.Request.Context(), req.Checked)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update selection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *StockHandler) SetChecked(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var req selectAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.stocks.SetChecked(c.Request.Context(), uint(productID), req.Checked)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update selection"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// MoveSelected moves the checked low-stock items to the pending-order
// list.
func (h *StockHandler) MoveSelected(c *gin.Context) {
	pending, err := h.stocks.MoveSelected(c.Request.Context())
	if err != nil {
		if errors.Is(err, stock.ErrNothingSelected) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please select products to order"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move selected products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": pending})
}

func (h *StockHandler) Pending(c *gin.Context) {
	pending, err := h.stocks.Pending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": pending})
}

// SendBack returns one pending product to the low-stock list.
func (h *StockHandler) SendBack(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	if err := h.stocks.SendBack(c.Request.Context(), uint(productID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send product back"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type submitOrdersRequest struct {
	ProductIDs []uint       `json:"product_ids" binding:"required"`
	Quantities map[uint]int `json:"quantities"`
}

// SubmitOrders turns the selected pending products into supplier orders.
func (h *StockHandler) SubmitOrders(c *gin.Context) {
	var req submitOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	placed, err := h.stocks.SubmitOrders(c.Request.Context(), req.ProductIDs, req.Quantities)
	if err != nil {
		if errors.Is(err, stock.ErrNothingSelected) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please select valid quantities and products to order"})
			return
		}
		h.logger.Error("failed to submit supplier orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": placed})
}
