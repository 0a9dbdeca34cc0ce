package handlers

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/cart"
	"storefront/internal/logger"
	"storefront/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const cartCookie = "cart_session"

// CartHandler exposes the shopping cart. Stock ceilings are enforced here,
// before the cart is mutated; the cart itself only clamps quantities at
// zero.
type CartHandler struct {
	db     *gorm.DB
	carts  cart.Repository
	ttl    time.Duration
	logger *logger.Logger
}

func NewCartHandler(db *gorm.DB, carts cart.Repository, ttl time.Duration, logger *logger.Logger) *CartHandler {
	return &CartHandler{
		db:     db,
		carts:  carts,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cart's line items and totals. The tax rate is read once
// per view and the totals are derived from the lines on every request.
func (h *CartHandler) Get(c *gin.Context) {
	crt, sessionID, err := h.session(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	var tax models.TaxSetting
	if err := h.db.First(&tax).Error; err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tax rate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"items":    crt.Items,
			"totals":   crt.ComputeTotals(tax.Rate, time.Now()),
			"tax_rate": tax.Rate,
			"session":  sessionID,
		},
	})
}

type addToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

func (h *CartHandler) Add(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
		return
	}

	var product models.Product
	if err := h.db.First(&product, req.ProductID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	if !product.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product is not available"})
		return
	}

	crt, sessionID, err := h.session(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	if crt.Quantity(product.ID)+req.Quantity > product.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot buy more than the available quantity"})
		return
	}

	crt.Add(product, req.Quantity)
	if err := h.carts.Save(c.Request.Context(), sessionID, crt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": crt.Items})
}

type updateQuantityRequest struct {
	Delta int `json:"delta"`
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	crt, sessionID, err := h.session(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	if req.Delta > 0 {
		var product models.Product
		err := h.db.First(&product, productID).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			// No ceiling for an unknown product; the cart update below
			// is a no-op for products it does not hold.
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		case crt.Quantity(uint(productID))+req.Delta > product.Quantity:
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot buy more than the available quantity"})
			return
		}
	}

	crt.UpdateQuantity(uint(productID), req.Delta)
	if err := h.carts.Save(c.Request.Context(), sessionID, crt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": crt.Items})
}

func (h *CartHandler) Clear(c *gin.Context) {
	crt, sessionID, err := h.session(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	crt.Clear()
	if err := h.carts.Save(c.Request.Context(), sessionID, crt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": crt.Items})
}

// session loads the cart for the request's cart cookie, creating both when
// the browser has none yet.
func (h *CartHandler) session(c *gin.Context) (*cart.Cart, string, error) {
	sessionID, err := c.Cookie(cartCookie)
	if err != nil || sessionID == "" {
		sessionID, err = h.carts.Create(c.Request.Context())
		if err != nil {
			return nil, "", err
		}
		c.SetCookie(cartCookie, sessionID, int(h.ttl.Seconds()), "/", "", false, true)
	}
	crt, err := h.carts.Get(c.Request.Context(), sessionID)
	if err != nil {
		return nil, "", err
	}
	return crt, sessionID, nil
}
