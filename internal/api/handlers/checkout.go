package handlers

import (
	"errors"
	"net/http"
	"time"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/services/payments"
	"storefront/internal/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CheckoutHandler drives the payment widget handshake and hands the
// capture result to the coordinator.
type CheckoutHandler struct {
	db          *gorm.DB
	coordinator *checkout.Coordinator
	gateway     *payments.Client
	sessions    *users.SessionCache
	carts       cart.Repository
	currency    string
	logger      *logger.Logger
}

func NewCheckoutHandler(db *gorm.DB, coordinator *checkout.Coordinator, gateway *payments.Client, sessions *users.SessionCache, carts cart.Repository, currency string, logger *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		db:          db,
		coordinator: coordinator,
		gateway:     gateway,
		sessions:    sessions,
		carts:       carts,
		currency:    currency,
		logger:      logger,
	}
}

// CreatePaymentOrder opens a payment-gateway order for the current cart
// total. The widget calls this before showing the approval buttons.
func (h *CheckoutHandler) CreatePaymentOrder(c *gin.Context) {
	sessionID, err := c.Cookie(cartCookie)
	if err != nil || sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}
	crt, err := h.carts.Get(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}
	if crt.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	var tax models.TaxSetting
	if err := h.db.First(&tax).Error; err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tax rate"})
		return
	}
	totals := crt.ComputeTotals(tax.Rate, time.Now())

	order, err := h.gateway.CreateOrder(c.Request.Context(), totals.Total, h.currency)
	if err != nil {
		h.logger.Error("failed to create payment order: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to start payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

type completeCheckoutRequest struct {
	GatewayOrderID string                  `json:"gateway_order_id"`
	PaymentDetails checkout.PaymentDetails `json:"payment_details"`
}

// Complete runs the checkout attempt once the widget reports approval. The
// capture details travel with the order; the identity comes from the
// session cookie.
func (h *CheckoutHandler) Complete(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in first to proceed with the checkout"})
		return
	}

	cartSession, err := c.Cookie(cartCookie)
	if err != nil || cartSession == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	var req completeCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	details := req.PaymentDetails
	if req.GatewayOrderID != "" {
		captured, err := h.gateway.Capture(c.Request.Context(), req.GatewayOrderID)
		if err != nil {
			h.logger.Error("payment capture failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Payment capture failed"})
			return
		}
		details = checkout.PaymentDetails(captured)
	}

	result, err := h.coordinator.Checkout(c.Request.Context(), cartSession, identity, details)
	if err != nil {
		h.respondCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// respondCheckoutError maps the checkout taxonomy onto HTTP statuses:
// validation problems are 400s with the triggering detail, business
// rejections surface the backend message verbatim, everything else is a
// generic transport failure.
func (h *CheckoutHandler) respondCheckoutError(c *gin.Context, err error) {
	var rejection *checkout.Rejection
	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, checkout.ErrCheckoutInFlight):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrInvalidCartItem):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, checkout.ErrUserResolution):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.As(err, &rejection):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": rejection.Message})
	default:
		h.logger.Error("checkout failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to process the order. Please try again."})
	}
}

func (h *CheckoutHandler) identity(c *gin.Context) (checkout.Identity, bool) {
	sessionID, err := c.Cookie(sessionCookie)
	if err != nil || sessionID == "" {
		return checkout.Identity{}, false
	}
	identity, ok, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to load session: %v", err)
		return checkout.Identity{}, false
	}
	return identity, ok
}
