package handlers

import (
	"net/http"

	"storefront/internal/analytics"
	"storefront/internal/logger"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	repo   *analytics.Repository
	logger *logger.Logger
}

func NewAnalyticsHandler(repo *analytics.Repository, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		repo:   repo,
		logger: logger,
	}
}

func (h *AnalyticsHandler) SalesByCategory(c *gin.Context) {
	sales, err := h.repo.SalesByCategory(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to query sales by category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sales})
}

func (h *AnalyticsHandler) OrdersByStatus(c *gin.Context) {
	counts, err := h.repo.OrdersByStatus(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to query orders by status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order counts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": counts})
}
