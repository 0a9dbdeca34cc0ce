package handlers

import (
	"net/http"

	"storefront/internal/logger"
	"storefront/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaxHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewTaxHandler(db *gorm.DB, logger *logger.Logger) *TaxHandler {
	return &TaxHandler{
		db:     db,
		logger: logger,
	}
}

// GetRate returns the store-wide tax rate. A store without a configured
// rate reports zero.
func (h *TaxHandler) GetRate(c *gin.Context) {
	var tax models.TaxSetting
	if err := h.db.First(&tax).Error; err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tax rate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tax_rate": tax.Rate})
}

type setTaxRequest struct {
	TaxRate float64 `json:"taxRate"`
}

func (h *TaxHandler) SetRate(c *gin.Context) {
	var req setTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TaxRate < 0 || req.TaxRate > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tax rate must be between 0 and 100"})
		return
	}

	var tax models.TaxSetting
	err := h.db.First(&tax).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tax rate"})
		return
	}
	tax.Rate = req.TaxRate

	if err := h.db.Save(&tax).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tax rate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "tax_rate": tax.Rate})
}
