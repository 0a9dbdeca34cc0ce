package handlers

import (
	"net/http"
	"time"

	"storefront/internal/logger"
	"storefront/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DiscountHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewDiscountHandler(db *gorm.DB, logger *logger.Logger) *DiscountHandler {
	return &DiscountHandler{
		db:     db,
		logger: logger,
	}
}

// Categories lists the distinct product categories to pick from when
// setting up a discount.
func (h *DiscountHandler) Categories(c *gin.Context) {
	var categories []string
	err := h.db.Model(&models.Product{}).
		Distinct("category_name").
		Where("category_name <> ''").
		Order("category_name").
		Pluck("category_name", &categories).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// Products lists the products of one category.
func (h *DiscountHandler) Products(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category is required"})
		return
	}

	var products []models.Product
	if err := h.db.Where("category_name = ?", category).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products})
}

type addDiscountRequest struct {
	ProductID          uint      `json:"productId" binding:"required"`
	DiscountPercentage float64   `json:"discountPercentage" binding:"required"`
	StartDate          time.Time `json:"startDate" binding:"required"`
	EndDate            time.Time `json:"endDate" binding:"required"`
}

// Add attaches a time-bounded discount window to a product.
func (h *DiscountHandler) Add(c *gin.Context) {
	var req addDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DiscountPercentage <= 0 || req.DiscountPercentage > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discount percentage must be between 0 and 100"})
		return
	}
	if !req.StartDate.Before(req.EndDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Start date must be before end date"})
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

	product.DiscountPercentage = req.DiscountPercentage
	product.StartDate = &req.StartDate
	product.EndDate = &req.EndDate

	if err := h.db.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply discount"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Discount applied", "data": product})
}

// Remove clears a product's discount window.
func (h *DiscountHandler) Remove(c *gin.Context) {
	id := c.Param("id")

	res := h.db.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"discount_percentage": 0,
		"start_date":          nil,
		"end_date":            nil,
	})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove discount"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
