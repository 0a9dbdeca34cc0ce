package models

import "time"

// Product is a catalog entry for a piece of computer hardware. The discount
// fields are only meaningful together: a product is discounted when
// DiscountPercentage is set and the evaluation instant falls inside
// [StartDate, EndDate).
type Product struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	Name               string     `json:"product_name" gorm:"column:product_name;not null"`
	Description        string     `json:"description"`
	Price              float64    `json:"price" gorm:"type:decimal(10,2)"`
	Quantity           int        `json:"quantity" gorm:"not null;default:0"`
	Category           string     `json:"category_name" gorm:"column:category_name"`
	Memory             string     `json:"memory"`
	Type               string     `json:"type"`
	Supplier           string     `json:"supplier"`
	ImagePath          string     `json:"image_path"`
	IsActive           bool       `json:"is_active" gorm:"default:true"`
	DiscountPercentage float64    `json:"discount_percentage"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Discounted reports whether the product's discount window covers asOf.
// The window is half-open: the discount stops applying at EndDate exactly.
func (p *Product) Discounted(asOf time.Time) bool {
	if p.DiscountPercentage <= 0 || p.StartDate == nil || p.EndDate == nil {
		return false
	}
	return !asOf.Before(*p.StartDate) && asOf.Before(*p.EndDate)
}
