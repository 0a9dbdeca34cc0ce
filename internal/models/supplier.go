package models

import "time"

type Supplier struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"unique;not null"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupplierOrder is one restock line submitted to a supplier from the
// manager's pending-order screen.
type SupplierOrder struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Supplier        string    `json:"supplier" gorm:"not null"`
	SuppliedProduct string    `json:"supplied_product" gorm:"not null"`
	Quantity        int       `json:"quantity" gorm:"not null"`
	TotalPrice      float64   `json:"total_price" gorm:"type:decimal(10,2)"`
	OrderDate       string    `json:"order_date"`
	CreatedAt       time.Time `json:"created_at"`
}
