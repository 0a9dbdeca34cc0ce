package models

import "time"

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// Order is a completed customer purchase. Items carry the unit price that
// was actually charged (the effective price at checkout time), not the
// catalog price at read time.
type Order struct {
	ID        uint        `json:"order_id" gorm:"primaryKey"`
	Reference string      `json:"reference" gorm:"unique"`
	UserID    uint        `json:"user_id" gorm:"not null"`
	Status    OrderStatus `json:"status" gorm:"default:processing"`
	Total     float64     `json:"total_price" gorm:"type:decimal(10,2)"`
	OrderDate time.Time   `json:"order_date"`
	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"order_id" gorm:"not null"`
	ProductID uint    `json:"product_id" gorm:"not null"`
	Name      string  `json:"name" gorm:"not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"price" gorm:"type:decimal(10,2)"`
}

// Cancelable reports whether the order may still be canceled by the
// customer. Shipped and delivered orders are past the point of no return.
func (o *Order) Cancelable() bool {
	return o.Status == OrderStatusProcessing
}
