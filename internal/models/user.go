package models

import "time"

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"unique;not null"`
	IsManager bool      `json:"is_manager" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a customer-to-store contact message shown in the manager
// console.
type Message struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"not null"`
	Body      string    `json:"body" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TaxSetting is the single store-wide tax rate, in percent. There is one
// row; updates overwrite it.
type TaxSetting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Rate      float64   `json:"tax_rate" gorm:"type:decimal(5,2);not null"`
	UpdatedAt time.Time `json:"updated_at"`
}
