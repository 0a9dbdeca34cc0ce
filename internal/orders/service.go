// Package orders persists customer orders and implements the order-side
// collaborators of the checkout flow.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/checkout"
	"storefront/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Place writes the order and its lines and decrements stock, all in one
// transaction. Insufficient stock or a missing product is a business
// rejection with a customer-readable message; the transaction rolls back.
func (s *Service) Place(ctx context.Context, userID uint, lines []checkout.Line, payment checkout.PaymentDetails) (uint, string, error) {
	if len(lines) == 0 {
		return 0, "", &checkout.Rejection{Message: "order has no items"}
	}

	order := models.Order{
		Reference: uuid.NewString(),
		UserID:    userID,
		Status:    models.OrderStatusProcessing,
		OrderDate: time.Now().UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total float64
		for _, line := range lines {
			var p models.Product
			if err := tx.First(&p, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &checkout.Rejection{Message: fmt.Sprintf("product %q is no longer available", line.Name)}
				}
				return fmt.Errorf("failed to load product %d: %w", line.ProductID, err)
			}
			if p.Quantity < line.Quantity {
				return &checkout.Rejection{Message: fmt.Sprintf("only %d of %q left in stock", p.Quantity, p.Name)}
			}
			if err := tx.Model(&p).Update("quantity", p.Quantity-line.Quantity).Error; err != nil {
				return fmt.Errorf("failed to decrement stock for %d: %w", p.ID, err)
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: line.ProductID,
				Name:      line.Name,
				Quantity:  line.Quantity,
				UnitPrice: line.Price,
			})
			total += line.Price * float64(line.Quantity)
		}
		order.Total = total
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return s.storePayment(tx, order.ID, payment)
	})
	if err != nil {
		return 0, "", err
	}
	return order.ID, order.Reference, nil
}

// storePayment keeps the raw capture payload next to the order for audit.
func (s *Service) storePayment(tx *gorm.DB, orderID uint, payment checkout.PaymentDetails) error {
	if len(payment) == 0 {
		return nil
	}
	data, err := json.Marshal(payment)
	if err != nil {
		return fmt.Errorf("failed to encode payment details: %w", err)
	}
	rec := paymentRecord{OrderID: orderID, Details: string(data)}
	if err := tx.Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to store payment details: %w", err)
	}
	return nil
}

type paymentRecord struct {
	ID      uint   `gorm:"primaryKey"`
	OrderID uint   `gorm:"not null"`
	Details string `gorm:"type:text"`
}

func (paymentRecord) TableName() string { return "order_payments" }

// ListByUser returns a customer's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var out []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return out, nil
}

// List returns every order for the manager console.
func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("order_date DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// Cancel marks a processing order canceled and returns its stock to the
// catalog. Orders already shipped, delivered or canceled are refused with
// a business rejection.
func (s *Service) Cancel(ctx context.Context, orderID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order: %w", err)
		}
		if !order.Cancelable() {
			return &checkout.Rejection{Message: fmt.Sprintf("order is %s and can no longer be canceled", order.Status)}
		}
		for _, it := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", it.ProductID).
				Update("quantity", gorm.Expr("quantity + ?", it.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to restore stock for %d: %w", it.ProductID, err)
			}
		}
		return tx.Model(&order).Update("status", models.OrderStatusCanceled).Error
	})
}

// SetStatus updates an order's fulfillment status from the manager
// console.
func (s *Service) SetStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	res := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
