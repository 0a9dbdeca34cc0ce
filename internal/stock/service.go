package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"storefront/internal/logger"
	"storefront/internal/models"
)

// ErrNothingSelected is returned when a restock submission carries no
// checked items or no positive quantities.
var ErrNothingSelected = errors.New("no products selected for ordering")

// Service runs the manager-side restock workflow: refresh the low-stock
// snapshot, move selected items into the pending-order list, and submit
// pending items to suppliers.
type Service struct {
	db        *gorm.DB
	cache     Cache
	threshold int
	log       *logger.Logger
}

func NewService(db *gorm.DB, cache Cache, threshold int, log *logger.Logger) *Service {
	return &Service{db: db, cache: cache, threshold: threshold, log: log}
}

// Refresh queries products at or below the low-stock threshold, reconciles
// them against the cached snapshot and returns the current list.
func (s *Service) Refresh(ctx context.Context) ([]Item, error) {
	var server []models.Product
	if err := s.db.WithContext(ctx).
		Where("quantity <= ? AND is_active = ?", s.threshold, true).
		Find(&server).Error; err != nil {
		return nil, fmt.Errorf("failed to query low-stock products: %w", err)
	}

	local, err := s.cache.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	ordered, err := s.cache.Pending(ctx)
	if err != nil {
		return nil, err
	}

	merged, changed := Reconcile(server, local, ordered)
	if changed {
		if err := s.cache.SaveLowStock(ctx, merged); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// SetAllChecked flips the select-all checkbox.
func (s *Service) SetAllChecked(ctx context.Context, checked bool) ([]Item, error) {
	items, err := s.cache.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	items = SelectAll(items, checked)
	if err := s.cache.SaveLowStock(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetChecked toggles one product's selection on the low-stock list.
func (s *Service) SetChecked(ctx context.Context, productID uint, checked bool) ([]Item, error) {
	items, err := s.cache.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Checked = checked
		}
	}
	if err := s.cache.SaveLowStock(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// MoveSelected moves the checked items from the low-stock list to the
// pending-order list. Unchecked items stay behind.
func (s *Service) MoveSelected(ctx context.Context) ([]Item, error) {
	items, err := s.cache.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	selected, remaining := SplitSelected(items)
	if len(selected) == 0 {
		return nil, ErrNothingSelected
	}

	pending, err := s.cache.Pending(ctx)
	if err != nil {
		return nil, err
	}
	pending = append(pending, SelectAll(selected, false)...)

	if err := s.cache.SavePending(ctx, pending); err != nil {
		return nil, err
	}
	if err := s.cache.SaveLowStock(ctx, remaining); err != nil {
		return nil, err
	}
	return pending, nil
}

// SendBack returns one pending product to the low-stock list, e.g. when
// the manager decides not to reorder it after all.
func (s *Service) SendBack(ctx context.Context, productID uint) error {
	pending, err := s.cache.Pending(ctx)
	if err != nil {
		return err
	}
	var moved *Item
	remaining := make([]Item, 0, len(pending))
	for _, it := range pending {
		if it.Product.ID == productID && moved == nil {
			moved = &Item{Product: it.Product}
			continue
		}
		remaining = append(remaining, it)
	}
	if moved == nil {
		return nil
	}

	low, err := s.cache.LowStock(ctx)
	if err != nil {
		return err
	}
	low = append(low, *moved)

	if err := s.cache.SavePending(ctx, remaining); err != nil {
		return err
	}
	return s.cache.SaveLowStock(ctx, low)
}

// Pending returns the pending-order list.
func (s *Service) Pending(ctx context.Context) ([]Item, error) {
	return s.cache.Pending(ctx)
}

// SubmitOrders turns the selected pending products into supplier order
// rows, grouped by supplier, and removes them from the pending list.
// quantities maps product id to the quantity to reorder; products without
// a positive quantity are skipped.
func (s *Service) SubmitOrders(ctx context.Context, productIDs []uint, quantities map[uint]int) ([]models.SupplierOrder, error) {
	pending, err := s.cache.Pending(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[uint]struct{}, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = struct{}{}
	}

	today := time.Now().Format("2006-01-02")
	var orders []models.SupplierOrder
	submitted := make(map[uint]struct{})
	for _, it := range pending {
		if _, ok := wanted[it.Product.ID]; !ok {
			continue
		}
		qty := quantities[it.Product.ID]
		if qty <= 0 {
			continue
		}
		orders = append(orders, models.SupplierOrder{
			Supplier:        it.Product.Supplier,
			SuppliedProduct: it.Product.Name,
			Quantity:        qty,
			TotalPrice:      float64(qty) * it.Product.Price,
			OrderDate:       today,
		})
		submitted[it.Product.ID] = struct{}{}
	}
	if len(orders) == 0 {
		return nil, ErrNothingSelected
	}

	if err := s.db.WithContext(ctx).Create(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to store supplier orders: %w", err)
	}

	remaining := make([]Item, 0, len(pending))
	for _, it := range pending {
		if _, ok := submitted[it.Product.ID]; !ok {
			remaining = append(remaining, it)
		}
	}
	if err := s.cache.SavePending(ctx, remaining); err != nil {
		s.log.Error("supplier orders stored but pending cache not updated: %v", err)
	}
	return orders, nil
}

// Flag adds a product to the cached low-stock list if it is not already
// tracked there or in the pending list. Used by the worker when an order
// drains stock below the threshold.
func (s *Service) Flag(ctx context.Context, product models.Product) error {
	low, err := s.cache.LowStock(ctx)
	if err != nil {
		return err
	}
	pending, err := s.cache.Pending(ctx)
	if err != nil {
		return err
	}
	for _, it := range append(low, pending...) {
		if it.Product.ID == product.ID {
			return nil
		}
	}
	low = append(low, Item{Product: product})
	return s.cache.SaveLowStock(ctx, low)
}

// Threshold is the stock level at or below which a product counts as low.
func (s *Service) Threshold() int {
	return s.threshold
}
