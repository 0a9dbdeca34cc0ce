package processors

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/stock"
)

// Restock reacts to completed orders: any product whose remaining stock
// fell to or below the threshold gets flagged onto the manager's low-stock
// list.
type Restock struct {
	db     *gorm.DB
	stocks *stock.Service
	logger *logger.Logger
}

func NewRestock(db *gorm.DB, stocks *stock.Service, logger *logger.Logger) *Restock {
	return &Restock{db: db, stocks: stocks, logger: logger}
}

func (r *Restock) Process(ctx context.Context, event events.Event) error {
	if event.Type != events.TypeOrderCompleted {
		r.logger.Debug("Ignoring event type %s", event.Type)
		return nil
	}

	for _, line := range event.Lines {
		var p models.Product
		if err := r.db.WithContext(ctx).First(&p, line.ProductID).Error; err != nil {
			return fmt.Errorf("failed to load product %d: %w", line.ProductID, err)
		}
		if p.Quantity > r.stocks.Threshold() {
			continue
		}
		if err := r.stocks.Flag(ctx, p); err != nil {
			return fmt.Errorf("failed to flag product %d as low stock: %w", p.ID, err)
		}
		r.logger.Info("Flagged %q as low stock (%d left)", p.Name, p.Quantity)
	}
	return nil
}
