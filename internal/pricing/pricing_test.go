package pricing

import (
	"testing"
	"time"

	"storefront/internal/models"
)

func discounted(price, pct float64, start, end time.Time) *models.Product {
	return &models.Product{
		ID:                 1,
		Name:               "GPU-X",
		Price:              price,
		DiscountPercentage: pct,
		StartDate:          &start,
		EndDate:            &end,
	}
}

func TestEffectivePriceInsideWindow(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	p := discounted(100, 20, start, end)

	for _, asOf := range []time.Time{
		start,
		start.Add(time.Hour),
		end.Add(-time.Second),
	} {
		if got := EffectivePrice(p, asOf); got != 80 {
			t.Errorf("EffectivePrice at %v = %v, want 80", asOf, got)
		}
	}
}

func TestEffectivePriceOutsideWindow(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	p := discounted(100, 20, start, end)

	for _, asOf := range []time.Time{
		start.Add(-time.Second),
		end, // window is half-open: the discount ends at end exactly
		end.AddDate(0, 0, 1),
	} {
		if got := EffectivePrice(p, asOf); got != 100 {
			t.Errorf("EffectivePrice at %v = %v, want 100", asOf, got)
		}
	}
}

func TestEffectivePriceNoDiscountFields(t *testing.T) {
	now := time.Now()
	p := &models.Product{ID: 2, Name: "SSD", Price: 59.99}
	if got := EffectivePrice(p, now); got != 59.99 {
		t.Errorf("EffectivePrice = %v, want 59.99", got)
	}

	// A percentage without a window never applies.
	p.DiscountPercentage = 50
	if got := EffectivePrice(p, now); got != 59.99 {
		t.Errorf("EffectivePrice with windowless discount = %v, want 59.99", got)
	}
}

func TestEffectivePriceRoundsToCents(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := discounted(99.99, 33, start, end)

	// 99.99 * 0.67 = 66.9933
	if got := EffectivePrice(p, start.Add(time.Hour)); got != 66.99 {
		t.Errorf("EffectivePrice = %v, want 66.99", got)
	}
}

func TestPriceKnown(t *testing.T) {
	if PriceKnown(nil) {
		t.Error("PriceKnown(nil) = true, want false")
	}
	if PriceKnown(&models.Product{ID: 1}) {
		t.Error("PriceKnown with zero price = true, want false")
	}
	if !PriceKnown(&models.Product{ID: 1, Price: 10}) {
		t.Error("PriceKnown with price = false, want true")
	}
}

func TestEffectivePriceNilProduct(t *testing.T) {
	if got := EffectivePrice(nil, time.Now()); got != 0 {
		t.Errorf("EffectivePrice(nil) = %v, want 0", got)
	}
}
