// Package pricing computes the price a customer actually pays for a
// product, taking any time-bounded discount into account.
package pricing

import (
	"math"
	"time"

	"storefront/internal/models"
)

// EffectivePrice returns the unit price of p as of the given instant. When
// the product carries a discount and asOf lies within [StartDate, EndDate),
// the discounted price is returned rounded to 2 decimal places; otherwise
// the listed price is returned unchanged.
func EffectivePrice(p *models.Product, asOf time.Time) float64 {
	if p == nil {
		return 0
	}
	if p.Discounted(asOf) {
		return round2(p.Price * (1 - p.DiscountPercentage/100))
	}
	return p.Price
}

// PriceKnown reports whether p carries a usable price. A product with a
// zero or negative listed price has an unknown price; callers must treat it
// as such rather than charging nothing.
func PriceKnown(p *models.Product) bool {
	return p != nil && p.Price > 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
