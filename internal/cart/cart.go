// Package cart holds a customer's shopping cart: an ordered collection of
// product line items with quantity arithmetic and derived totals. One cart
// exists per browsing session and is persisted in Redis between requests.
package cart

import (
	"time"

	"storefront/internal/models"
	"storefront/internal/pricing"
)

// LineItem pairs a product snapshot with the quantity in the cart. The
// snapshot is taken when the item is added; stock checks against the live
// catalog happen in the HTTP layer, not here.
type LineItem struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart is an ordered list of line items, at most one per product id.
// Insertion order is preserved but carries no meaning for totals.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Totals are derived from the line items on every read and never stored.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Add puts quantity units of product into the cart. Adding to an existing
// line increments it; otherwise a new line is appended. A nil-ish product
// (zero id) or non-positive quantity is a no-op.
func (c *Cart) Add(product models.Product, quantity int) {
	if product.ID == 0 || quantity <= 0 {
		return
	}
	for i := range c.Items {
		if c.Items[i].Product.ID == product.ID {
			c.Items[i].Quantity += quantity
			return
		}
	}
	c.Items = append(c.Items, LineItem{Product: product, Quantity: quantity})
}

// UpdateQuantity adds delta to the line for productID, flooring the result
// at zero. A line that reaches zero is removed rather than kept empty.
// Unknown product ids are a no-op; out-of-range deltas never error.
func (c *Cart) UpdateQuantity(productID uint, delta int) {
	for i := range c.Items {
		if c.Items[i].Product.ID != productID {
			continue
		}
		q := c.Items[i].Quantity + delta
		if q <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
		c.Items[i].Quantity = q
		return
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// Quantity returns how many units of productID the cart holds, 0 if absent.
func (c *Cart) Quantity(productID uint) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return c.Items[i].Quantity
		}
	}
	return 0
}

// Empty reports whether the cart has no line items.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// ComputeTotals derives subtotal, tax and total using each line's effective
// price as of the given instant. taxRate is a percentage (10 means 10%).
func (c *Cart) ComputeTotals(taxRate float64, asOf time.Time) Totals {
	var subtotal float64
	for i := range c.Items {
		it := &c.Items[i]
		if !pricing.PriceKnown(&it.Product) {
			continue
		}
		subtotal += pricing.EffectivePrice(&it.Product, asOf) * float64(it.Quantity)
	}
	tax := subtotal * (taxRate / 100)
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal + tax}
}
