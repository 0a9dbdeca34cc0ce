package cart

import (
	"testing"
	"time"

	"storefront/internal/models"
)

func product(id uint, name string, price float64, stock int) models.Product {
	return models.Product{ID: id, Name: name, Price: price, Quantity: stock, IsActive: true}
}

func TestAddMergesSameProduct(t *testing.T) {
	var c Cart
	gpu := product(1, "GPU-X", 100, 5)

	c.Add(gpu, 2)
	c.Add(gpu, 1)

	if len(c.Items) != 1 {
		t.Fatalf("cart has %d lines, want 1", len(c.Items))
	}
	if c.Items[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", c.Items[0].Quantity)
	}
}

func TestAddIgnoresInvalidInput(t *testing.T) {
	var c Cart
	c.Add(product(1, "GPU-X", 100, 5), 0)
	c.Add(product(1, "GPU-X", 100, 5), -3)
	c.Add(models.Product{}, 2)

	if !c.Empty() {
		t.Errorf("cart has %d lines, want 0", len(c.Items))
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	var c Cart
	c.Add(product(2, "SSD", 50, 10), 1)
	c.Add(product(1, "GPU-X", 100, 5), 1)
	c.Add(product(3, "RAM", 30, 10), 1)

	want := []uint{2, 1, 3}
	for i, id := range want {
		if c.Items[i].Product.ID != id {
			t.Errorf("item %d has product %d, want %d", i, c.Items[i].Product.ID, id)
		}
	}
}

func TestUpdateQuantityFloorsAtZeroAndRemoves(t *testing.T) {
	var c Cart
	c.Add(product(1, "GPU-X", 100, 5), 2)

	c.UpdateQuantity(1, -1)
	if q := c.Quantity(1); q != 1 {
		t.Errorf("quantity = %d, want 1", q)
	}

	// Over-decrementing clamps to zero and drops the line entirely.
	c.UpdateQuantity(1, -10)
	if !c.Empty() {
		t.Errorf("cart has %d lines, want 0", len(c.Items))
	}
	if q := c.Quantity(1); q != 0 {
		t.Errorf("quantity after removal = %d, want 0", q)
	}
}

func TestUpdateQuantityAccumulates(t *testing.T) {
	var c Cart
	c.Add(product(1, "GPU-X", 100, 50), 1)

	c.UpdateQuantity(1, 2)
	c.UpdateQuantity(1, 2)
	if q := c.Quantity(1); q != 5 {
		t.Errorf("quantity = %d, want 5", q)
	}

	c.UpdateQuantity(1, 0)
	if q := c.Quantity(1); q != 5 {
		t.Errorf("quantity after zero delta = %d, want 5", q)
	}
}

func TestUpdateQuantityUnknownProductIsNoop(t *testing.T) {
	var c Cart
	c.Add(product(1, "GPU-X", 100, 5), 2)
	c.UpdateQuantity(99, 3)

	if len(c.Items) != 1 || c.Quantity(1) != 2 {
		t.Errorf("cart changed by update of unknown product: %+v", c.Items)
	}
}

func TestNoDuplicateLinesNoZeroQuantities(t *testing.T) {
	var c Cart
	gpu := product(1, "GPU-X", 100, 50)
	ssd := product(2, "SSD", 50, 50)

	c.Add(gpu, 1)
	c.Add(ssd, 2)
	c.Add(gpu, 3)
	c.UpdateQuantity(2, -2)
	c.Add(ssd, 1)
	c.UpdateQuantity(1, -1)

	seen := map[uint]bool{}
	for _, it := range c.Items {
		if seen[it.Product.ID] {
			t.Errorf("duplicate line for product %d", it.Product.ID)
		}
		seen[it.Product.ID] = true
		if it.Quantity <= 0 {
			t.Errorf("line for product %d has quantity %d", it.Product.ID, it.Quantity)
		}
	}
}

func TestComputeTotals(t *testing.T) {
	var c Cart
	c.Add(product(1, "GPU-X", 100, 5), 2)

	totals := c.ComputeTotals(10, time.Now())
	if totals.Subtotal != 200 {
		t.Errorf("subtotal = %v, want 200", totals.Subtotal)
	}
	if totals.Tax != 20 {
		t.Errorf("tax = %v, want 20", totals.Tax)
	}
	if totals.Total != 220 {
		t.Errorf("total = %v, want 220", totals.Total)
	}
}

func TestComputeTotalsUsesEffectivePrice(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	p := product(1, "GPU-X", 100, 5)
	p.DiscountPercentage = 20
	p.StartDate = &start
	p.EndDate = &end

	var c Cart
	c.Add(p, 2)

	inside := c.ComputeTotals(0, start.Add(time.Hour))
	if inside.Subtotal != 160 {
		t.Errorf("discounted subtotal = %v, want 160", inside.Subtotal)
	}

	outside := c.ComputeTotals(0, end.AddDate(0, 0, 1))
	if outside.Subtotal != 200 {
		t.Errorf("post-window subtotal = %v, want 200", outside.Subtotal)
	}
}

func TestComputeTotalsSkipsUnknownPrices(t *testing.T) {
	var c Cart
	c.Add(models.Product{ID: 1, Name: "mystery"}, 2)
	c.Add(product(2, "SSD", 50, 10), 1)

	totals := c.ComputeTotals(10, time.Now())
	if totals.Subtotal != 50 {
		t.Errorf("subtotal = %v, want 50", totals.Subtotal)
	}
}

func TestComputeTotalsInvariant(t *testing.T) {
	var c Cart
	c.Add(product(1, "GPU-X", 99.99, 5), 3)
	c.Add(product(2, "SSD", 49.50, 10), 2)

	totals := c.ComputeTotals(8.25, time.Now())
	if got, want := totals.Total, totals.Subtotal+totals.Tax; got != want {
		t.Errorf("total = %v, want subtotal+tax = %v", got, want)
	}
	if got, want := totals.Tax, totals.Subtotal*8.25/100; got != want {
		t.Errorf("tax = %v, want %v", got, want)
	}
}
