package stock

import (
	"testing"

	"storefront/internal/models"
)

func prod(id uint, name string) models.Product {
	return models.Product{ID: id, Name: name}
}

func itemIDs(items []Item) []uint {
	out := make([]uint, len(items))
	for i, it := range items {
		out[i] = it.Product.ID
	}
	return out
}

func TestReconcileMergesServerAndLocal(t *testing.T) {
	server := []models.Product{prod(1, "A"), prod(2, "B"), prod(3, "C")}
	local := []Item{{Product: prod(3, "C"), Checked: true}, {Product: prod(4, "D")}}
	ordered := []Item{{Product: prod(2, "B")}}

	merged, changed := Reconcile(server, local, ordered)
	if !changed {
		t.Fatal("Reconcile reported no change")
	}

	want := []uint{1, 3, 4}
	got := itemIDs(merged)
	if len(got) != len(want) {
		t.Fatalf("merged ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("merged ids = %v, want %v", got, want)
		}
	}

	// A merge resets every selection.
	for _, it := range merged {
		if it.Checked {
			t.Errorf("product %d is checked after merge", it.Product.ID)
		}
	}
}

func TestReconcileKeepsLocalWhenSetsMatch(t *testing.T) {
	server := []models.Product{prod(2, "B"), prod(1, "A")}
	local := []Item{{Product: prod(1, "A"), Checked: true}, {Product: prod(2, "B")}}

	merged, changed := Reconcile(server, local, nil)
	if changed {
		t.Fatal("Reconcile reported a change for matching sets")
	}
	// In-progress selections survive.
	if !merged[0].Checked {
		t.Error("selection lost on refresh")
	}
}

func TestReconcileDropsAlreadyOrdered(t *testing.T) {
	server := []models.Product{prod(1, "A")}
	ordered := []Item{{Product: prod(1, "A")}}

	merged, changed := Reconcile(server, nil, ordered)
	if !changed && len(merged) != 0 {
		t.Errorf("merged = %v, want empty", itemIDs(merged))
	}
	for _, it := range merged {
		if it.Product.ID == 1 {
			t.Error("already-ordered product re-flagged")
		}
	}
}

func TestSelectAll(t *testing.T) {
	items := []Item{{Product: prod(1, "A")}, {Product: prod(2, "B"), Checked: true}}

	items = SelectAll(items, true)
	for _, it := range items {
		if !it.Checked {
			t.Errorf("product %d not checked", it.Product.ID)
		}
	}

	items = SelectAll(items, false)
	for _, it := range items {
		if it.Checked {
			t.Errorf("product %d still checked", it.Product.ID)
		}
	}
}

func TestSplitSelected(t *testing.T) {
	items := []Item{
		{Product: prod(1, "A"), Checked: true},
		{Product: prod(2, "B")},
		{Product: prod(3, "C"), Checked: true},
	}

	selected, remaining := SplitSelected(items)
	if len(selected) != 2 || selected[0].Product.ID != 1 || selected[1].Product.ID != 3 {
		t.Errorf("selected = %v", itemIDs(selected))
	}
	if len(remaining) != 1 || remaining[0].Product.ID != 2 {
		t.Errorf("remaining = %v", itemIDs(remaining))
	}
}
