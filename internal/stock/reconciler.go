// Package stock tracks understocked products on the manager side. The
// server-reported low-stock list is merged against a locally cached
// snapshot so products that already have a pending supplier order are not
// flagged again, and in-progress checkbox selections survive a refresh.
package stock

import (
	"sort"

	"storefront/internal/models"
)

// Item is a low-stock product plus its selection state on the restock
// screen.
type Item struct {
	Product models.Product `json:"product"`
	Checked bool           `json:"checked"`
}

// Reconcile merges the server-reported low-stock products with the cached
// list. Products already in the pending-order set are dropped from the
// server list first. If the filtered server set matches the cached set by
// id, the cached list is kept as is, selections included. Otherwise the
// result is the filtered server items followed by cached items the server
// no longer reports, all with a fresh unchecked flag. changed reports
// whether the caller must persist the returned list.
func Reconcile(server []models.Product, local, ordered []Item) (merged []Item, changed bool) {
	orderedIDs := idSet(ordered)
	filtered := make([]models.Product, 0, len(server))
	for _, p := range server {
		if _, ok := orderedIDs[p.ID]; !ok {
			filtered = append(filtered, p)
		}
	}

	if sameIDs(filtered, local) {
		return local, false
	}

	serverIDs := make(map[uint]struct{}, len(filtered))
	merged = make([]Item, 0, len(filtered)+len(local))
	for _, p := range filtered {
		serverIDs[p.ID] = struct{}{}
		merged = append(merged, Item{Product: p})
	}
	for _, it := range local {
		if _, ok := serverIDs[it.Product.ID]; !ok {
			merged = append(merged, Item{Product: it.Product})
		}
	}
	return merged, true
}

// SelectAll sets every item's checked flag uniformly.
func SelectAll(items []Item, checked bool) []Item {
	for i := range items {
		items[i].Checked = checked
	}
	return items
}

// SplitSelected partitions items into the checked ones, to become pending
// supplier orders, and the rest, which stay on the low-stock list.
func SplitSelected(items []Item) (selected, remaining []Item) {
	for _, it := range items {
		if it.Checked {
			selected = append(selected, it)
		} else {
			remaining = append(remaining, it)
		}
	}
	return selected, remaining
}

func idSet(items []Item) map[uint]struct{} {
	s := make(map[uint]struct{}, len(items))
	for _, it := range items {
		s[it.Product.ID] = struct{}{}
	}
	return s
}

// sameIDs compares the two sets by sorted id list, mirroring how the
// storefront decides whether its cached snapshot is stale.
func sameIDs(server []models.Product, local []Item) bool {
	if len(server) != len(local) {
		return false
	}
	a := make([]uint, 0, len(server))
	for _, p := range server {
		a = append(a, p.ID)
	}
	b := make([]uint, 0, len(local))
	for _, it := range local {
		b = append(b, it.Product.ID)
	}
	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
