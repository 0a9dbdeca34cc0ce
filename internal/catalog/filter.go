// Package catalog filters, searches and paginates product lists for the
// public storefront. Everything here is pure: products in, products out.
package catalog

import (
	"strings"

	"storefront/internal/models"
)

// PageSize is the number of products shown per page on the public catalog.
const PageSize = 9

// Facets are the sidebar filters. Within one facet the selected values are
// OR-combined; across facets they are AND-combined. An empty facet passes
// every product.
type Facets struct {
	Category string
	Memory   []string
	Types    []string
	Search   string
}

// ActiveOnly keeps only products customers are allowed to see. Applied once
// at fetch time, independent of facet selection.
func ActiveOnly(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out
}

// Apply returns the products matching every facet. The free-text search is
// a case-insensitive substring match on the product name, nothing fancier.
func Apply(products []models.Product, f Facets) []models.Product {
	search := strings.ToLower(f.Search)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if !matchesAny(p.Memory, f.Memory) {
			continue
		}
		if !matchesAny(p.Type, f.Types) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// TotalPages returns how many pages a list of n products spans at the given
// page size. Zero products means zero pages.
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// Page slices out the 1-indexed page of the given size. Requests outside
// the valid range return an empty slice; callers wanting to clamp should
// consult TotalPages first.
func Page(products []models.Product, page, pageSize int) []models.Product {
	if page < 1 || pageSize <= 0 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(products) {
		return nil
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

func matchesAny(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if value == s {
			return true
		}
	}
	return false
}
