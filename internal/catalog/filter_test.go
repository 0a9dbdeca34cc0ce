package catalog

import (
	"testing"

	"storefront/internal/models"
)

var sample = []models.Product{
	{ID: 1, Name: "ThinkBook 14", Category: "Laptops", Memory: "16GB", Type: "LENOVO", IsActive: true},
	{ID: 2, Name: "Aspire 5", Category: "Laptops", Memory: "8GB", Type: "ACER", IsActive: true},
	{ID: 3, Name: "MacBook Air", Category: "Laptops", Memory: "16GB", Type: "APPLE", IsActive: true},
	{ID: 4, Name: "Katana Gaming", Category: "Laptops", Memory: "32GB", Type: "MSI", IsActive: false},
	{ID: 5, Name: "GPU-X", Category: "Components", Memory: "", Type: "", IsActive: true},
}

func ids(products []models.Product) []uint {
	out := make([]uint, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestActiveOnly(t *testing.T) {
	got := ActiveOnly(sample)
	if len(got) != 4 {
		t.Fatalf("ActiveOnly kept %d products, want 4", len(got))
	}
	for _, p := range got {
		if !p.IsActive {
			t.Errorf("inactive product %d passed ActiveOnly", p.ID)
		}
	}
}

func TestApplyEmptyFacetsPassEverything(t *testing.T) {
	got := Apply(sample, Facets{})
	if len(got) != len(sample) {
		t.Errorf("empty facets kept %d products, want %d", len(got), len(sample))
	}
}

func TestApplyFacetsAndCombined(t *testing.T) {
	got := Apply(sample, Facets{
		Category: "Laptops",
		Memory:   []string{"16GB"},
		Types:    []string{"LENOVO", "APPLE"},
	})
	want := []uint{1, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v, want ids %v", ids(got), want)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("got %v, want ids %v", ids(got), want)
		}
	}
}

func TestApplyFacetValuesOrCombined(t *testing.T) {
	got := Apply(sample, Facets{Memory: []string{"8GB", "32GB"}})
	want := []uint{2, 4}
	if len(got) != len(want) || got[0].ID != want[0] || got[1].ID != want[1] {
		t.Errorf("got %v, want ids %v", ids(got), want)
	}
}

func TestApplySearchIsCaseInsensitiveSubstring(t *testing.T) {
	got := Apply(sample, Facets{Search: "book"})
	want := []uint{1, 3}
	if len(got) != len(want) || got[0].ID != want[0] || got[1].ID != want[1] {
		t.Errorf("got %v, want ids %v", ids(got), want)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		n, size, want int
	}{
		{0, 9, 0},
		{1, 9, 1},
		{9, 9, 1},
		{10, 9, 2},
		{18, 9, 2},
		{19, 9, 3},
	}
	for _, tc := range cases {
		if got := TotalPages(tc.n, tc.size); got != tc.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tc.n, tc.size, got, tc.want)
		}
	}
}

func TestPage(t *testing.T) {
	products := make([]models.Product, 20)
	for i := range products {
		products[i] = models.Product{ID: uint(i + 1)}
	}

	first := Page(products, 1, 9)
	if len(first) != 9 || first[0].ID != 1 {
		t.Errorf("page 1 = %v", ids(first))
	}

	last := Page(products, 3, 9)
	if len(last) != 2 || last[0].ID != 19 {
		t.Errorf("page 3 = %v", ids(last))
	}

	if got := Page(products, 4, 9); len(got) != 0 {
		t.Errorf("out-of-range page returned %v", ids(got))
	}
	if got := Page(products, 0, 9); len(got) != 0 {
		t.Errorf("page 0 returned %v", ids(got))
	}
}
