// Package analytics serves the manager dashboard charts with aggregate
// queries over the raw SQL connection.
package analytics

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

// New opens a plain database/sql connection for aggregate queries. The
// ORM connection stays dedicated to CRUD.
func New(databaseURL string) (*Repository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open analytics connection: %w", err)
	}
	return &Repository{db: db}, nil
}

// NewWithDB wraps an existing connection, e.g. the test database.
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// CategorySales is one pie chart slice: revenue per product category.
type CategorySales struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Units    int     `json:"units"`
}

// StatusCount is one bar: number of orders per fulfillment status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// SalesByCategory sums revenue and units sold per category over completed
// orders, skipping canceled ones.
func (r *Repository) SalesByCategory(ctx context.Context) ([]CategorySales, error) {
	const q = `
		SELECT p.category_name, SUM(oi.unit_price * oi.quantity), SUM(oi.quantity)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.status <> 'canceled'
		GROUP BY p.category_name
		ORDER BY 2 DESC`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales by category: %w", err)
	}
	defer rows.Close()

	var out []CategorySales
	for rows.Next() {
		var cs CategorySales
		if err := rows.Scan(&cs.Category, &cs.Revenue, &cs.Units); err != nil {
			return nil, fmt.Errorf("failed to scan sales row: %w", err)
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// OrdersByStatus counts orders per status for the dashboard bar chart.
func (r *Repository) OrdersByStatus(ctx context.Context) ([]StatusCount, error) {
	const q = `
		SELECT status, COUNT(*)
		FROM orders
		GROUP BY status
		ORDER BY status`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by status: %w", err)
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
