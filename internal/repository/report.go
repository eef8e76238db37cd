package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/shopdesk/internal/domain/report"
)

// Aggregate sums over BIGINT come back as NUMERIC; the pool registers
// shopspring/decimal support so they scan into decimal.Decimal directly.
const (
	orderTotalsSQL = `SELECT COALESCE(SUM(total_amount), 0), COUNT(id) FROM orders`

	customerCountSQL = `SELECT COUNT(id) FROM customers`

	salesTrendsSQL = `SELECT (created_at AT TIME ZONE 'UTC')::date AS day,
			SUM(total_amount), COUNT(id)
		FROM orders
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day ASC`

	bestSellersSQL = `SELECT p.id, p.name, SUM(o.total_amount) AS revenue,
			SUM(o.quantity), p.stock, p.price
		FROM orders o
		INNER JOIN products p ON o.product_id = p.id
		GROUP BY p.id, p.name, p.stock, p.price
		ORDER BY revenue DESC
		LIMIT $1`

	lowStockSQL = `SELECT id, name, stock, price
		FROM products
		WHERE stock <= $1
		ORDER BY stock ASC`
)

var _ report.Source = (*ReportRepository)(nil)

// ReportRepository implements report.Source with read-only aggregate
// queries. None of its operations mutate state; they run at the store's
// default isolation and may observe in-flight writes.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository returns a ReportRepository that uses the given pool.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// OrderTotals returns the revenue sum and row count over all orders.
func (r *ReportRepository) OrderTotals(ctx context.Context) (report.OrderTotals, error) {
	var t report.OrderTotals
	err := r.pool.QueryRow(ctx, orderTotalsSQL).Scan(&t.Revenue, &t.Count)
	if err != nil {
		return report.OrderTotals{}, fmt.Errorf("order totals: %w", err)
	}
	return t, nil
}

// CustomerCount returns the number of customer rows.
func (r *ReportRepository) CustomerCount(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, customerCountSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("customer count: %w", err)
	}
	return n, nil
}

// SalesTrends groups orders created at or after since by UTC calendar
// day, ascending. Days with no orders produce no row.
func (r *ReportRepository) SalesTrends(ctx context.Context, since time.Time) ([]report.TrendPoint, error) {
	rows, err := r.pool.Query(ctx, salesTrendsSQL, since)
	if err != nil {
		return nil, fmt.Errorf("sales trends: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.TrendPoint, error) {
		var p report.TrendPoint
		err := row.Scan(&p.Date, &p.Revenue, &p.OrderCount)
		return p, err
	})
}

// BestSellers returns per-product revenue and quantity sums, highest
// revenue first, capped at limit. The inner join excludes products that
// have never been ordered.
func (r *ReportRepository) BestSellers(ctx context.Context, limit int) ([]report.ProductSales, error) {
	rows, err := r.pool.Query(ctx, bestSellersSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("best sellers: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.ProductSales, error) {
		var ps report.ProductSales
		err := row.Scan(&ps.ID, &ps.Name, &ps.TotalRevenue, &ps.TotalQuantity, &ps.Stock, &ps.Price)
		return ps, err
	})
}

// LowStock returns products with stock at or below threshold, most
// depleted first.
func (r *ReportRepository) LowStock(ctx context.Context, threshold int64) ([]report.StockAlert, error) {
	rows, err := r.pool.Query(ctx, lowStockSQL, threshold)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (report.StockAlert, error) {
		var a report.StockAlert
		err := row.Scan(&a.ID, &a.Name, &a.Stock, &a.Price)
		return a, err
	})
}
