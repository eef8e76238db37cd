package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TrendWindow is the trailing period covered by the sales trend report.
const TrendWindow = 30 * 24 * time.Hour

// BestSellerLimit caps the best-selling products report.
const BestSellerLimit = 10

// Overview holds the dashboard headline figures. Revenue sums are carried
// as decimals because the store promotes BIGINT aggregates to NUMERIC;
// AverageOrderValue is the one genuinely fractional figure and is rounded
// to two decimal places.
type Overview struct {
	TotalRevenue      decimal.Decimal
	TotalOrders       int64
	TotalCustomers    int64
	AverageOrderValue decimal.Decimal
}

// TrendPoint is the aggregate for one calendar day with at least one
// order. Date is the UTC day boundary; days without orders do not appear.
type TrendPoint struct {
	Date       time.Time
	Revenue    decimal.Decimal
	OrderCount int64
}

// ProductSales is a product's aggregate sales figures for the best-seller
// report.
type ProductSales struct {
	ID            int64
	Name          string
	TotalRevenue  decimal.Decimal
	TotalQuantity int64
	Stock         int64
	Price         int64
}

// StockAlert is a product at or below the low-stock threshold.
type StockAlert struct {
	ID    int64
	Name  string
	Stock int64
	Price int64
}

// OrderTotals holds the whole-table order aggregates for the overview.
type OrderTotals struct {
	Revenue decimal.Decimal
	Count   int64
}

// Source defines the read-only aggregate queries the reports run on.
// All operations are pure reads with no isolation guarantee stronger
// than the store's default.
type Source interface {
	OrderTotals(ctx context.Context) (OrderTotals, error)
	CustomerCount(ctx context.Context) (int64, error)
	SalesTrends(ctx context.Context, since time.Time) ([]TrendPoint, error)
	BestSellers(ctx context.Context, limit int) ([]ProductSales, error)
	LowStock(ctx context.Context, threshold int64) ([]StockAlert, error)
}
