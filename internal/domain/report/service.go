package report

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopdesk/internal/domain/product"
)

// Service produces the dashboard reports from a Source. It owns the
// derived arithmetic (average order value) and the report parameters
// (window, limits, thresholds); the Source owns the grouping.
type Service struct {
	source Source
	now    func() time.Time
}

// NewService creates a report Service reading from the given Source.
func NewService(source Source) *Service {
	return &Service{
		source: source,
		now:    time.Now,
	}
}

// Overview returns total revenue, order and customer counts, and the
// average order value. With zero orders the average is zero, never a
// division error.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	totals, err := s.source.OrderTotals(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "order totals")
	}
	customers, err := s.source.CustomerCount(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "customer count")
	}

	avg := decimal.Zero
	if totals.Count > 0 {
		avg = totals.Revenue.Div(decimal.NewFromInt(totals.Count)).Round(2)
	}

	return &Overview{
		TotalRevenue:      totals.Revenue,
		TotalOrders:       totals.Count,
		TotalCustomers:    customers,
		AverageOrderValue: avg,
	}, nil
}

// SalesTrends returns per-day revenue and order counts for the trailing
// 30 days, chronologically ascending. Day grouping uses UTC boundaries.
func (s *Service) SalesTrends(ctx context.Context) ([]TrendPoint, error) {
	since := s.now().UTC().Add(-TrendWindow)
	trends, err := s.source.SalesTrends(ctx, since)
	if err != nil {
		return nil, errors.Wrap(err, "sales trends")
	}
	return trends, nil
}

// BestSellers returns the top products by total revenue, descending.
// Products with no orders never appear.
func (s *Service) BestSellers(ctx context.Context) ([]ProductSales, error) {
	sellers, err := s.source.BestSellers(ctx, BestSellerLimit)
	if err != nil {
		return nil, errors.Wrap(err, "best sellers")
	}
	return sellers, nil
}

// LowStock returns products at or below the low-stock threshold, most
// depleted first.
func (s *Service) LowStock(ctx context.Context) ([]StockAlert, error) {
	alerts, err := s.source.LowStock(ctx, product.LowStockThreshold)
	if err != nil {
		return nil, errors.Wrap(err, "low stock")
	}
	return alerts, nil
}
