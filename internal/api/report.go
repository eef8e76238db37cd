package api

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// trendDateLayout renders trend dates as plain calendar days, matching
// the day grouping in the store.
const trendDateLayout = "2006-01-02"

// GetOverviewStats returns the dashboard headline figures. Reports are
// pure reads and deliberately bypass the listing cache.
func (h *Handler) GetOverviewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Overview(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("totalRevenue", func(e *jx.Encoder) { encodeDecimal(e, stats.TotalRevenue) })
			e.Field("totalOrders", func(e *jx.Encoder) { e.Int64(stats.TotalOrders) })
			e.Field("totalCustomers", func(e *jx.Encoder) { e.Int64(stats.TotalCustomers) })
			e.Field("averageOrderValue", func(e *jx.Encoder) { encodeDecimal(e, stats.AverageOrderValue) })
		})
	})
}

// GetSalesTrends returns per-day revenue and order counts for the
// trailing 30 days, chronologically ascending.
func (h *Handler) GetSalesTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.reports.SalesTrends(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, p := range trends {
				e.Obj(func(e *jx.Encoder) {
					e.Field("date", func(e *jx.Encoder) { e.Str(p.Date.Format(trendDateLayout)) })
					e.Field("revenue", func(e *jx.Encoder) { encodeDecimal(e, p.Revenue) })
					e.Field("orderCount", func(e *jx.Encoder) { e.Int64(p.OrderCount) })
				})
			}
		})
	})
}

// GetBestSellingProducts returns the top products by revenue, descending.
func (h *Handler) GetBestSellingProducts(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.reports.BestSellers(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, s := range sellers {
				e.Obj(func(e *jx.Encoder) {
					e.Field("id", func(e *jx.Encoder) { e.Int64(s.ID) })
					e.Field("name", func(e *jx.Encoder) { e.Str(s.Name) })
					e.Field("totalRevenue", func(e *jx.Encoder) { encodeDecimal(e, s.TotalRevenue) })
					e.Field("totalQuantity", func(e *jx.Encoder) { e.Int64(s.TotalQuantity) })
					e.Field("stock", func(e *jx.Encoder) { e.Int64(s.Stock) })
					e.Field("price", func(e *jx.Encoder) { e.Int64(s.Price) })
				})
			}
		})
	})
}

// GetLowStockProducts returns products at or below the low-stock
// threshold, most depleted first.
func (h *Handler) GetLowStockProducts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.reports.LowStock(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, a := range alerts {
				e.Obj(func(e *jx.Encoder) {
					e.Field("id", func(e *jx.Encoder) { e.Int64(a.ID) })
					e.Field("name", func(e *jx.Encoder) { e.Str(a.Name) })
					e.Field("stock", func(e *jx.Encoder) { e.Int64(a.Stock) })
					e.Field("price", func(e *jx.Encoder) { e.Int64(a.Price) })
				})
			}
		})
	})
}

// encodeDecimal writes a decimal as a raw JSON number.
func encodeDecimal(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.String()))
}
