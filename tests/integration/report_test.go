//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestOverviewStats_CountsAndAverage(t *testing.T) {
	p := createProduct(t, "Overview Widget", 1000, 100)
	c := createCustomer(t, "Wes", "wes@example.com")

	before := getOverview(t)

	for _, qty := range []int64{1, 3} {
		resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
			"customerId": c.ID, "productId": p.ID, "quantity": qty,
		})
		resp.Body.Close()
	}

	after := getOverview(t)

	if got := after.TotalOrders - before.TotalOrders; got != 2 {
		t.Errorf("order delta: got %d, want 2", got)
	}
	if got := after.TotalRevenue - before.TotalRevenue; got != 4000 {
		t.Errorf("revenue delta: got %v, want 4000", got)
	}
	if after.TotalOrders > 0 && after.AverageOrderValue <= 0 {
		t.Errorf("average order value should be positive, got %v", after.AverageOrderValue)
	}
}

func TestSalesTrends_AscendingDays(t *testing.T) {
	p := createProduct(t, "Trend Widget", 700, 50)
	c := createCustomer(t, "Xia", "xia@example.com")

	resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
		"customerId": c.ID, "productId": p.ID, "quantity": 1,
	})
	resp.Body.Close()

	resp = doGet(t, "/reports/sales-trends")
	defer resp.Body.Close()
	trends := decodeJSON[[]trendResponse](t, resp)

	if len(trends) == 0 {
		t.Fatal("expected at least one trend day after creating an order")
	}
	for i := 1; i < len(trends); i++ {
		if trends[i].Date <= trends[i-1].Date {
			t.Errorf("trend days not strictly ascending: %s then %s", trends[i-1].Date, trends[i].Date)
		}
	}
	for _, tr := range trends {
		if tr.OrderCount == 0 {
			t.Errorf("day %s has zero orders but appears in the trend", tr.Date)
		}
	}
}

func TestBestSellers_DescendingRevenueCapped(t *testing.T) {
	c := createCustomer(t, "Yan", "yan@example.com")

	// A product with heavy sales should appear; an untouched one must not.
	hot := createProduct(t, "Hot Item", 2000, 100)
	cold := createProduct(t, "Cold Item", 2000, 100)

	resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
		"customerId": c.ID, "productId": hot.ID, "quantity": 5,
	})
	resp.Body.Close()

	resp = doGet(t, "/reports/best-sellers")
	defer resp.Body.Close()
	sellers := decodeJSON[[]bestSellerResponse](t, resp)

	if len(sellers) > 10 {
		t.Errorf("got %d best sellers, want at most 10", len(sellers))
	}
	for i := 1; i < len(sellers); i++ {
		if sellers[i].TotalRevenue > sellers[i-1].TotalRevenue {
			t.Errorf("best sellers not descending by revenue at index %d", i)
		}
	}

	foundHot, foundCold := false, false
	for _, s := range sellers {
		if s.ID == hot.ID {
			foundHot = true
		}
		if s.ID == cold.ID {
			foundCold = true
		}
	}
	if !foundHot && len(sellers) < 10 {
		t.Error("product with sales missing from best sellers")
	}
	if foundCold {
		t.Error("product with no orders must not appear in best sellers")
	}
}

func TestLowStock_ThresholdAndOrder(t *testing.T) {
	low := createProduct(t, "Low Stock Item", 300, 2)
	createProduct(t, "High Stock Item", 300, 500)

	resp := doGet(t, "/reports/low-stock")
	defer resp.Body.Close()
	alerts := decodeJSON[[]lowStockResponse](t, resp)

	found := false
	for _, a := range alerts {
		if a.Stock > 10 {
			t.Errorf("product %d with stock %d exceeds the threshold", a.ID, a.Stock)
		}
		if a.ID == low.ID {
			found = true
		}
	}
	if !found {
		t.Error("depleted product missing from low-stock alerts")
	}
	for i := 1; i < len(alerts); i++ {
		if alerts[i].Stock < alerts[i-1].Stock {
			t.Errorf("alerts not ascending by stock at index %d", i)
		}
	}
}

func getOverview(t *testing.T) overviewResponse {
	t.Helper()

	resp := doGet(t, "/reports/overview")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("overview: expected 200, got %d", resp.StatusCode)
	}
	return decodeJSON[overviewResponse](t, resp)
}
