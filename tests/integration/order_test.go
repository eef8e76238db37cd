//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
)

func TestCreateOrder_DecrementsStock(t *testing.T) {
	p := createProduct(t, "Espresso Beans", 500, 10)
	c := createCustomer(t, "Nora", "nora@example.com")

	resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
		"customerId": c.ID,
		"productId":  p.ID,
		"quantity":   3,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	o := decodeJSON[orderResponse](t, resp)
	if o.PriceAtTime != 500 {
		t.Errorf("priceAtTime: got %d, want 500", o.PriceAtTime)
	}
	if o.TotalAmount != 1500 {
		t.Errorf("totalAmount: got %d, want 1500", o.TotalAmount)
	}
	if o.Status != "pending" {
		t.Errorf("status: got %q, want pending", o.Status)
	}

	if got := getProduct(t, p.ID).Stock; got != 7 {
		t.Errorf("stock after order: got %d, want 7", got)
	}
}

func TestCreateOrder_PriceSnapshotSurvivesPriceChange(t *testing.T) {
	p := createProduct(t, "Filter Paper", 200, 20)
	c := createCustomer(t, "Omar", "omar@example.com")

	resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
		"customerId": c.ID,
		"productId":  p.ID,
		"quantity":   2,
	})
	o := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()

	// Raise the product price; the order keeps its snapshot.
	resp = doJSON(t, http.MethodPut, fmt.Sprintf("/products/%d", p.ID), map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"price":       999,
		"stock":       18,
	})
	resp.Body.Close()

	resp = doGet(t, fmt.Sprintf("/orders/%d", o.ID))
	defer resp.Body.Close()
	detail := decodeJSON[orderDetailResponse](t, resp)

	if detail.PriceAtTime != 200 {
		t.Errorf("priceAtTime after price change: got %d, want 200", detail.PriceAtTime)
	}
	if detail.TotalAmount != 400 {
		t.Errorf("totalAmount after price change: got %d, want 400", detail.TotalAmount)
	}
	if detail.Product == nil || detail.Product.Price != 999 {
		t.Errorf("joined product should carry the new price")
	}
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	p := createProduct(t, "Rare Kettle", 10000, 2)
	c := createCustomer(t, "Pia", "pia@example.com")

	resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
		"customerId": c.ID,
		"productId":  p.ID,
		"quantity":   3,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	if got := getProduct(t, p.ID).Stock; got != 2 {
		t.Errorf("stock after rejected order: got %d, want 2", got)
	}
}

func TestCreateOrder_ProductNotFound(t *testing.T) {
	c := createCustomer(t, "Quinn", "quinn@example.com")

	resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
		"customerId": c.ID,
		"productId":  999999,
		"quantity":   1,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateOrder_ConcurrentLastUnits(t *testing.T) {
	// Stock 10, two orders of 6 each: exactly one must win.
	p := createProduct(t, "Limited Grinder", 15000, 10)
	c := createCustomer(t, "Rae", "rae@example.com")

	statuses := make([]int, 2)
	var wg sync.WaitGroup
	for i := range statuses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
				"customerId": c.ID,
				"productId":  p.ID,
				"quantity":   6,
			})
			resp.Body.Close()
			statuses[i] = resp.StatusCode
		}()
	}
	wg.Wait()

	created, conflicted := 0, 0
	for _, s := range statuses {
		switch s {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicted++
		}
	}
	if created != 1 || conflicted != 1 {
		t.Fatalf("expected exactly one success and one conflict, got %v", statuses)
	}

	if got := getProduct(t, p.ID).Stock; got != 4 {
		t.Errorf("stock after race: got %d, want 4", got)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	p := createProduct(t, "Mug", 900, 30)
	c := createCustomer(t, "Sid", "sid@example.com")

	resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
		"customerId": c.ID, "productId": p.ID, "quantity": 1,
	})
	o := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("/orders/%d/status", o.ID), map[string]any{
		"status": "cancelled",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	// Cancelling does not restock.
	if got := getProduct(t, p.ID).Stock; got != 29 {
		t.Errorf("stock after cancel: got %d, want 29", got)
	}

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("/orders/%d/status", o.ID), map[string]any{
		"status": "refunded",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid status: expected 400, got %d", resp.StatusCode)
	}
}

func TestDeleteOrder_NoRestock(t *testing.T) {
	p := createProduct(t, "Scale", 4500, 8)
	c := createCustomer(t, "Tess", "tess@example.com")

	resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
		"customerId": c.ID, "productId": p.ID, "quantity": 2,
	})
	o := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()

	resp = doDelete(t, fmt.Sprintf("/orders/%d", o.ID))
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	if got := getProduct(t, p.ID).Stock; got != 6 {
		t.Errorf("stock after delete: got %d, want 6", got)
	}

	resp = doGet(t, fmt.Sprintf("/orders/%d", o.ID))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted order: expected 404, got %d", resp.StatusCode)
	}
}

func TestDeleteCustomer_CascadesOrders(t *testing.T) {
	p := createProduct(t, "Tamper", 2500, 15)
	c := createCustomer(t, "Uma", "uma@example.com")

	resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
		"customerId": c.ID, "productId": p.ID, "quantity": 1,
	})
	o := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()

	resp = doDelete(t, fmt.Sprintf("/customers/%d", c.ID))
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp = doGet(t, fmt.Sprintf("/customers/%d/orders", c.ID))
	orders := decodeJSON[[]customerOrderResponse](t, resp)
	resp.Body.Close()
	if len(orders) != 0 {
		t.Errorf("orders after customer delete: got %d, want 0", len(orders))
	}

	resp = doGet(t, fmt.Sprintf("/orders/%d", o.ID))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("cascaded order: expected 404, got %d", resp.StatusCode)
	}
}

func TestGetCustomerOrders_MostRecentFirst(t *testing.T) {
	p := createProduct(t, "Server", 1200, 50)
	c := createCustomer(t, "Vik", "vik@example.com")

	for qty := int64(1); qty <= 3; qty++ {
		resp := doJSON(t, http.MethodPost, "/orders", map[string]any{
			"customerId": c.ID, "productId": p.ID, "quantity": qty,
		})
		resp.Body.Close()
	}

	resp := doGet(t, fmt.Sprintf("/customers/%d/orders", c.ID))
	defer resp.Body.Close()
	orders := decodeJSON[[]customerOrderResponse](t, resp)

	if len(orders) != 3 {
		t.Fatalf("got %d orders, want 3", len(orders))
	}
	for i := 1; i < len(orders); i++ {
		if orders[i].CreatedAt > orders[i-1].CreatedAt {
			t.Errorf("orders not in descending creation order: %s before %s",
				orders[i-1].CreatedAt, orders[i].CreatedAt)
		}
	}
	// Most recent order (qty 3) first.
	if orders[0].TotalAmount != 3600 {
		t.Errorf("first order total: got %d, want 3600", orders[0].TotalAmount)
	}
}
