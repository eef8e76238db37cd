//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go/modules/compose"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	baseURL    string
	httpClient *http.Client
)

// Response types — defined locally to keep tests truly black-box (no internal imports).

type productResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
}

type customerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type orderResponse struct {
	ID          int64  `json:"id"`
	CustomerID  int64  `json:"customerId"`
	ProductID   int64  `json:"productId"`
	Quantity    int64  `json:"quantity"`
	PriceAtTime int64  `json:"priceAtTime"`
	TotalAmount int64  `json:"totalAmount"`
	Status      string `json:"status"`
}

type orderDetailResponse struct {
	orderResponse
	Customer *customerResponse `json:"customer"`
	Product  *productResponse  `json:"product"`
}

type customerOrderResponse struct {
	ID          int64  `json:"id"`
	TotalAmount int64  `json:"totalAmount"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

type overviewResponse struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalOrders       int64   `json:"totalOrders"`
	TotalCustomers    int64   `json:"totalCustomers"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

type trendResponse struct {
	Date       string  `json:"date"`
	Revenue    float64 `json:"revenue"`
	OrderCount int64   `json:"orderCount"`
}

type bestSellerResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalQuantity int64   `json:"totalQuantity"`
	Stock         int64   `json:"stock"`
	Price         int64   `json:"price"`
}

type lowStockResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
	Price int64  `json:"price"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dc, err := tc.NewDockerCompose("docker-compose.test.yml")
	if err != nil {
		log.Fatalf("compose init: %v", err)
	}

	// Start postgres + api, wait until the API readiness check passes.
	err = dc.
		WaitForService("api", wait.ForHTTP("/readyz").WithPort("8080/tcp")).
		Up(ctx, tc.Wait(true))
	if err != nil {
		log.Fatalf("compose up: %v", err)
	}

	apiContainer, err := dc.ServiceContainer(ctx, "api")
	if err != nil {
		log.Fatalf("api container: %v", err)
	}

	host, err := apiContainer.Host(ctx)
	if err != nil {
		log.Fatalf("host: %v", err)
	}

	mappedPort, err := apiContainer.MappedPort(ctx, "8080/tcp")
	if err != nil {
		log.Fatalf("mapped port: %v", err)
	}

	baseURL = fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	httpClient = &http.Client{Timeout: 10 * time.Second}
	log.Printf("API available at %s", baseURL)

	result := m.Run()

	if err := dc.Down(context.Background(), tc.RemoveOrphans(true)); err != nil {
		log.Printf("compose down: %v", err)
	}

	return result
}

// HTTP helpers.

func doGet(t *testing.T, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, baseURL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func doJSON(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, baseURL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func doDelete(t *testing.T, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, baseURL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE %s: %v", path, err)
	}
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// Fixture helpers creating rows through the public API.

func createProduct(t *testing.T, name string, price, stock int64) productResponse {
	t.Helper()

	resp := doJSON(t, http.MethodPost, "/products", map[string]any{
		"name":        name,
		"description": "integration fixture",
		"price":       price,
		"stock":       stock,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d", resp.StatusCode)
	}
	return decodeJSON[productResponse](t, resp)
}

func createCustomer(t *testing.T, name, email string) customerResponse {
	t.Helper()

	resp := doJSON(t, http.MethodPost, "/customers", map[string]any{
		"name":  name,
		"email": email,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create customer: expected 201, got %d", resp.StatusCode)
	}
	return decodeJSON[customerResponse](t, resp)
}

func getProduct(t *testing.T, id int64) productResponse {
	t.Helper()

	resp := doGet(t, fmt.Sprintf("/products/%d", id))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get product %d: expected 200, got %d", id, resp.StatusCode)
	}
	return decodeJSON[productResponse](t, resp)
}
