// Package api exposes the admin dashboard operations over HTTP. Handlers
// decode JSON requests, delegate to the domain services, and map domain
// errors to status codes. Listing endpoints read through the listing
// cache; every mutating endpoint invalidates the listings it touches.
package api

import (
	"net/http"

	"github.com/xenking/shopdesk/internal/domain/customer"
	"github.com/xenking/shopdesk/internal/domain/order"
	"github.com/xenking/shopdesk/internal/domain/product"
	"github.com/xenking/shopdesk/internal/domain/report"
	"github.com/xenking/shopdesk/internal/listingcache"
)

// Handler holds the domain dependencies for all API endpoints.
type Handler struct {
	products  product.Repository
	customers customer.Repository
	orders    *order.Service
	reports   *report.Service
	listings  *listingcache.Cache
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	products product.Repository,
	customers customer.Repository,
	orders *order.Service,
	reports *report.Service,
	listings *listingcache.Cache,
) *Handler {
	return &Handler{
		products:  products,
		customers: customers,
		orders:    orders,
		reports:   reports,
		listings:  listings,
	}
}

// Routes registers all API endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /products", h.ListProducts)
	mux.HandleFunc("POST /products", h.CreateProduct)
	mux.HandleFunc("GET /products/{id}", h.GetProduct)
	mux.HandleFunc("PUT /products/{id}", h.UpdateProduct)
	mux.HandleFunc("DELETE /products/{id}", h.DeleteProduct)

	mux.HandleFunc("GET /customers", h.ListCustomers)
	mux.HandleFunc("POST /customers", h.CreateCustomer)
	mux.HandleFunc("GET /customers/{id}", h.GetCustomer)
	mux.HandleFunc("PUT /customers/{id}", h.UpdateCustomer)
	mux.HandleFunc("DELETE /customers/{id}", h.DeleteCustomer)
	mux.HandleFunc("GET /customers/{id}/orders", h.GetCustomerOrders)

	mux.HandleFunc("GET /orders", h.ListOrders)
	mux.HandleFunc("POST /orders", h.CreateOrder)
	mux.HandleFunc("GET /orders/{id}", h.GetOrderDetails)
	mux.HandleFunc("DELETE /orders/{id}", h.DeleteOrder)
	mux.HandleFunc("PUT /orders/{id}/status", h.UpdateOrderStatus)

	mux.HandleFunc("GET /reports/overview", h.GetOverviewStats)
	mux.HandleFunc("GET /reports/sales-trends", h.GetSalesTrends)
	mux.HandleFunc("GET /reports/best-sellers", h.GetBestSellingProducts)
	mux.HandleFunc("GET /reports/low-stock", h.GetLowStockProducts)
}
