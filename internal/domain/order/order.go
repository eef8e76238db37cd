package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/shopdesk/internal/domain/customer"
	"github.com/xenking/shopdesk/internal/domain/product"
)

// Sentinel errors for order lookup and validation.
var (
	ErrNotFound        = errors.New("order not found")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// Status is the order lifecycle state. It is a closed enumeration; any
// other text is rejected at the boundary by ParseStatus.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// InvalidStatusError indicates a status value outside the enumeration.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status %q", e.Value)
}

// ParseStatus validates raw status text. An empty string defaults to
// StatusPending.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "":
		return StatusPending, nil
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", &InvalidStatusError{Value: s}
}

// InsufficientStockError indicates the requested quantity exceeds the
// product's available stock.
type InsufficientStockError struct {
	ProductID int64
	Stock     int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: have %d, requested %d",
		e.ProductID, e.Stock, e.Requested)
}

// Order represents a single-product purchase. PriceAtTime snapshots the
// product's unit price at creation and is never recomputed; TotalAmount
// is PriceAtTime * Quantity, stored rather than derived.
type Order struct {
	ID              int64
	CustomerID      int64
	ProductID       int64
	Quantity        int64
	PriceAtTime     int64
	TotalAmount     int64
	Status          Status
	DeliveryAddress string
	Notes           string
	CreatedAt       time.Time
}

// Detail is an order merged with its customer and product. Either join
// side may be nil when the referenced row no longer exists.
type Detail struct {
	Order
	Customer *customer.Customer
	Product  *product.Product
}

// CustomerOrder is the order-facing projection returned when listing a
// customer's orders.
type CustomerOrder struct {
	ID          int64
	TotalAmount int64
	Status      Status
	Notes       string
	CreatedAt   time.Time
}

// Repository defines persistence operations for orders.
//
// Create must persist the order row and decrement the product's stock by
// o.Quantity as one atomic unit, failing with *InsufficientStockError
// (and writing nothing) when the stock cannot cover the quantity. It
// fills o.ID and o.CreatedAt on success.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
	GetDetail(ctx context.Context, id int64) (*Detail, error)
	List(ctx context.Context) ([]Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]CustomerOrder, error)
}
