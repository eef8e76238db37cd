package order

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/shopdesk/internal/domain/product"
)

// CreateRequest holds the input for creating an order. Status, delivery
// address, and notes are optional; Status defaults to pending.
type CreateRequest struct {
	CustomerID      int64
	ProductID       int64
	Quantity        int64
	Status          string
	DeliveryAddress string
	Notes           string
}

// Service encapsulates the order workflow: validation, price snapshot,
// total computation, and the coupled order-insert / stock-decrement.
type Service struct {
	products product.Repository
	orders   Repository
}

// NewService creates an order Service with the required domain dependencies.
func NewService(products product.Repository, orders Repository) *Service {
	return &Service{
		products: products,
		orders:   orders,
	}
}

// Create validates the request, snapshots the product's current unit
// price, and persists the order together with the stock decrement.
//
// Validation happens before any mutation: a rejected request leaves both
// the order table and the product's stock untouched. The final stock
// check is enforced again inside the repository's transaction, so the
// early comparison here only gives a cheaper failure under no contention.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	p, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrap(err, "get product")
	}

	if req.Quantity > p.Stock {
		return nil, &InsufficientStockError{
			ProductID: p.ID,
			Stock:     p.Stock,
			Requested: req.Quantity,
		}
	}

	o := &Order{
		CustomerID:      req.CustomerID,
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		PriceAtTime:     p.Price,
		TotalAmount:     p.Price * req.Quantity,
		Status:          status,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// UpdateStatus overwrites the status of an existing order. Stock is not
// restored when an order is cancelled; cancelled orders keep their
// inventory effect.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, rawStatus string) error {
	if rawStatus == "" {
		return &InvalidStatusError{Value: rawStatus}
	}
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return err
	}
	return s.orders.UpdateStatus(ctx, orderID, status)
}

// Delete removes an order. As with cancellation, the product's stock is
// not restored.
func (s *Service) Delete(ctx context.Context, orderID int64) error {
	return s.orders.Delete(ctx, orderID)
}

// Detail returns the order merged with its customer and product. Either
// join side may be nil if independently deleted.
func (s *Service) Detail(ctx context.Context, orderID int64) (*Detail, error) {
	return s.orders.GetDetail(ctx, orderID)
}

// List returns all orders, most recent first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// CustomerOrders returns all orders for a customer, most recent first,
// projected to order-facing fields only.
func (s *Service) CustomerOrders(ctx context.Context, customerID int64) ([]CustomerOrder, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}
