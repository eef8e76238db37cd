package product

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// LowStockThreshold is the stock level at or below which a product is
// flagged in the low-stock report.
const LowStockThreshold = 10

// Product represents a sellable catalog item. Price is in minor currency
// units (cents). Stock is the number of units available for sale and is
// never negative.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       int64
	Stock       int64
}

// Input holds the writable fields of a product for create and update
// operations.
type Input struct {
	Name        string
	Description string
	Price       int64
	Stock       int64
}

// InvalidInputError reports a product input field that failed validation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid product " + e.Field + ": " + e.Reason
}

// Validate checks required fields and value ranges. It runs before any
// write so a rejected input leaves no partial state.
func (in Input) Validate() error {
	if in.Name == "" {
		return &InvalidInputError{Field: "name", Reason: "required"}
	}
	if in.Price < 0 {
		return &InvalidInputError{Field: "price", Reason: "must not be negative"}
	}
	if in.Stock < 0 {
		return &InvalidInputError{Field: "stock", Reason: "must not be negative"}
	}
	return nil
}

// Repository defines persistence operations for products.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, in Input) (*Product, error)
	Update(ctx context.Context, id int64, in Input) error
	Delete(ctx context.Context, id int64) error
}
