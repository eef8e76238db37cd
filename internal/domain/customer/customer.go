package customer

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested customer does not exist.
var ErrNotFound = errors.New("customer not found")

// Customer represents a buyer. Only Name and Email are required; the
// remaining contact fields are optional and stored as empty strings when
// absent. CreatedAt is assigned by the store on insert.
type Customer struct {
	ID         int64
	Name       string
	Email      string
	Phone      string
	Address    string
	PostalCode string
	City       string
	Notes      string
	CreatedAt  time.Time
}

// Input holds the writable fields of a customer for create and update
// operations.
type Input struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	PostalCode string
	City       string
	Notes      string
}

// InvalidInputError reports a customer input field that failed validation.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid customer " + e.Field + ": " + e.Reason
}

// Validate checks the required fields. Email gets a minimal shape check
// only; deliverability is not this layer's problem.
func (in Input) Validate() error {
	if in.Name == "" {
		return &InvalidInputError{Field: "name", Reason: "required"}
	}
	if in.Email == "" {
		return &InvalidInputError{Field: "email", Reason: "required"}
	}
	if !strings.Contains(in.Email, "@") {
		return &InvalidInputError{Field: "email", Reason: "malformed"}
	}
	return nil
}

// Repository defines persistence operations for customers.
type Repository interface {
	List(ctx context.Context) ([]Customer, error)
	GetByID(ctx context.Context, id int64) (*Customer, error)
	Create(ctx context.Context, in Input) (*Customer, error)
	Update(ctx context.Context, id int64, in Input) error
	Delete(ctx context.Context, id int64) error
}
