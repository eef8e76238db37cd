package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/shopdesk/internal/domain/customer"
)

// Optional contact fields are stored as NULL when empty and read back as
// empty strings, so the domain layer never sees pointers.
const (
	listCustomersSQL = `SELECT id, name, email,
			COALESCE(phone, ''), COALESCE(address, ''), COALESCE(postal_code, ''),
			COALESCE(city, ''), COALESCE(notes, ''), created_at
		FROM customers ORDER BY id`

	getCustomerByIDSQL = `SELECT id, name, email,
			COALESCE(phone, ''), COALESCE(address, ''), COALESCE(postal_code, ''),
			COALESCE(city, ''), COALESCE(notes, ''), created_at
		FROM customers WHERE id = $1`

	createCustomerSQL = `INSERT INTO customers (name, email, phone, address, postal_code, city, notes)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''))
		RETURNING id, created_at`

	updateCustomerSQL = `UPDATE customers
		SET name = $2, email = $3, phone = NULLIF($4, ''), address = NULLIF($5, ''),
			postal_code = NULLIF($6, ''), city = NULLIF($7, ''), notes = NULLIF($8, '')
		WHERE id = $1`

	deleteCustomerSQL = `DELETE FROM customers WHERE id = $1`
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// List returns all customers ordered by ID.
func (r *CustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	rows, err := r.pool.Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return pgx.CollectRows(rows, scanCustomer)
}

// GetByID returns a single customer by its identifier.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, getCustomerByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting customer %d: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("getting customer %d: %w", id, err)
	}
	return &c, nil
}

// Create inserts a new customer. The creation timestamp is assigned by
// the store and returned with the new ID.
func (r *CustomerRepository) Create(ctx context.Context, in customer.Input) (*customer.Customer, error) {
	c := customer.Customer{
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		PostalCode: in.PostalCode,
		City:       in.City,
		Notes:      in.Notes,
	}
	err := r.pool.QueryRow(ctx, createCustomerSQL,
		in.Name, in.Email, in.Phone, in.Address, in.PostalCode, in.City, in.Notes,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}
	return &c, nil
}

// Update replaces all writable fields of an existing customer. The
// creation timestamp is set once at insert and never touched here.
func (r *CustomerRepository) Update(ctx context.Context, id int64, in customer.Input) error {
	tag, err := r.pool.Exec(ctx, updateCustomerSQL,
		id, in.Name, in.Email, in.Phone, in.Address, in.PostalCode, in.City, in.Notes,
	)
	if err != nil {
		return fmt.Errorf("updating customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

// Delete removes a customer. Dependent orders are removed by the schema's
// cascade foreign key.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteCustomerSQL, id)
	if err != nil {
		return fmt.Errorf("deleting customer %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var c customer.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Email,
		&c.Phone, &c.Address, &c.PostalCode, &c.City, &c.Notes,
		&c.CreatedAt,
	)
	return c, err
}
