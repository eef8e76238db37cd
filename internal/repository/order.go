package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/shopdesk/internal/domain/customer"
	"github.com/xenking/shopdesk/internal/domain/order"
	"github.com/xenking/shopdesk/internal/domain/product"
)

const (
	// Conditional decrement: affects zero rows when the product is missing
	// or its stock cannot cover the quantity. Run inside the same
	// transaction as the order insert so neither effect exists without
	// the other.
	decrementStockSQL = `UPDATE products SET stock = stock - $2
		WHERE id = $1 AND stock >= $2`

	productStockSQL = `SELECT stock FROM products WHERE id = $1`

	insertOrderSQL = `INSERT INTO orders
			(customer_id, product_id, quantity, price_at_time, total_amount, status, delivery_address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''))
		RETURNING id, created_at`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT id, customer_id, product_id, quantity, price_at_time, total_amount,
			status, COALESCE(delivery_address, ''), COALESCE(notes, ''), created_at
		FROM orders ORDER BY created_at DESC`

	getOrderDetailSQL = `SELECT
			o.id, o.customer_id, o.product_id, o.quantity, o.price_at_time, o.total_amount,
			o.status, COALESCE(o.delivery_address, ''), COALESCE(o.notes, ''), o.created_at,
			c.id, c.name, c.email, c.phone, c.address, c.postal_code, c.city, c.notes, c.created_at,
			p.id, p.name, p.description, p.price, p.stock
		FROM orders o
		LEFT JOIN customers c ON o.customer_id = c.id
		LEFT JOIN products p ON o.product_id = p.id
		WHERE o.id = $1`

	listCustomerOrdersSQL = `SELECT id, total_amount, status, COALESCE(notes, ''), created_at
		FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`
)

// foreignKeyViolation is the PostgreSQL error code for FK constraint failures.
const foreignKeyViolation = "23503"

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order row and decrements the product's stock as one
// transaction. The decrement is conditional on sufficient stock, so two
// concurrent orders for the last units cannot drive stock negative: the
// slower transaction sees zero affected rows and the whole unit rolls
// back with *order.InsufficientStockError.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning order transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	tag, err := tx.Exec(ctx, decrementStockSQL, o.ProductID, o.Quantity)
	if err != nil {
		return fmt.Errorf("decrementing stock for product %d: %w", o.ProductID, err)
	}
	if tag.RowsAffected() == 0 {
		var stock int64
		err := tx.QueryRow(ctx, productStockSQL, o.ProductID).Scan(&stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return product.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("checking stock for product %d: %w", o.ProductID, err)
		}
		return &order.InsufficientStockError{
			ProductID: o.ProductID,
			Stock:     stock,
			Requested: o.Quantity,
		}
	}

	err = tx.QueryRow(ctx, insertOrderSQL,
		o.CustomerID, o.ProductID, o.Quantity, o.PriceAtTime, o.TotalAmount,
		string(o.Status), o.DeliveryAddress, o.Notes,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return customer.ErrNotFound
		}
		return fmt.Errorf("inserting order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order transaction: %w", err)
	}
	return nil
}

// UpdateStatus overwrites the status column of an existing order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, string(status))
	if err != nil {
		return fmt.Errorf("updating order %d status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes an order row. Stock is deliberately not restored.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// List returns all orders, most recent first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// GetDetail returns the order with its customer and product outer-joined.
// Either join side is nil when the referenced row is unmatched.
func (r *OrderRepository) GetDetail(ctx context.Context, id int64) (*order.Detail, error) {
	var (
		d order.Detail

		custID                   *int64
		custName, custEmail      *string
		custPhone, custAddress   *string
		custPostalCode, custCity *string
		custNotes                *string
		custCreatedAt            *time.Time

		prodID            *int64
		prodName          *string
		prodDescription   *string
		prodPrice, prodStock *int64
	)

	err := r.pool.QueryRow(ctx, getOrderDetailSQL, id).Scan(
		&d.ID, &d.CustomerID, &d.ProductID, &d.Quantity, &d.PriceAtTime, &d.TotalAmount,
		&d.Status, &d.DeliveryAddress, &d.Notes, &d.CreatedAt,
		&custID, &custName, &custEmail, &custPhone, &custAddress,
		&custPostalCode, &custCity, &custNotes, &custCreatedAt,
		&prodID, &prodName, &prodDescription, &prodPrice, &prodStock,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	if custID != nil {
		d.Customer = &customer.Customer{
			ID:         *custID,
			Name:       derefString(custName),
			Email:      derefString(custEmail),
			Phone:      derefString(custPhone),
			Address:    derefString(custAddress),
			PostalCode: derefString(custPostalCode),
			City:       derefString(custCity),
			Notes:      derefString(custNotes),
		}
		if custCreatedAt != nil {
			d.Customer.CreatedAt = *custCreatedAt
		}
	}
	if prodID != nil {
		d.Product = &product.Product{
			ID:          *prodID,
			Name:        derefString(prodName),
			Description: derefString(prodDescription),
		}
		if prodPrice != nil {
			d.Product.Price = *prodPrice
		}
		if prodStock != nil {
			d.Product.Stock = *prodStock
		}
	}

	return &d, nil
}

// ListByCustomer returns the customer's orders projected to order-facing
// fields, most recent first.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]order.CustomerOrder, error) {
	rows, err := r.pool.Query(ctx, listCustomerOrdersSQL, customerID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for customer %d: %w", customerID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.CustomerOrder, error) {
		var co order.CustomerOrder
		err := row.Scan(&co.ID, &co.TotalAmount, &co.Status, &co.Notes, &co.CreatedAt)
		return co, err
	})
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.ProductID, &o.Quantity, &o.PriceAtTime, &o.TotalAmount,
		&o.Status, &o.DeliveryAddress, &o.Notes, &o.CreatedAt,
	)
	return o, err
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
