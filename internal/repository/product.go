package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/shopdesk/internal/domain/product"
)

const (
	listProductsSQL = `SELECT id, name, description, price, stock
		FROM products ORDER BY id`

	getProductByIDSQL = `SELECT id, name, description, price, stock
		FROM products WHERE id = $1`

	createProductSQL = `INSERT INTO products (name, description, price, stock)
		VALUES ($1, $2, $3, $4) RETURNING id`

	updateProductSQL = `UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5
		WHERE id = $1`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return &p, nil
}

// Create inserts a new product and returns it with its assigned ID.
func (r *ProductRepository) Create(ctx context.Context, in product.Input) (*product.Product, error) {
	p := product.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
	}
	err := r.pool.QueryRow(ctx, createProductSQL,
		in.Name, in.Description, in.Price, in.Stock,
	).Scan(&p.ID)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return &p, nil
}

// Update replaces all writable fields of an existing product.
func (r *ProductRepository) Update(ctx context.Context, id int64, in product.Input) error {
	tag, err := r.pool.Exec(ctx, updateProductSQL,
		id, in.Name, in.Description, in.Price, in.Stock,
	)
	if err != nil {
		return fmt.Errorf("updating product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Delete removes a product. Dependent orders are removed by the schema's
// cascade foreign key.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock)
	return p, err
}
