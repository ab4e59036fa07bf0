package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/esportsfed/platform/models"
	"github.com/lib/pq"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductSlugConflict = errors.New("product slug is already in use")
	// ErrProductOutOfStock is returned by the conditional stock decrement
	// when the remaining stock cannot cover the requested quantity.
	ErrProductOutOfStock = errors.New("product stock is insufficient")
	ErrOrderNotFound     = errors.New("order not found")
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Product, error)
	List(ctx context.Context, limit, offset int) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	// DecrementStock takes qty units off the shelf as one conditional
	// update, same shape as the championship slot counter.
	DecrementStock(ctx context.Context, exec SQLExecutor, id, qty int) error
	Delete(ctx context.Context, id int) error
}

type OrderRepository interface {
	Create(ctx context.Context, exec SQLExecutor, order *models.Order) error
	GetByID(ctx context.Context, id int) (*models.Order, error)
	ListByUser(ctx context.Context, userID int) ([]models.Order, error)
}

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

func (r *postgresProductRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const productColumns = `id, name, slug, description, price_cents, stock, created_at`

func (r *postgresProductRepository) scanProduct(rowScanner interface{ Scan(...interface{}) error }) (*models.Product, error) {
	var p models.Product
	err := rowScanner.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.PriceCents, &p.Stock, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (name, slug, description, price_cents, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		product.Name, product.Slug, product.Description, product.PriceCents, product.Stock,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" && pqErr.Constraint == "products_slug_key" {
			return ErrProductSlugConflict
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *postgresProductRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Product, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanProduct(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresProductRepository) List(ctx context.Context, limit, offset int) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name ASC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		p, errScan := r.scanProduct(rows)
		if errScan != nil {
			return nil, errScan
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *postgresProductRepository) Update(ctx context.Context, product *models.Product) error {
	query := `UPDATE products SET name = $1, description = $2, price_cents = $3, stock = $4 WHERE id = $5`
	result, err := r.db.ExecContext(ctx, query,
		product.Name, product.Description, product.PriceCents, product.Stock, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return checkAffectedRows(result, ErrProductNotFound)
}

func (r *postgresProductRepository) DecrementStock(ctx context.Context, exec SQLExecutor, id, qty int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`

	result, err := executor.ExecContext(ctx, query, qty, id)
	if err != nil {
		return fmt.Errorf("failed to decrement product stock: %w", err)
	}
	return checkAffectedRows(result, ErrProductOutOfStock)
}

func (r *postgresProductRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return checkAffectedRows(result, ErrProductNotFound)
}

type postgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) OrderRepository {
	return &postgresOrderRepository{db: db}
}

func (r *postgresOrderRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresOrderRepository) Create(ctx context.Context, exec SQLExecutor, order *models.Order) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO orders (user_id, product_id, quantity, total_cents, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		order.UserID, order.ProductID, order.Quantity, order.TotalCents, order.Status,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *postgresOrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	query := `SELECT id, user_id, product_id, quantity, total_cents, status, created_at FROM orders WHERE id = $1`
	var o models.Order
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalCents, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *postgresOrderRepository) ListByUser(ctx context.Context, userID int) ([]models.Order, error) {
	query := `SELECT id, user_id, product_id, quantity, total_cents, status, created_at FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]models.Order, 0)
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ProductID, &o.Quantity, &o.TotalCents, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
