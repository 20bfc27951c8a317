package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/garmenttrack/internal/model"
)

const orderColumns = `id, product_id, product_name, unit_price, email, first_name, last_name,
	quantity, status, address, phone, notes, payment_method, created_at`

func scanOrder(row scanner) (*model.Order, error) {
	var (
		o      model.Order
		status string
	)

	if err := row.Scan(
		&o.ID, &o.ProductID, &o.ProductName, &o.UnitPrice, &o.Email, &o.FirstName, &o.LastName,
		&o.Quantity, &status, &o.Address, &o.Phone, &o.Notes, &o.PaymentMethod, &o.CreatedAt,
	); err != nil {
		return nil, err
	}

	o.Status = model.OrderStatus(status)

	return &o, nil
}

func (r *PostgresRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var res []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		res = append(res, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CreateOrder сохраняет заказ и возвращает его идентификатор.
func (r *PostgresRepository) CreateOrder(ctx context.Context, o *model.Order) (string, error) {
	if o.ID == "" {
		o.ID = newID()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = r.now()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO orders (id, product_id, product_name, unit_price, email, first_name, last_name,
		                     quantity, status, address, phone, notes, payment_method, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID, o.ProductID, o.ProductName, o.UnitPrice, o.Email, o.FirstName, o.LastName,
		o.Quantity, string(o.Status), o.Address, o.Phone, o.Notes, o.PaymentMethod, o.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", classify(err))
	}

	return o.ID, nil
}

// GetOrdersByEmail возвращает заказы покупателя с указанным email.
func (r *PostgresRepository) GetOrdersByEmail(ctx context.Context, email string) ([]model.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE email = $1
		 ORDER BY created_at DESC`,
		email,
	)
}

// ListOrders возвращает все заказы, а при непустом status только заказы с этим статусом.
func (r *PostgresRepository) ListOrders(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	if status == "" {
		return r.queryOrders(ctx,
			`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`,
		)
	}

	return r.queryOrders(ctx,
		`SELECT `+orderColumns+`
		 FROM orders
		 WHERE status = $1
		 ORDER BY created_at DESC`,
		string(status),
	)
}

// GetOrder возвращает заказ по идентификатору.
func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`,
		id,
	)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	return o, nil
}
