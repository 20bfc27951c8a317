package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/garmenttrack/internal/model"
)

const productColumns = `id, name, description, price, category, payment_options, images,
	available_quantity, minimum_order, show_on_home, created_by, created_at`

func scanProduct(row scanner) (*model.Product, error) {
	var p model.Product
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.PaymentOptions, &p.Images,
		&p.AvailableQuantity, &p.MinimumOrder, &p.ShowOnHome, &p.CreatedBy, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var res []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		res = append(res, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// ListProducts возвращает все товары каталога, начиная с самых новых.
func (r *PostgresRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`,
	)
}

// ListFeaturedProducts возвращает не более limit товаров, отмеченных для главной страницы.
func (r *PostgresRepository) ListFeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+`
		 FROM products
		 WHERE show_on_home
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
}

// ListProductsByCreator возвращает товары с указанной атрибуцией автора.
func (r *PostgresRepository) ListProductsByCreator(ctx context.Context, createdBy string) ([]model.Product, error) {
	return r.queryProducts(ctx,
		`SELECT `+productColumns+`
		 FROM products
		 WHERE created_by = $1
		 ORDER BY created_at DESC`,
		createdBy,
	)
}

// GetProduct возвращает товар по идентификатору.
func (r *PostgresRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`,
		id,
	)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return p, nil
}

// CreateProduct сохраняет товар и возвращает его идентификатор.
func (r *PostgresRepository) CreateProduct(ctx context.Context, p *model.Product) (string, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.now()
	}
	if p.PaymentOptions == nil {
		p.PaymentOptions = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, name, description, price, category, payment_options, images,
		                       available_quantity, minimum_order, show_on_home, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.Name, p.Description, p.Price, p.Category, p.PaymentOptions, p.Images,
		p.AvailableQuantity, p.MinimumOrder, p.ShowOnHome, p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert product: %w", classify(err))
	}

	return p.ID, nil
}

// UpdateProduct заменяет название, цену, категорию и способы оплаты товара
// и возвращает запись после изменения.
func (r *PostgresRepository) UpdateProduct(ctx context.Context, id string, ch model.ProductChanges) (*model.Product, error) {
	options := ch.PaymentOptions
	if options == nil {
		options = []string{}
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE products
		 SET name = $2, price = $3, category = $4, payment_options = $5
		 WHERE id = $1
		 RETURNING `+productColumns,
		id, ch.Name, ch.Price, ch.Category, options,
	)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", classify(err))
	}

	return p, nil
}

// DeleteProduct удаляет товар и возвращает число удалённых записей.
func (r *PostgresRepository) DeleteProduct(ctx context.Context, id string) (int64, error) {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// SetProductShowOnHome выставляет признак показа товара на главной странице.
// Возвращает число найденных и фактически изменённых записей.
func (r *PostgresRepository) SetProductShowOnHome(ctx context.Context, id string, show bool) (int64, int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var current bool
	err = tx.QueryRow(ctx,
		`SELECT show_on_home FROM products WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrProductNotFound
		}
		return 0, 0, fmt.Errorf("lock product: %w", err)
	}

	var modified int64
	if current != show {
		cmdTag, err := tx.Exec(ctx,
			`UPDATE products SET show_on_home = $2 WHERE id = $1`,
			id, show,
		)
		if err != nil {
			return 0, 0, fmt.Errorf("update product visibility: %w", err)
		}
		modified = cmdTag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit tx: %w", err)
	}

	return 1, modified, nil
}
