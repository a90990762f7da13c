package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/repository"
)

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a Postgres-backed ProductRepository implementation.
func NewProductRepository(pool *pgxpool.Pool) repository.ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) GetActive(ctx context.Context, id string) (*domain.Product, error) {
	const query = `
	SELECT id, name, price, description, category, active, version, created_at, updated_at
	FROM products
	WHERE id = $1 AND active = TRUE
	`
	row := r.pool.QueryRow(ctx, query, id)
	return scanProduct(row)
}

func (r *productRepository) ListActive(ctx context.Context) ([]domain.Product, error) {
	const query = `
	SELECT id, name, price, description, category, active, version, created_at, updated_at
	FROM products
	WHERE active = TRUE
	ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "failed to list products", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		entity, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *entity)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "failed to list products", err)
	}
	return products, nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if product == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO products (id, name, price, description, category, active, version, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, 0, NOW(), NOW())
	RETURNING version, created_at, updated_at
	`

	product.ID = uuid.NewString()

	if err := r.pool.QueryRow(ctx, query,
		product.ID,
		product.Name,
		product.Price,
		product.Description,
		product.Category,
		product.Active,
	).Scan(&product.Version, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "failed to insert product", err)
	}

	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product, expectedVersion int64) error {
	if product == nil || product.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE products
	SET name = $3,
		price = $4,
		description = $5,
		category = $6,
		active = $7,
		version = version + 1,
		updated_at = NOW()
	WHERE id = $1 AND version = $2
	RETURNING version, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		product.ID,
		expectedVersion,
		product.Name,
		product.Price,
		product.Description,
		product.Category,
		product.Active,
	).Scan(&product.Version, &product.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.WrapError(domain.ErrCodeStorage, "failed to update product", err)
	}

	// No row matched: either the product is gone or the version moved on.
	var exists bool
	const existsQuery = `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`
	if err := r.pool.QueryRow(ctx, existsQuery, product.ID).Scan(&exists); err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "failed to update product", err)
	}
	if exists {
		return domain.ErrVersionConflict
	}
	return domain.ErrProductNotFound
}

func scanProduct(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Product, error) {
	var entity domain.Product
	if err := row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Price,
		&entity.Description,
		&entity.Category,
		&entity.Active,
		&entity.Version,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.WrapError(domain.ErrCodeStorage, "failed to scan product", err)
	}
	return &entity, nil
}
