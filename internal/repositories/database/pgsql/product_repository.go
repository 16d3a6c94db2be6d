package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxProductRepository implements the product repository interfaces using pgxpool.
type PgxProductRepository struct {
	BaseRepository
}

// newPgxProductRepository creates a new PgxProductRepository.
func newPgxProductRepository(db *pgxpool.Pool) *PgxProductRepository {
	return &PgxProductRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

const productColumns = `product_id, sku, name, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ProductID, &p.SKU, &p.Name, &p.IsActive,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProductByID retrieves a product by its identifier.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE product_id = $1`, productID)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

// ListProducts retrieves products ordered by SKU, optionally active only.
func (r *PgxProductRepository) ListProducts(ctx context.Context, onlyActive bool) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY sku`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

// SaveProduct upserts a product row keyed by product_id.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO products (
			product_id, sku, name, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (product_id) DO UPDATE
		SET sku = EXCLUDED.sku, name = EXCLUDED.name, is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by`,
		product.ProductID, product.SKU, product.Name, product.IsActive,
		product.CreatedAt, product.CreatedBy, product.LastUpdatedAt, product.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "product "+product.ProductID)
	}
	return nil
}

// FindActivePrice retrieves the price row effective at the given instant.
func (r *PgxProductRepository) FindActivePrice(ctx context.Context, productID string, at time.Time) (*domain.ProductPrice, error) {
	var p domain.ProductPrice
	err := r.Pool.QueryRow(ctx, `
		SELECT price_id, product_id, price, currency_code, start_date, end_date,
			created_at, created_by, last_updated_at, last_updated_by
		FROM product_prices
		WHERE product_id = $1 AND start_date <= $2 AND (end_date IS NULL OR end_date > $2)
		ORDER BY start_date DESC
		LIMIT 1`, productID, at,
	).Scan(
		&p.PriceID, &p.ProductID, &p.Price, &p.CurrencyCode, &p.StartDate, &p.EndDate,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: active price for product %s", apperrors.ErrNotFound, productID)
		}
		return nil, fmt.Errorf("failed to find active price: %w", err)
	}
	return &p, nil
}

// SavePrice inserts a new price row, end-dating any currently open row for the
// product in the same transaction so at most one stays active.
func (r *PgxProductRepository) SavePrice(ctx context.Context, price domain.ProductPrice) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE product_prices
		SET end_date = $1, last_updated_at = $2, last_updated_by = $3
		WHERE product_id = $4 AND end_date IS NULL`,
		price.StartDate, price.CreatedAt, price.CreatedBy, price.ProductID,
	)
	if err != nil {
		return mapWriteError(err, "product price for "+price.ProductID)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO product_prices (
			price_id, product_id, price, currency_code, start_date, end_date,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		price.PriceID, price.ProductID, price.Price, price.CurrencyCode, price.StartDate, price.EndDate,
		price.CreatedAt, price.CreatedBy, price.LastUpdatedAt, price.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "product price "+price.PriceID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit price change: %w", err)
	}
	return nil
}
