package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPurchaseRepository implements the purchase repository interfaces using pgxpool.
type PgxPurchaseRepository struct {
	BaseRepository
}

// newPgxPurchaseRepository creates a new PgxPurchaseRepository.
func newPgxPurchaseRepository(db *pgxpool.Pool) *PgxPurchaseRepository {
	return &PgxPurchaseRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.PurchaseRepositoryWithTx = (*PgxPurchaseRepository)(nil)

const purchaseColumns = `purchase_id, product_id, quantity, price_per_unit, currency_code,
	purchase_datetime, created_at, created_by, last_updated_at, last_updated_by`

func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	var p domain.Purchase
	err := row.Scan(
		&p.PurchaseID, &p.ProductID, &p.Quantity, &p.PricePerUnit, &p.CurrencyCode,
		&p.PurchaseDatetime, &p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPurchaseByID retrieves a purchase record by its identifier.
func (r *PgxPurchaseRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE purchase_id = $1`, purchaseID)
	purchase, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: purchase %s", apperrors.ErrNotFound, purchaseID)
		}
		return nil, fmt.Errorf("failed to find purchase: %w", err)
	}
	return purchase, nil
}

// ListPurchasesByProduct retrieves a product's purchases, newest first.
func (r *PgxPurchaseRepository) ListPurchasesByProduct(ctx context.Context, productID string, limit int) ([]domain.Purchase, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+purchaseColumns+`
		FROM purchases
		WHERE product_id = $1
		ORDER BY purchase_datetime DESC
		LIMIT $2`, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []domain.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchases: %w", err)
	}
	return purchases, nil
}

// InsertPurchaseInTx inserts a purchase record within the given transaction.
func (r *PgxPurchaseRepository) InsertPurchaseInTx(ctx context.Context, tx pgx.Tx, purchase domain.Purchase) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO purchases (
			purchase_id, product_id, quantity, price_per_unit, currency_code,
			purchase_datetime, created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		purchase.PurchaseID, purchase.ProductID, purchase.Quantity, purchase.PricePerUnit, purchase.CurrencyCode,
		purchase.PurchaseDatetime, purchase.CreatedAt, purchase.CreatedBy, purchase.LastUpdatedAt, purchase.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "purchase "+purchase.PurchaseID)
	}
	return nil
}

// FindPurchaseForUpdate locks a purchase row prior to a correction.
func (r *PgxPurchaseRepository) FindPurchaseForUpdate(ctx context.Context, tx pgx.Tx, purchaseID string) (*domain.Purchase, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+purchaseColumns+` FROM purchases WHERE purchase_id = $1 FOR UPDATE`, purchaseID)
	purchase, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: purchase %s", apperrors.ErrNotFound, purchaseID)
		}
		return nil, fmt.Errorf("failed to lock purchase: %w", err)
	}
	return purchase, nil
}

// UpdatePurchaseInTx rewrites a purchase's quantity and price fields. Callers
// post the adjusting journal entry in the same transaction.
func (r *PgxPurchaseRepository) UpdatePurchaseInTx(ctx context.Context, tx pgx.Tx, purchase domain.Purchase) error {
	tag, err := tx.Exec(ctx, `
		UPDATE purchases
		SET quantity = $1, price_per_unit = $2, last_updated_at = $3, last_updated_by = $4
		WHERE purchase_id = $5`,
		purchase.Quantity, purchase.PricePerUnit, purchase.LastUpdatedAt, purchase.LastUpdatedBy,
		purchase.PurchaseID,
	)
	if err != nil {
		return mapWriteError(err, "purchase "+purchase.PurchaseID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: purchase %s", apperrors.ErrNotFound, purchase.PurchaseID)
	}
	return nil
}
