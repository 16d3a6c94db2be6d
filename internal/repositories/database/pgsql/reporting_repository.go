package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReportingRepository implements the aggregate report queries using pgxpool.
type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new PgxReportingRepository.
func newPgxReportingRepository(db *pgxpool.Pool) *PgxReportingRepository {
	return &PgxReportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingReader = (*PgxReportingRepository)(nil)

// FindStockValueRows aggregates remaining batch stock times unit cost per
// product and purchase currency. Zero-stock rows are filtered out by HAVING.
func (r *PgxReportingRepository) FindStockValueRows(ctx context.Context) ([]domain.StockValueRow, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT pr.product_id, pr.sku, pr.name, SUM(b.stock), pu.currency_code,
			SUM(b.stock * pu.price_per_unit)
		FROM inventory_batches b
		JOIN purchases pu ON pu.purchase_id = b.purchase_id
		JOIN products pr ON pr.product_id = b.product_id
		GROUP BY pr.product_id, pr.sku, pr.name, pu.currency_code
		HAVING SUM(b.stock) > 0
		ORDER BY pr.sku, pu.currency_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock value rows: %w", err)
	}
	defer rows.Close()

	var result []domain.StockValueRow
	for rows.Next() {
		var row domain.StockValueRow
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.ProductName, &row.Quantity, &row.CurrencyCode, &row.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan stock value row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock value rows: %w", err)
	}
	return result, nil
}

// FindPurchaseTotals aggregates purchase spend per currency over [from, to].
func (r *PgxReportingRepository) FindPurchaseTotals(ctx context.Context, from, to time.Time) ([]domain.PurchaseTotalRow, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT currency_code, COUNT(*), SUM(quantity * price_per_unit)
		FROM purchases
		WHERE purchase_datetime >= $1 AND purchase_datetime <= $2
		GROUP BY currency_code
		ORDER BY currency_code`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase totals: %w", err)
	}
	defer rows.Close()

	var result []domain.PurchaseTotalRow
	for rows.Next() {
		var row domain.PurchaseTotalRow
		if err := rows.Scan(&row.CurrencyCode, &row.PurchaseCount, &row.TotalCost); err != nil {
			return nil, fmt.Errorf("failed to scan purchase total row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purchase totals: %w", err)
	}
	return result, nil
}
