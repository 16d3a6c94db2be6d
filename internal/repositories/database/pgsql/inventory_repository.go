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

// PgxInventoryRepository implements the inventory repository interfaces using
// pgxpool. Cost-layer reads join batches with their owning purchase so that
// FIFO consumers see unit cost and purchase datetime in one round trip.
type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new PgxInventoryRepository.
func newPgxInventoryRepository(db *pgxpool.Pool) *PgxInventoryRepository {
	return &PgxInventoryRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.InventoryRepositoryWithTx = (*PgxInventoryRepository)(nil)

const batchColumns = `batch_id, product_id, purchase_id, stock, location, origin,
	created_at, created_by, last_updated_at, last_updated_by`

func scanBatch(row pgx.Row) (*domain.InventoryBatch, error) {
	var b domain.InventoryBatch
	err := row.Scan(
		&b.BatchID, &b.ProductID, &b.PurchaseID, &b.Stock, &b.Location, &b.Origin,
		&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

const costLayerQuery = `
	SELECT b.batch_id, b.product_id, b.purchase_id, b.stock, b.location, b.origin,
		b.created_at, b.created_by, b.last_updated_at, b.last_updated_by,
		p.price_per_unit, p.currency_code, p.purchase_datetime
	FROM inventory_batches b
	JOIN purchases p ON p.purchase_id = b.purchase_id
	WHERE b.product_id = $1
	ORDER BY p.purchase_datetime ASC, b.created_at ASC`

func collectCostLayers(rows pgx.Rows) ([]domain.CostLayer, error) {
	defer rows.Close()
	var layers []domain.CostLayer
	for rows.Next() {
		var l domain.CostLayer
		err := rows.Scan(
			&l.Batch.BatchID, &l.Batch.ProductID, &l.Batch.PurchaseID, &l.Batch.Stock,
			&l.Batch.Location, &l.Batch.Origin,
			&l.Batch.CreatedAt, &l.Batch.CreatedBy, &l.Batch.LastUpdatedAt, &l.Batch.LastUpdatedBy,
			&l.UnitCost, &l.CurrencyCode, &l.PurchaseDatetime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cost layer: %w", err)
		}
		layers = append(layers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cost layers: %w", err)
	}
	return layers, nil
}

// FindCostLayers retrieves a product's batches with cost data in FIFO order.
func (r *PgxInventoryRepository) FindCostLayers(ctx context.Context, productID string) ([]domain.CostLayer, error) {
	rows, err := r.Pool.Query(ctx, costLayerQuery, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cost layers: %w", err)
	}
	return collectCostLayers(rows)
}

// FindCostLayersForUpdate locks a product's batch rows and returns them in
// FIFO order with cost data attached. The lock applies to the batch rows only;
// purchases are read without locking.
func (r *PgxInventoryRepository) FindCostLayersForUpdate(ctx context.Context, tx pgx.Tx, productID string) ([]domain.CostLayer, error) {
	rows, err := tx.Query(ctx, costLayerQuery+` FOR UPDATE OF b`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cost layers: %w", err)
	}
	return collectCostLayers(rows)
}

// FindBatchByID retrieves a single batch.
func (r *PgxInventoryRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.InventoryBatch, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+batchColumns+` FROM inventory_batches WHERE batch_id = $1`, batchID)
	batch, err := scanBatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: batch %s", apperrors.ErrNotFound, batchID)
		}
		return nil, fmt.Errorf("failed to find batch: %w", err)
	}
	return batch, nil
}

// FindBatchByPurchaseForUpdate locks the batch created by a purchase.
func (r *PgxInventoryRepository) FindBatchByPurchaseForUpdate(ctx context.Context, tx pgx.Tx, purchaseID string) (*domain.InventoryBatch, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+batchColumns+` FROM inventory_batches WHERE purchase_id = $1 FOR UPDATE`, purchaseID)
	batch, err := scanBatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: batch for purchase %s", apperrors.ErrNotFound, purchaseID)
		}
		return nil, fmt.Errorf("failed to lock batch: %w", err)
	}
	return batch, nil
}

// UpdateBatchStockInTx sets a batch's remaining stock.
func (r *PgxInventoryRepository) UpdateBatchStockInTx(ctx context.Context, tx pgx.Tx, batchID string, stock int64) error {
	tag, err := tx.Exec(ctx, `
		UPDATE inventory_batches
		SET stock = $1, last_updated_at = NOW()
		WHERE batch_id = $2`, stock, batchID)
	if err != nil {
		return mapWriteError(err, "batch "+batchID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: batch %s", apperrors.ErrNotFound, batchID)
	}
	return nil
}

// InsertBatchInTx inserts a new batch row.
func (r *PgxInventoryRepository) InsertBatchInTx(ctx context.Context, tx pgx.Tx, batch domain.InventoryBatch) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO inventory_batches (
			batch_id, product_id, purchase_id, stock, location, origin,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		batch.BatchID, batch.ProductID, batch.PurchaseID, batch.Stock, batch.Location, batch.Origin,
		batch.CreatedAt, batch.CreatedBy, batch.LastUpdatedAt, batch.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "batch "+batch.BatchID)
	}
	return nil
}

// RecomputeProductInventoryInTx rewrites the cached per-product total as the
// sum of batch stock. The batch sum is authoritative; this keeps the cache in
// step within the same transaction that mutated the batches.
func (r *PgxInventoryRepository) RecomputeProductInventoryInTx(ctx context.Context, tx pgx.Tx, productID string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO product_inventory (product_id, total_stock, created_at, created_by, last_updated_at, last_updated_by)
		SELECT $1, COALESCE(SUM(stock), 0), NOW(), 'system', NOW(), 'system'
		FROM inventory_batches WHERE product_id = $1
		ON CONFLICT (product_id) DO UPDATE
		SET total_stock = EXCLUDED.total_stock, last_updated_at = NOW()`, productID)
	if err != nil {
		return mapWriteError(err, "product inventory "+productID)
	}
	return nil
}

// FindProductInventory retrieves the cached stock total for a product. A
// product with no batches yet has no row; that maps to ErrNotFound.
func (r *PgxInventoryRepository) FindProductInventory(ctx context.Context, productID string) (*domain.ProductInventory, error) {
	var inv domain.ProductInventory
	err := r.Pool.QueryRow(ctx, `
		SELECT product_id, total_stock, created_at, created_by, last_updated_at, last_updated_by
		FROM product_inventory WHERE product_id = $1`, productID,
	).Scan(
		&inv.ProductID, &inv.TotalStock,
		&inv.CreatedAt, &inv.CreatedBy, &inv.LastUpdatedAt, &inv.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: inventory for product %s", apperrors.ErrNotFound, productID)
		}
		return nil, fmt.Errorf("failed to find product inventory: %w", err)
	}
	return &inv, nil
}
