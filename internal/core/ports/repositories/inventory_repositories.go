package repositories

import (
	"context"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// InventoryReader defines read operations for batches and stock totals.
type InventoryReader interface {
	// FindCostLayers retrieves a product's batches joined with their purchase
	// cost data, ordered by purchase datetime ascending (FIFO order).
	// Zero-stock batches are included.
	FindCostLayers(ctx context.Context, productID string) ([]domain.CostLayer, error)

	// FindBatchByID retrieves a single batch.
	FindBatchByID(ctx context.Context, batchID string) (*domain.InventoryBatch, error)

	// FindProductInventory retrieves the cached stock total for a product.
	FindProductInventory(ctx context.Context, productID string) (*domain.ProductInventory, error)
}

// InventoryWriter defines the tx-scoped mutations used by FIFO consumption
// and adjustment flows. Callers lock layers first, mutate, then recompute the
// cached total inside the same transaction.
type InventoryWriter interface {
	// FindCostLayersForUpdate locks a product's batch rows (SELECT ... FOR
	// UPDATE) and returns them in FIFO order with cost data attached.
	FindCostLayersForUpdate(ctx context.Context, tx pgx.Tx, productID string) ([]domain.CostLayer, error)

	// FindBatchByPurchaseForUpdate locks the batch created by a purchase.
	FindBatchByPurchaseForUpdate(ctx context.Context, tx pgx.Tx, purchaseID string) (*domain.InventoryBatch, error)

	// UpdateBatchStockInTx sets a batch's remaining stock.
	UpdateBatchStockInTx(ctx context.Context, tx pgx.Tx, batchID string, stock int64) error

	// InsertBatchInTx inserts a new batch row.
	InsertBatchInTx(ctx context.Context, tx pgx.Tx, batch domain.InventoryBatch) error

	// RecomputeProductInventoryInTx rewrites the cached total as the sum of
	// the product's batch stocks.
	RecomputeProductInventoryInTx(ctx context.Context, tx pgx.Tx, productID string) error
}

// InventoryRepositoryFacade combines all inventory repository interfaces.
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryWriter
}

// InventoryRepositoryWithTx extends InventoryRepositoryFacade with transaction capabilities.
type InventoryRepositoryWithTx interface {
	InventoryRepositoryFacade
	TransactionManager
}
