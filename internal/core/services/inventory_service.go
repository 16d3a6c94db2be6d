package services

import (
	"context"
	"fmt"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
)

// InventoryService owns batch-level stock operations. The tx-scoped methods
// are building blocks for the costing flows: they lock, mutate and recompute
// inside the caller's transaction and never commit themselves.
type InventoryService struct {
	invRepo portsrepo.InventoryRepositoryWithTx
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(invRepo portsrepo.InventoryRepositoryWithTx) *InventoryService {
	return &InventoryService{invRepo: invRepo}
}

var _ portssvc.InventoryReaderSvc = (*InventoryService)(nil)

// GetProductInventory retrieves the cached total plus FIFO-ordered layers.
func (s *InventoryService) GetProductInventory(ctx context.Context, productID string) (*domain.ProductInventory, []domain.CostLayer, error) {
	inventory, err := s.invRepo.FindProductInventory(ctx, productID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get inventory for product %s: %w", productID, err)
	}

	layers, err := s.invRepo.FindCostLayers(ctx, productID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get cost layers for product %s: %w", productID, err)
	}
	return inventory, layers, nil
}

// LockLayersTx locks a product's batches for the remainder of the transaction
// and returns them in FIFO order.
func (s *InventoryService) LockLayersTx(ctx context.Context, tx pgx.Tx, productID string) ([]domain.CostLayer, error) {
	layers, err := s.invRepo.FindCostLayersForUpdate(ctx, tx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cost layers for product %s: %w", productID, err)
	}
	return layers, nil
}

// ConsumeFIFOTx walks the locked layers oldest first, draining each batch by
// min(remaining, batch stock) until the quantity is covered. Batches reach
// zero stock but are never deleted. It fails before any write when on-hand
// stock cannot cover the quantity.
func (s *InventoryService) ConsumeFIFOTx(ctx context.Context, tx pgx.Tx, productID string, quantity int64, layers []domain.CostLayer) ([]domain.BatchConsumption, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: consume quantity must be positive", apperrors.ErrValidation)
	}

	var available int64
	for _, l := range layers {
		available += l.Batch.Stock
	}
	if available < quantity {
		return nil, fmt.Errorf("%w: product %s has %d on hand, need %d", apperrors.ErrInsufficientStock, productID, available, quantity)
	}

	remaining := quantity
	var consumptions []domain.BatchConsumption
	for _, layer := range layers {
		if remaining == 0 {
			break
		}
		if layer.Batch.Stock == 0 {
			continue
		}

		take := layer.Batch.Stock
		if remaining < take {
			take = remaining
		}

		newStock := layer.Batch.Stock - take
		if err := s.invRepo.UpdateBatchStockInTx(ctx, tx, layer.Batch.BatchID, newStock); err != nil {
			return nil, fmt.Errorf("failed to update batch %s stock: %w", layer.Batch.BatchID, err)
		}

		batch := layer.Batch
		batch.Stock = newStock
		consumptions = append(consumptions, domain.BatchConsumption{
			Batch:         batch,
			QuantityTaken: take,
			UnitCost:      layer.UnitCost,
			CurrencyCode:  layer.CurrencyCode,
		})
		remaining -= take
	}

	if err := s.invRepo.RecomputeProductInventoryInTx(ctx, tx, productID); err != nil {
		return nil, fmt.Errorf("failed to recompute inventory for product %s: %w", productID, err)
	}
	return consumptions, nil
}

// AdjustBatchForPurchaseTx shifts the stock of a purchase's batch by delta,
// for quantity corrections on the purchase itself. The batch cannot be driven
// below zero: stock already consumed by sales stays consumed.
func (s *InventoryService) AdjustBatchForPurchaseTx(ctx context.Context, tx pgx.Tx, purchaseID string, delta int64) (*domain.InventoryBatch, error) {
	batch, err := s.invRepo.FindBatchByPurchaseForUpdate(ctx, tx, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock batch for purchase %s: %w", purchaseID, err)
	}

	newStock := batch.Stock + delta
	if newStock < 0 {
		return nil, fmt.Errorf("%w: batch %s has %d remaining, cannot remove %d", apperrors.ErrInsufficientStock, batch.BatchID, batch.Stock, -delta)
	}

	if err := s.invRepo.UpdateBatchStockInTx(ctx, tx, batch.BatchID, newStock); err != nil {
		return nil, fmt.Errorf("failed to update batch %s stock: %w", batch.BatchID, err)
	}
	if err := s.invRepo.RecomputeProductInventoryInTx(ctx, tx, batch.ProductID); err != nil {
		return nil, fmt.Errorf("failed to recompute inventory for product %s: %w", batch.ProductID, err)
	}

	batch.Stock = newStock
	return batch, nil
}

// AddBatchTx inserts a new batch and refreshes the product's cached total.
func (s *InventoryService) AddBatchTx(ctx context.Context, tx pgx.Tx, batch domain.InventoryBatch) error {
	if err := s.invRepo.InsertBatchInTx(ctx, tx, batch); err != nil {
		return fmt.Errorf("failed to insert batch for product %s: %w", batch.ProductID, err)
	}
	if err := s.invRepo.RecomputeProductInventoryInTx(ctx, tx, batch.ProductID); err != nil {
		return fmt.Errorf("failed to recompute inventory for product %s: %w", batch.ProductID, err)
	}
	return nil
}
