package services

import (
	"context"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/costbooks/inventory_costing_app/internal/dto"
)

// SaleResult carries the costing outcome of a FIFO sale.
type SaleResult struct {
	ProductID    string
	Quantity     int64
	Consumptions []domain.BatchConsumption
	Entry        *domain.JournalEntry
}

// AdjustmentResult carries the outcome of a direct stock adjustment. Entry is
// nil when the requested quantity already matched the on-hand total.
type AdjustmentResult struct {
	ProductID    string
	PreviousQty  int64
	NewQty       int64
	Diff         int64
	Consumptions []domain.BatchConsumption
	Entry        *domain.JournalEntry
}

// CostingSvcFacade is the orchestrator for inventory movements. Every method
// runs its stock mutation and its balanced journal entry in one transaction:
// either both commit or neither does.
type CostingSvcFacade interface {
	// RecordPurchase inserts the purchase and its batch, posts DR Inventory /
	// CR Accounts Payable, and refreshes the cached stock total.
	RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest, creatorUserID string) (*domain.Purchase, *domain.JournalEntry, error)

	// UpdatePurchase corrects a recorded purchase and posts an adjusting
	// entry for the cost difference. Prior entries are never rewritten.
	UpdatePurchase(ctx context.Context, purchaseID string, req dto.UpdatePurchaseRequest, updaterUserID string) (*domain.Purchase, *domain.JournalEntry, error)

	// RecordSale consumes FIFO layers for the sold quantity and posts one
	// DR COGS / CR Inventory pair per consumed batch. Fails with
	// ErrInsufficientStock before any write when on-hand stock cannot cover
	// the quantity.
	RecordSale(ctx context.Context, req dto.RecordSaleRequest, creatorUserID string) (*SaleResult, error)

	// AdjustInventory moves a product's on-hand total to the requested
	// quantity. Increases create a synthetic purchase and batch; decreases
	// consume FIFO layers; a zero diff writes nothing.
	AdjustInventory(ctx context.Context, req dto.AdjustInventoryRequest, actingUserID string) (*AdjustmentResult, error)
}
