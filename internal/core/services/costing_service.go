package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
	"github.com/costbooks/inventory_costing_app/internal/dto"
	"github.com/costbooks/inventory_costing_app/internal/middleware"
	"github.com/costbooks/inventory_costing_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// costingService orchestrates inventory movements: every operation mutates
// stock and posts its balanced journal entry inside one transaction. Journal
// amounts are posted in the movement's native currency; FX conversion is a
// pricing and reporting concern, never a posting one.
type costingService struct {
	txManager    portsrepo.TransactionManager
	purchaseRepo portsrepo.PurchaseRepositoryWithTx
	journalRepo  portsrepo.JournalRepositoryWithTx
	productRepo  portsrepo.ProductRepositoryFacade
	inventorySvc *InventoryService
	accountSvc   portssvc.AccountSvcFacade
	primary      string
}

// NewCostingService creates the costing orchestrator.
func NewCostingService(
	txManager portsrepo.TransactionManager,
	purchaseRepo portsrepo.PurchaseRepositoryWithTx,
	journalRepo portsrepo.JournalRepositoryWithTx,
	productRepo portsrepo.ProductRepositoryFacade,
	inventorySvc *InventoryService,
	accountSvc portssvc.AccountSvcFacade,
	primaryCurrencyCode string,
) portssvc.CostingSvcFacade {
	return &costingService{
		txManager:    txManager,
		purchaseRepo: purchaseRepo,
		journalRepo:  journalRepo,
		productRepo:  productRepo,
		inventorySvc: inventorySvc,
		accountSvc:   accountSvc,
		primary:      strings.ToUpper(primaryCurrencyCode),
	}
}

var _ portssvc.CostingSvcFacade = (*costingService)(nil)

// accountIDByCode resolves a well-known account code, mapping absence to
// ErrMissingAccount so posting failures are distinguishable from ordinary
// lookups.
func (s *costingService) accountIDByCode(ctx context.Context, code string) (string, error) {
	account, err := s.accountSvc.GetAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("%w: account code %s", apperrors.ErrMissingAccount, code)
		}
		return "", err
	}
	return account.AccountID, nil
}

// RecordPurchase inserts the purchase and its batch, posts DR Inventory /
// CR Accounts Payable in the purchase currency, and refreshes the cached
// stock total.
func (s *costingService) RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest, creatorUserID string) (*domain.Purchase, *domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.productRepo.FindProductByID(ctx, req.ProductID); err != nil {
		return nil, nil, fmt.Errorf("failed to validate product %s: %w", req.ProductID, err)
	}
	if req.PricePerUnit.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: price per unit must be positive", apperrors.ErrValidation)
	}

	inventoryAccID, err := s.accountIDByCode(ctx, domain.AccountCodeInventory)
	if err != nil {
		return nil, nil, err
	}
	payableAccID, err := s.accountIDByCode(ctx, domain.AccountCodeAccountsPayable)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	purchase := domain.Purchase{
		PurchaseID:       uuid.NewString(),
		ProductID:        req.ProductID,
		Quantity:         req.Quantity,
		PricePerUnit:     req.PricePerUnit,
		CurrencyCode:     strings.ToUpper(req.CurrencyCode),
		PurchaseDatetime: req.PurchaseDatetime,
		AuditFields:      domain.NewAuditFields(creatorUserID, now),
	}

	cost := purchase.TotalCost()
	entry, err := accounting.NewEntryBuilder(
		fmt.Sprintf("Purchase of %d units of product %s (%s)", req.Quantity, req.ProductID, purchase.CurrencyCode),
		purchase.PurchaseID,
		req.PurchaseDatetime,
	).
		Debit(inventoryAccID, cost, "inventory received").
		Credit(payableAccID, cost, "payable to supplier").
		Build(creatorUserID, now)
	if err != nil {
		return nil, nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.txManager.Rollback(ctx, tx)
	}()

	if err := s.purchaseRepo.InsertPurchaseInTx(ctx, tx, purchase); err != nil {
		return nil, nil, fmt.Errorf("failed to insert purchase: %w", err)
	}

	batch := domain.InventoryBatch{
		BatchID:     uuid.NewString(),
		ProductID:   req.ProductID,
		PurchaseID:  purchase.PurchaseID,
		Stock:       req.Quantity,
		Location:    req.Location,
		Origin:      domain.OriginPurchase,
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}
	if err := s.inventorySvc.AddBatchTx(ctx, tx, batch); err != nil {
		return nil, nil, err
	}

	if err := s.journalRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return nil, nil, fmt.Errorf("failed to post purchase entry: %w", err)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	logger.Info("purchase recorded",
		slog.String("purchase_id", purchase.PurchaseID),
		slog.String("product_id", req.ProductID),
		slog.Int64("quantity", req.Quantity),
		slog.String("entry_id", entry.EntryID))
	return &purchase, &entry, nil
}

// UpdatePurchase corrects a recorded purchase. The cost difference is posted
// as a fresh adjusting entry and a quantity change shifts the batch's
// remaining stock; the original entry stays untouched.
func (s *costingService) UpdatePurchase(ctx context.Context, purchaseID string, req dto.UpdatePurchaseRequest, updaterUserID string) (*domain.Purchase, *domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.PricePerUnit == nil && req.Quantity == nil {
		return nil, nil, fmt.Errorf("%w: nothing to update", apperrors.ErrValidation)
	}
	if req.PricePerUnit != nil && req.PricePerUnit.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: price per unit must be positive", apperrors.ErrValidation)
	}

	inventoryAccID, err := s.accountIDByCode(ctx, domain.AccountCodeInventory)
	if err != nil {
		return nil, nil, err
	}
	payableAccID, err := s.accountIDByCode(ctx, domain.AccountCodeAccountsPayable)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.txManager.Rollback(ctx, tx)
	}()

	purchase, err := s.purchaseRepo.FindPurchaseForUpdate(ctx, tx, purchaseID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock purchase %s: %w", purchaseID, err)
	}

	oldCost := purchase.TotalCost()
	updated := *purchase
	if req.PricePerUnit != nil {
		updated.PricePerUnit = *req.PricePerUnit
	}
	if req.Quantity != nil {
		updated.Quantity = *req.Quantity
	}
	updated.Touch(updaterUserID, now)

	if req.Quantity != nil {
		delta := updated.Quantity - purchase.Quantity
		if delta != 0 {
			if _, err := s.inventorySvc.AdjustBatchForPurchaseTx(ctx, tx, purchaseID, delta); err != nil {
				return nil, nil, err
			}
		}
	}

	diff := updated.TotalCost().Sub(oldCost)
	var entry *domain.JournalEntry
	if !diff.IsZero() {
		builder := accounting.NewEntryBuilder(
			fmt.Sprintf("Adjustment for purchase %s correction", purchaseID),
			purchaseID,
			now,
		)
		if diff.IsPositive() {
			builder.Debit(inventoryAccID, diff, "inventory value increase").
				Credit(payableAccID, diff, "additional payable")
		} else {
			abs := diff.Neg()
			builder.Debit(payableAccID, abs, "payable reduction").
				Credit(inventoryAccID, abs, "inventory value decrease")
		}
		built, err := builder.Build(updaterUserID, now)
		if err != nil {
			return nil, nil, err
		}
		if err := s.journalRepo.SaveEntryInTx(ctx, tx, built); err != nil {
			return nil, nil, fmt.Errorf("failed to post adjusting entry: %w", err)
		}
		entry = &built
	}

	if err := s.purchaseRepo.UpdatePurchaseInTx(ctx, tx, updated); err != nil {
		return nil, nil, fmt.Errorf("failed to update purchase %s: %w", purchaseID, err)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit purchase update: %w", err)
	}

	logger.Info("purchase corrected",
		slog.String("purchase_id", purchaseID),
		slog.String("cost_diff", diff.String()))
	return &updated, entry, nil
}

// RecordSale consumes FIFO layers for the sold quantity and posts one
// DR COGS / CR Inventory pair per consumed batch.
func (s *costingService) RecordSale(ctx context.Context, req dto.RecordSaleRequest, creatorUserID string) (*portssvc.SaleResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.productRepo.FindProductByID(ctx, req.ProductID); err != nil {
		return nil, fmt.Errorf("failed to validate product %s: %w", req.ProductID, err)
	}

	cogsAccID, err := s.accountIDByCode(ctx, domain.AccountCodeCOGS)
	if err != nil {
		return nil, err
	}
	inventoryAccID, err := s.accountIDByCode(ctx, domain.AccountCodeInventory)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.txManager.Rollback(ctx, tx)
	}()

	layers, err := s.inventorySvc.LockLayersTx(ctx, tx, req.ProductID)
	if err != nil {
		return nil, err
	}

	consumptions, err := s.inventorySvc.ConsumeFIFOTx(ctx, tx, req.ProductID, req.Quantity, layers)
	if err != nil {
		return nil, err
	}

	builder := accounting.NewEntryBuilder(
		fmt.Sprintf("COGS for sale of %d units of product %s", req.Quantity, req.ProductID),
		req.Reference,
		req.SaleDatetime,
	)
	for _, c := range consumptions {
		lineDesc := fmt.Sprintf("%d units from batch %s (%s)", c.QuantityTaken, c.Batch.BatchID, c.CurrencyCode)
		builder.Debit(cogsAccID, c.Cost(), lineDesc).
			Credit(inventoryAccID, c.Cost(), lineDesc)
	}

	entry, err := builder.Build(creatorUserID, now)
	if err != nil {
		return nil, err
	}
	if err := s.journalRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to post COGS entry: %w", err)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	logger.Info("sale costed",
		slog.String("product_id", req.ProductID),
		slog.Int64("quantity", req.Quantity),
		slog.Int("batches_consumed", len(consumptions)),
		slog.String("entry_id", entry.EntryID))
	return &portssvc.SaleResult{
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		Consumptions: consumptions,
		Entry:        &entry,
	}, nil
}

// AdjustInventory moves a product's on-hand total to the requested quantity.
// Increases create a synthetic purchase valued at the product's active price
// (zero when no price is set) so the new stock has a cost basis; decreases
// consume FIFO layers; a zero diff writes nothing at all.
func (s *costingService) AdjustInventory(ctx context.Context, req dto.AdjustInventoryRequest, actingUserID string) (*portssvc.AdjustmentResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.NewQuantity < 0 {
		return nil, fmt.Errorf("%w: new quantity cannot be negative", apperrors.ErrValidation)
	}
	if _, err := s.productRepo.FindProductByID(ctx, req.ProductID); err != nil {
		return nil, fmt.Errorf("failed to validate product %s: %w", req.ProductID, err)
	}

	inventoryAccID, err := s.accountIDByCode(ctx, domain.AccountCodeInventory)
	if err != nil {
		return nil, err
	}
	payableAccID, err := s.accountIDByCode(ctx, domain.AccountCodeAccountsPayable)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.txManager.Rollback(ctx, tx)
	}()

	layers, err := s.inventorySvc.LockLayersTx(ctx, tx, req.ProductID)
	if err != nil {
		return nil, err
	}

	var currentTotal int64
	for _, l := range layers {
		currentTotal += l.Batch.Stock
	}

	result := &portssvc.AdjustmentResult{
		ProductID:   req.ProductID,
		PreviousQty: currentTotal,
		NewQty:      req.NewQuantity,
		Diff:        req.NewQuantity - currentTotal,
	}

	if result.Diff == 0 {
		// Nothing to reconcile; release the locks without writing.
		return result, nil
	}

	description := fmt.Sprintf("Direct stock adjustment for product %s", req.ProductID)
	if req.Reason != "" {
		description = fmt.Sprintf("%s: %s", description, req.Reason)
	}

	var entry domain.JournalEntry
	if result.Diff > 0 {
		// Found stock is valued at the product's active price. Products
		// without a price get a zero-cost layer rather than an error.
		unitPrice := decimal.Zero
		currency := s.primary
		if price, err := s.productRepo.FindActivePrice(ctx, req.ProductID, now); err == nil {
			unitPrice = price.Price
			currency = strings.ToUpper(price.CurrencyCode)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to resolve active price for product %s: %w", req.ProductID, err)
		}

		// A synthetic purchase gives the found stock a cost basis so later
		// FIFO consumption treats it like any other layer.
		purchase := domain.Purchase{
			PurchaseID:       uuid.NewString(),
			ProductID:        req.ProductID,
			Quantity:         result.Diff,
			PricePerUnit:     unitPrice,
			CurrencyCode:     currency,
			PurchaseDatetime: now,
			AuditFields:      domain.NewAuditFields(actingUserID, now),
		}
		if err := s.purchaseRepo.InsertPurchaseInTx(ctx, tx, purchase); err != nil {
			return nil, fmt.Errorf("failed to insert synthetic purchase: %w", err)
		}

		batch := domain.InventoryBatch{
			BatchID:     uuid.NewString(),
			ProductID:   req.ProductID,
			PurchaseID:  purchase.PurchaseID,
			Stock:       result.Diff,
			Location:    domain.LocationDirectAdmin,
			Origin:      domain.OriginAdjustment,
			AuditFields: domain.NewAuditFields(actingUserID, now),
		}
		if err := s.inventorySvc.AddBatchTx(ctx, tx, batch); err != nil {
			return nil, err
		}

		entry, err = accounting.NewEntryBuilder(description, purchase.PurchaseID, now).
			Debit(inventoryAccID, purchase.TotalCost(), "stock increase").
			Credit(payableAccID, purchase.TotalCost(), "adjustment offset").
			Build(actingUserID, now)
		if err != nil {
			return nil, err
		}
	} else {
		consumptions, err := s.inventorySvc.ConsumeFIFOTx(ctx, tx, req.ProductID, -result.Diff, layers)
		if err != nil {
			return nil, err
		}
		result.Consumptions = consumptions

		builder := accounting.NewEntryBuilder(description, "", now)
		for _, c := range consumptions {
			lineDesc := fmt.Sprintf("%d units from batch %s (%s)", c.QuantityTaken, c.Batch.BatchID, c.CurrencyCode)
			builder.Debit(payableAccID, c.Cost(), lineDesc).
				Credit(inventoryAccID, c.Cost(), lineDesc)
		}
		entry, err = builder.Build(actingUserID, now)
		if err != nil {
			return nil, err
		}
	}

	if err := s.journalRepo.SaveEntryInTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to post adjustment entry: %w", err)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit adjustment: %w", err)
	}
	result.Entry = &entry

	logger.Info("inventory adjusted",
		slog.String("product_id", req.ProductID),
		slog.Int64("previous_qty", result.PreviousQty),
		slog.Int64("new_qty", result.NewQty),
		slog.Int64("diff", result.Diff))
	return result, nil
}
