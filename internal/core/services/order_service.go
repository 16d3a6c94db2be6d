package services

import (
	"context"
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
	"github.com/costbooks/inventory_costing_app/internal/utils/fx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// orderService creates and reads customer orders. Order creation is a
// costing-heavy flow: it prices items from their active price rows, consumes
// FIFO stock for each line, and posts both the income entry and the COGS
// entry in the order's transaction.
type orderService struct {
	txManager    portsrepo.TransactionManager
	orderRepo    portsrepo.OrderRepositoryWithTx
	productRepo  portsrepo.ProductRepositoryFacade
	journalRepo  portsrepo.JournalRepositoryWithTx
	inventorySvc *InventoryService
	accountSvc   portssvc.AccountSvcFacade
	fxSvc        portssvc.FXRateSvcFacade
	primary      string
}

// NewOrderService creates a new order service.
func NewOrderService(
	txManager portsrepo.TransactionManager,
	orderRepo portsrepo.OrderRepositoryWithTx,
	productRepo portsrepo.ProductRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryWithTx,
	inventorySvc *InventoryService,
	accountSvc portssvc.AccountSvcFacade,
	fxSvc portssvc.FXRateSvcFacade,
	primaryCurrencyCode string,
) portssvc.OrderSvcFacade {
	return &orderService{
		txManager:    txManager,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		journalRepo:  journalRepo,
		inventorySvc: inventorySvc,
		accountSvc:   accountSvc,
		fxSvc:        fxSvc,
		primary:      strings.ToUpper(primaryCurrencyCode),
	}
}

var _ portssvc.OrderSvcFacade = (*orderService)(nil)

// GetOrderByID retrieves an order with its items.
func (s *orderService) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, []domain.OrderItem, error) {
	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	items, err := s.orderRepo.FindItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get items for order %s: %w", orderID, err)
	}
	return order, items, nil
}

// ListOrders retrieves orders with keyset pagination.
func (s *orderService) ListOrders(ctx context.Context, limit int, nextToken string) ([]domain.Order, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	orders, next, err := s.orderRepo.ListOrders(ctx, limit, nextToken)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, next, nil
}

// CreateOrder prices each item from its active price row, persists the order,
// runs FIFO costing for every line and posts the income and COGS entries
// atomically with the stock changes.
func (s *orderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, creatorUserID string) (*domain.Order, []domain.OrderItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	orderCurrency := strings.ToUpper(req.CurrencyCode)
	if orderCurrency == "" {
		orderCurrency = s.primary
	}
	snapshot, err := s.fxSvc.SnapshotRates(ctx)
	if err != nil {
		return nil, nil, err
	}

	accountIDs, err := s.resolveAccounts(ctx)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	orderID := uuid.NewString()

	// Price every line before touching storage so a pricing failure costs
	// nothing.
	items := make([]domain.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, line := range req.Items {
		product, err := s.productRepo.FindProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to validate product %s: %w", line.ProductID, err)
		}
		if !product.IsActive {
			return nil, nil, fmt.Errorf("%w: product %s is inactive", apperrors.ErrValidation, line.ProductID)
		}

		price, err := s.productRepo.FindActivePrice(ctx, line.ProductID, now)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to find active price for product %s: %w", line.ProductID, err)
		}

		lineTotal := price.Price.Mul(decimal.NewFromInt(line.Quantity))
		lineInOrderCcy, err := fx.Convert(lineTotal, price.CurrencyCode, orderCurrency, snapshot)
		if err != nil {
			return nil, nil, err
		}
		total = total.Add(lineInOrderCcy)

		items = append(items, domain.OrderItem{
			ItemID:       uuid.NewString(),
			OrderID:      orderID,
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			Price:        price.Price,
			CurrencyCode: price.CurrencyCode,
		})
	}

	order := domain.Order{
		OrderID:      orderID,
		Reference:    req.Reference,
		CustomerID:   req.CustomerID,
		CurrencyCode: orderCurrency,
		TotalAmount:  total,
		Status:       domain.OrderCompleted,
		AuditFields:  domain.NewAuditFields(creatorUserID, now),
	}

	// Income posts in the order currency; rates only price the lines above.
	incomeEntry, err := accounting.NewEntryBuilder(
		fmt.Sprintf("Sales income for order %s (%s)", orderID, orderCurrency),
		orderID,
		now,
	).
		Debit(accountIDs.cash, total, "cash received").
		Credit(accountIDs.salesIncome, total, "sales income").
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

	if err := s.orderRepo.InsertOrderInTx(ctx, tx, order); err != nil {
		return nil, nil, fmt.Errorf("failed to insert order: %w", err)
	}
	if err := s.orderRepo.InsertOrderItemsInTx(ctx, tx, items); err != nil {
		return nil, nil, fmt.Errorf("failed to insert order items: %w", err)
	}

	cogsBuilder := accounting.NewEntryBuilder(
		fmt.Sprintf("COGS for order %s", orderID),
		orderID,
		now,
	)
	for _, item := range items {
		layers, err := s.inventorySvc.LockLayersTx(ctx, tx, item.ProductID)
		if err != nil {
			return nil, nil, err
		}
		consumptions, err := s.inventorySvc.ConsumeFIFOTx(ctx, tx, item.ProductID, item.Quantity, layers)
		if err != nil {
			return nil, nil, err
		}
		for _, c := range consumptions {
			lineDesc := fmt.Sprintf("%d units from batch %s (%s)", c.QuantityTaken, c.Batch.BatchID, c.CurrencyCode)
			cogsBuilder.Debit(accountIDs.cogs, c.Cost(), lineDesc).
				Credit(accountIDs.inventory, c.Cost(), lineDesc)
		}
	}

	cogsEntry, err := cogsBuilder.Build(creatorUserID, now)
	if err != nil {
		return nil, nil, err
	}
	if err := s.journalRepo.SaveEntryInTx(ctx, tx, cogsEntry); err != nil {
		return nil, nil, fmt.Errorf("failed to post COGS entry: %w", err)
	}
	if err := s.journalRepo.SaveEntryInTx(ctx, tx, incomeEntry); err != nil {
		return nil, nil, fmt.Errorf("failed to post income entry: %w", err)
	}

	if err := s.txManager.Commit(ctx, tx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit order: %w", err)
	}

	logger.Info("order created",
		slog.String("order_id", orderID),
		slog.String("customer_id", req.CustomerID),
		slog.String("total", total.String()),
		slog.String("currency", orderCurrency))
	return &order, items, nil
}

type orderAccountIDs struct {
	cash        string
	salesIncome string
	cogs        string
	inventory   string
}

func (s *orderService) resolveAccounts(ctx context.Context) (*orderAccountIDs, error) {
	byCode := func(code string) (string, error) {
		account, err := s.accountSvc.GetAccountByCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("%w: account code %s", apperrors.ErrMissingAccount, code)
		}
		return account.AccountID, nil
	}

	var ids orderAccountIDs
	var err error
	if ids.cash, err = byCode(domain.AccountCodeCash); err != nil {
		return nil, err
	}
	if ids.salesIncome, err = byCode(domain.AccountCodeSalesIncome); err != nil {
		return nil, err
	}
	if ids.cogs, err = byCode(domain.AccountCodeCOGS); err != nil {
		return nil, err
	}
	if ids.inventory, err = byCode(domain.AccountCodeInventory); err != nil {
		return nil, err
	}
	return &ids, nil
}
