package services_test

import (
	"context"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/costbooks/inventory_costing_app/internal/dto"
	"github.com/costbooks/inventory_costing_app/internal/utils/fx"
)

// --- Mock CurrencyRepository ---

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context, onlyActive bool) ([]domain.Currency, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- Mock FXRateRepository ---

type MockFXRateRepository struct {
	mock.Mock
}

func (m *MockFXRateRepository) FindActiveRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.FXRate, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FXRate), args.Error(1)
}

func (m *MockFXRateRepository) ListActiveRates(ctx context.Context) ([]domain.FXRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FXRate), args.Error(1)
}

func (m *MockFXRateRepository) ListActiveRatesFrom(ctx context.Context, fromCurrencyCode string) ([]domain.FXRate, error) {
	args := m.Called(ctx, fromCurrencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FXRate), args.Error(1)
}

func (m *MockFXRateRepository) ListRateHistory(ctx context.Context, fromCurrencyCode, toCurrencyCode string) ([]domain.FXRate, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FXRate), args.Error(1)
}

func (m *MockFXRateRepository) FindActiveRateForUpdate(ctx context.Context, tx pgx.Tx, fromCurrencyCode, toCurrencyCode string) (*domain.FXRate, error) {
	args := m.Called(ctx, tx, fromCurrencyCode, toCurrencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FXRate), args.Error(1)
}

func (m *MockFXRateRepository) ListActiveRatesFromForUpdate(ctx context.Context, tx pgx.Tx, fromCurrencyCode string) ([]domain.FXRate, error) {
	args := m.Called(ctx, tx, fromCurrencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FXRate), args.Error(1)
}

func (m *MockFXRateRepository) EndDateRateInTx(ctx context.Context, tx pgx.Tx, rateID string, endDate time.Time, actingUserID string, now time.Time) error {
	args := m.Called(ctx, tx, rateID, endDate, actingUserID, now)
	return args.Error(0)
}

func (m *MockFXRateRepository) InsertRateInTx(ctx context.Context, tx pgx.Tx, rate domain.FXRate) error {
	args := m.Called(ctx, tx, rate)
	return args.Error(0)
}

func (m *MockFXRateRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockFXRateRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockFXRateRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByDateRange(ctx context.Context, from, to time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, from, to, limit, nextToken)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockJournalRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock InventoryRepository ---

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindCostLayers(ctx context.Context, productID string) ([]domain.CostLayer, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostLayer), args.Error(1)
}

func (m *MockInventoryRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.InventoryBatch, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryBatch), args.Error(1)
}

func (m *MockInventoryRepository) FindProductInventory(ctx context.Context, productID string) (*domain.ProductInventory, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductInventory), args.Error(1)
}

func (m *MockInventoryRepository) FindCostLayersForUpdate(ctx context.Context, tx pgx.Tx, productID string) ([]domain.CostLayer, error) {
	args := m.Called(ctx, tx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CostLayer), args.Error(1)
}

func (m *MockInventoryRepository) FindBatchByPurchaseForUpdate(ctx context.Context, tx pgx.Tx, purchaseID string) (*domain.InventoryBatch, error) {
	args := m.Called(ctx, tx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryBatch), args.Error(1)
}

func (m *MockInventoryRepository) UpdateBatchStockInTx(ctx context.Context, tx pgx.Tx, batchID string, stock int64) error {
	args := m.Called(ctx, tx, batchID, stock)
	return args.Error(0)
}

func (m *MockInventoryRepository) InsertBatchInTx(ctx context.Context, tx pgx.Tx, batch domain.InventoryBatch) error {
	args := m.Called(ctx, tx, batch)
	return args.Error(0)
}

func (m *MockInventoryRepository) RecomputeProductInventoryInTx(ctx context.Context, tx pgx.Tx, productID string) error {
	args := m.Called(ctx, tx, productID)
	return args.Error(0)
}

func (m *MockInventoryRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockInventoryRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInventoryRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock PurchaseRepository ---

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) ListPurchasesByProduct(ctx context.Context, productID string, limit int) ([]domain.Purchase, error) {
	args := m.Called(ctx, productID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) InsertPurchaseInTx(ctx context.Context, tx pgx.Tx, purchase domain.Purchase) error {
	args := m.Called(ctx, tx, purchase)
	return args.Error(0)
}

func (m *MockPurchaseRepository) FindPurchaseForUpdate(ctx context.Context, tx pgx.Tx, purchaseID string) (*domain.Purchase, error) {
	args := m.Called(ctx, tx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) UpdatePurchaseInTx(ctx context.Context, tx pgx.Tx, purchase domain.Purchase) error {
	args := m.Called(ctx, tx, purchase)
	return args.Error(0)
}

func (m *MockPurchaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockPurchaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockPurchaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock ProductRepository ---

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, onlyActive bool) ([]domain.Product, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindActivePrice(ctx context.Context, productID string, at time.Time) (*domain.ProductPrice, error) {
	args := m.Called(ctx, productID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductPrice), args.Error(1)
}

func (m *MockProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SavePrice(ctx context.Context, price domain.ProductPrice) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}

// --- Mock OrderRepository ---

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context, limit int, nextToken string) ([]domain.Order, string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.String(1), args.Error(2)
}

func (m *MockOrderRepository) InsertOrderInTx(ctx context.Context, tx pgx.Tx, order domain.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) InsertOrderItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrderStatusInTx(ctx context.Context, tx pgx.Tx, orderID string, status domain.OrderStatus, actingUserID string) error {
	args := m.Called(ctx, tx, orderID, status, actingUserID)
	return args.Error(0)
}

func (m *MockOrderRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockOrderRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockOrderRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) FindStockValueRows(ctx context.Context) ([]domain.StockValueRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockValueRow), args.Error(1)
}

func (m *MockReportingRepository) FindPurchaseTotals(ctx context.Context, from, to time.Time) ([]domain.PurchaseTotalRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseTotalRow), args.Error(1)
}

// --- Mock FXRateSvc ---

type MockFXRateSvc struct {
	mock.Mock
}

func (m *MockFXRateSvc) GetActiveRate(ctx context.Context, fromCode, toCode string) (*domain.FXRate, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FXRate), args.Error(1)
}

func (m *MockFXRateSvc) GetRateHistory(ctx context.Context, fromCode, toCode string) ([]domain.FXRate, error) {
	args := m.Called(ctx, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FXRate), args.Error(1)
}

func (m *MockFXRateSvc) ListActiveRatesAgainstPrimary(ctx context.Context) ([]domain.FXRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FXRate), args.Error(1)
}

func (m *MockFXRateSvc) SnapshotRates(ctx context.Context) (fx.RateMap, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(fx.RateMap), args.Error(1)
}

func (m *MockFXRateSvc) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, amount, fromCode, toCode)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockFXRateSvc) SetRateAgainstPrimary(ctx context.Context, req dto.SetRateRequest, creatorUserID string) ([]domain.FXRate, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FXRate), args.Error(1)
}

// --- Mock RatesRepository ---

type MockRatesRepository struct {
	mock.Mock
}

func (m *MockRatesRepository) FindActiveProfitRate(ctx context.Context) (*domain.ProfitRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfitRate), args.Error(1)
}

func (m *MockRatesRepository) ListProfitRateHistory(ctx context.Context) ([]domain.ProfitRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProfitRate), args.Error(1)
}

func (m *MockRatesRepository) FindActiveWeightCost(ctx context.Context) (*domain.WeightCost, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeightCost), args.Error(1)
}

func (m *MockRatesRepository) ListWeightCostHistory(ctx context.Context) ([]domain.WeightCost, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WeightCost), args.Error(1)
}

func (m *MockRatesRepository) FindActiveProfitRateForUpdate(ctx context.Context, tx pgx.Tx) (*domain.ProfitRate, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfitRate), args.Error(1)
}

func (m *MockRatesRepository) EndDateProfitRateInTx(ctx context.Context, tx pgx.Tx, profitRateID string, endDate time.Time, actingUserID string, now time.Time) error {
	args := m.Called(ctx, tx, profitRateID, endDate, actingUserID, now)
	return args.Error(0)
}

func (m *MockRatesRepository) InsertProfitRateInTx(ctx context.Context, tx pgx.Tx, rate domain.ProfitRate) error {
	args := m.Called(ctx, tx, rate)
	return args.Error(0)
}

func (m *MockRatesRepository) FindActiveWeightCostForUpdate(ctx context.Context, tx pgx.Tx) (*domain.WeightCost, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeightCost), args.Error(1)
}

func (m *MockRatesRepository) EndDateWeightCostInTx(ctx context.Context, tx pgx.Tx, weightCostID string, endDate time.Time, actingUserID string, now time.Time) error {
	args := m.Called(ctx, tx, weightCostID, endDate, actingUserID, now)
	return args.Error(0)
}

func (m *MockRatesRepository) InsertWeightCostInTx(ctx context.Context, tx pgx.Tx, cost domain.WeightCost) error {
	args := m.Called(ctx, tx, cost)
	return args.Error(0)
}

func (m *MockRatesRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockRatesRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockRatesRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
