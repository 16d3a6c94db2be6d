package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
	"github.com/costbooks/inventory_costing_app/internal/core/services"
	"github.com/costbooks/inventory_costing_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CostingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo   *MockJournalRepository
	mockPurchaseRepo  *MockPurchaseRepository
	mockProductRepo   *MockProductRepository
	mockInventoryRepo *MockInventoryRepository
	mockAccountRepo   *MockAccountRepository
	service           portssvc.CostingSvcFacade

	inventoryAccID string
	payableAccID   string
	cogsAccID      string
}

func (suite *CostingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockPurchaseRepo = new(MockPurchaseRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.mockInventoryRepo = new(MockInventoryRepository)
	suite.mockAccountRepo = new(MockAccountRepository)

	suite.inventoryAccID = uuid.NewString()
	suite.payableAccID = uuid.NewString()
	suite.cogsAccID = uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, domain.AccountCodeInventory).
		Return(&domain.Account{AccountID: suite.inventoryAccID, Code: domain.AccountCodeInventory, AccountType: domain.Asset}, nil).Maybe()
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, domain.AccountCodeAccountsPayable).
		Return(&domain.Account{AccountID: suite.payableAccID, Code: domain.AccountCodeAccountsPayable, AccountType: domain.Liability}, nil).Maybe()
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, domain.AccountCodeCOGS).
		Return(&domain.Account{AccountID: suite.cogsAccID, Code: domain.AccountCodeCOGS, AccountType: domain.Expense}, nil).Maybe()

	accountSvc := services.NewAccountService(suite.mockAccountRepo)
	inventorySvc := services.NewInventoryService(suite.mockInventoryRepo)

	suite.service = services.NewCostingService(
		suite.mockJournalRepo,
		suite.mockPurchaseRepo,
		suite.mockJournalRepo,
		suite.mockProductRepo,
		inventorySvc,
		accountSvc,
		"USD",
	)
}

func (suite *CostingServiceTestSuite) expectTx() {
	suite.mockJournalRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockJournalRepo.On("Commit", mock.Anything, nil).Return(nil).Once()
	suite.mockJournalRepo.On("Rollback", mock.Anything, nil).Return(nil).Maybe()
}

func usdLayer(stock int64, unitCost int64, purchasedAt time.Time) domain.CostLayer {
	return domain.CostLayer{
		Batch: domain.InventoryBatch{
			BatchID:    uuid.NewString(),
			ProductID:  "p1",
			PurchaseID: uuid.NewString(),
			Stock:      stock,
			Origin:     domain.OriginPurchase,
		},
		UnitCost:         decimal.NewFromInt(unitCost),
		CurrencyCode:     "USD",
		PurchaseDatetime: purchasedAt,
	}
}

func (suite *CostingServiceTestSuite) TestRecordSale_FIFOAcrossTwoBatches() {
	ctx := context.Background()
	userID := uuid.NewString()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	older := usdLayer(5, 10, base)
	newer := usdLayer(5, 12, base.Add(24*time.Hour))

	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()

	suite.expectTx()
	suite.mockInventoryRepo.On("FindCostLayersForUpdate", ctx, nil, "p1").
		Return([]domain.CostLayer{older, newer}, nil).Once()
	suite.mockInventoryRepo.On("UpdateBatchStockInTx", ctx, nil, older.Batch.BatchID, int64(0)).Return(nil).Once()
	suite.mockInventoryRepo.On("UpdateBatchStockInTx", ctx, nil, newer.Batch.BatchID, int64(3)).Return(nil).Once()
	suite.mockInventoryRepo.On("RecomputeProductInventoryInTx", ctx, nil, "p1").Return(nil).Once()

	var posted domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntryInTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			posted = args.Get(2).(domain.JournalEntry)
		}).Return(nil).Once()

	result, err := suite.service.RecordSale(ctx, dto.RecordSaleRequest{
		ProductID:    "p1",
		Quantity:     7,
		SaleDatetime: base.Add(48 * time.Hour),
	}, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)

	// 5 units at 10 then 2 units at 12: COGS of 74.
	suite.Require().Len(result.Consumptions, 2)
	suite.Equal(int64(5), result.Consumptions[0].QuantityTaken)
	suite.Equal(int64(2), result.Consumptions[1].QuantityTaken)
	suite.Equal(older.Batch.BatchID, result.Consumptions[0].Batch.BatchID)

	suite.Require().Len(posted.Lines, 4)
	suite.True(posted.IsBalanced())
	suite.True(posted.TotalDebit().Equal(decimal.NewFromInt(74)))
	for i, line := range posted.Lines {
		if i%2 == 0 {
			suite.Equal(suite.cogsAccID, line.AccountID)
			suite.True(line.Credit.IsZero())
		} else {
			suite.Equal(suite.inventoryAccID, line.AccountID)
			suite.True(line.Debit.IsZero())
		}
	}

	suite.mockInventoryRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *CostingServiceTestSuite) TestRecordSale_SkipsZeroStockBatches() {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	drained := usdLayer(0, 8, base)
	live := usdLayer(4, 10, base.Add(time.Hour))

	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()

	suite.expectTx()
	suite.mockInventoryRepo.On("FindCostLayersForUpdate", ctx, nil, "p1").
		Return([]domain.CostLayer{drained, live}, nil).Once()
	suite.mockInventoryRepo.On("UpdateBatchStockInTx", ctx, nil, live.Batch.BatchID, int64(1)).Return(nil).Once()
	suite.mockInventoryRepo.On("RecomputeProductInventoryInTx", ctx, nil, "p1").Return(nil).Once()
	suite.mockJournalRepo.On("SaveEntryInTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	result, err := suite.service.RecordSale(ctx, dto.RecordSaleRequest{
		ProductID:    "p1",
		Quantity:     3,
		SaleDatetime: base.Add(2 * time.Hour),
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().Len(result.Consumptions, 1)
	suite.Equal(live.Batch.BatchID, result.Consumptions[0].Batch.BatchID)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "UpdateBatchStockInTx", ctx, nil, drained.Batch.BatchID, mock.Anything)
}

func (suite *CostingServiceTestSuite) TestRecordSale_InsufficientStock() {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	layer := usdLayer(5, 10, base)

	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()

	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("Rollback", ctx, nil).Return(nil).Once()
	suite.mockInventoryRepo.On("FindCostLayersForUpdate", ctx, nil, "p1").
		Return([]domain.CostLayer{layer}, nil).Once()

	result, err := suite.service.RecordSale(ctx, dto.RecordSaleRequest{
		ProductID:    "p1",
		Quantity:     6,
		SaleDatetime: base,
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "UpdateBatchStockInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *CostingServiceTestSuite) TestRecordSale_PostsForeignLayersInBatchCurrency() {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	layer := usdLayer(5, 100, base)
	layer.CurrencyCode = "IQD"

	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()

	suite.expectTx()
	suite.mockInventoryRepo.On("FindCostLayersForUpdate", ctx, nil, "p1").
		Return([]domain.CostLayer{layer}, nil).Once()
	suite.mockInventoryRepo.On("UpdateBatchStockInTx", ctx, nil, layer.Batch.BatchID, int64(2)).Return(nil).Once()
	suite.mockInventoryRepo.On("RecomputeProductInventoryInTx", ctx, nil, "p1").Return(nil).Once()

	var posted domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntryInTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			posted = args.Get(2).(domain.JournalEntry)
		}).Return(nil).Once()

	result, err := suite.service.RecordSale(ctx, dto.RecordSaleRequest{
		ProductID:    "p1",
		Quantity:     3,
		SaleDatetime: base,
	}, uuid.NewString())

	// No exchange rate is configured anywhere: COGS still posts, carrying the
	// batch's own currency amount of 3 * 100 IQD.
	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.True(posted.IsBalanced())
	suite.True(posted.TotalDebit().Equal(decimal.NewFromInt(300)))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *CostingServiceTestSuite) TestRecordPurchase_PostsBalancedEntry() {
	ctx := context.Background()
	userID := uuid.NewString()
	when := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()

	suite.expectTx()

	var savedPurchase domain.Purchase
	suite.mockPurchaseRepo.On("InsertPurchaseInTx", ctx, nil, mock.AnythingOfType("domain.Purchase")).
		Run(func(args mock.Arguments) {
			savedPurchase = args.Get(2).(domain.Purchase)
		}).Return(nil).Once()

	var savedBatch domain.InventoryBatch
	suite.mockInventoryRepo.On("InsertBatchInTx", ctx, nil, mock.AnythingOfType("domain.InventoryBatch")).
		Run(func(args mock.Arguments) {
			savedBatch = args.Get(2).(domain.InventoryBatch)
		}).Return(nil).Once()
	suite.mockInventoryRepo.On("RecomputeProductInventoryInTx", ctx, nil, "p1").Return(nil).Once()

	var posted domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntryInTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			posted = args.Get(2).(domain.JournalEntry)
		}).Return(nil).Once()

	purchase, entry, err := suite.service.RecordPurchase(ctx, dto.RecordPurchaseRequest{
		ProductID:        "p1",
		Quantity:         5,
		PricePerUnit:     decimal.NewFromInt(10),
		CurrencyCode:     "USD",
		PurchaseDatetime: when,
		Location:         "warehouse-a",
	}, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(purchase)
	suite.Require().NotNil(entry)

	suite.Equal(savedPurchase.PurchaseID, savedBatch.PurchaseID)
	suite.Equal(int64(5), savedBatch.Stock)
	suite.Equal(domain.OriginPurchase, savedBatch.Origin)
	suite.Equal("warehouse-a", savedBatch.Location)

	suite.Require().Len(posted.Lines, 2)
	suite.True(posted.IsBalanced())
	suite.True(posted.TotalDebit().Equal(decimal.NewFromInt(50)))
	suite.Equal(suite.inventoryAccID, posted.Lines[0].AccountID)
	suite.Equal(suite.payableAccID, posted.Lines[1].AccountID)
	suite.Equal(savedPurchase.PurchaseID, posted.Reference)

	suite.mockPurchaseRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *CostingServiceTestSuite) TestRecordPurchase_PostsInPurchaseCurrency() {
	ctx := context.Background()
	when := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)

	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()

	suite.expectTx()
	suite.mockPurchaseRepo.On("InsertPurchaseInTx", ctx, nil, mock.AnythingOfType("domain.Purchase")).Return(nil).Once()
	suite.mockInventoryRepo.On("InsertBatchInTx", ctx, nil, mock.AnythingOfType("domain.InventoryBatch")).Return(nil).Once()
	suite.mockInventoryRepo.On("RecomputeProductInventoryInTx", ctx, nil, "p1").Return(nil).Once()

	var posted domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntryInTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			posted = args.Get(2).(domain.JournalEntry)
		}).Return(nil).Once()

	// JPY has no configured rate against the primary currency; the purchase
	// must still post, denominated in JPY.
	purchase, entry, err := suite.service.RecordPurchase(ctx, dto.RecordPurchaseRequest{
		ProductID:        "p1",
		Quantity:         3,
		PricePerUnit:     decimal.NewFromInt(1000),
		CurrencyCode:     "JPY",
		PurchaseDatetime: when,
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal("JPY", purchase.CurrencyCode)
	suite.Require().NotNil(entry)
	suite.True(posted.IsBalanced())
	suite.True(posted.TotalDebit().Equal(decimal.NewFromInt(3000)))
	suite.True(posted.TotalCredit().Equal(decimal.NewFromInt(3000)))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *CostingServiceTestSuite) TestAdjustInventory_ZeroDiffWritesNothing() {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	layer := usdLayer(8, 10, base)

	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()

	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("Rollback", ctx, nil).Return(nil).Once()
	suite.mockInventoryRepo.On("FindCostLayersForUpdate", ctx, nil, "p1").
		Return([]domain.CostLayer{layer}, nil).Once()

	result, err := suite.service.AdjustInventory(ctx, dto.AdjustInventoryRequest{
		ProductID:   "p1",
		NewQuantity: 8,
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(int64(0), result.Diff)
	suite.Nil(result.Entry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntryInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockPurchaseRepo.AssertNotCalled(suite.T(), "InsertPurchaseInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "UpdateBatchStockInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CostingServiceTestSuite) TestAdjustInventory_IncreaseCreatesSyntheticPurchase() {
	ctx := context.Background()
	userID := uuid.NewString()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	layer := usdLayer(5, 10, base)
	price := decimal.NewFromInt(7)

	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()
	suite.mockProductRepo.On("FindActivePrice", ctx, "p1", mock.AnythingOfType("time.Time")).
		Return(&domain.ProductPrice{ProductID: "p1", Price: price, CurrencyCode: "USD"}, nil).Once()

	suite.expectTx()
	suite.mockInventoryRepo.On("FindCostLayersForUpdate", ctx, nil, "p1").
		Return([]domain.CostLayer{layer}, nil).Once()

	var savedPurchase domain.Purchase
	suite.mockPurchaseRepo.On("InsertPurchaseInTx", ctx, nil, mock.AnythingOfType("domain.Purchase")).
		Run(func(args mock.Arguments) {
			savedPurchase = args.Get(2).(domain.Purchase)
		}).Return(nil).Once()

	var savedBatch domain.InventoryBatch
	suite.mockInventoryRepo.On("InsertBatchInTx", ctx, nil, mock.AnythingOfType("domain.InventoryBatch")).
		Run(func(args mock.Arguments) {
			savedBatch = args.Get(2).(domain.InventoryBatch)
		}).Return(nil).Once()
	suite.mockInventoryRepo.On("RecomputeProductInventoryInTx", ctx, nil, "p1").Return(nil).Once()

	var posted domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntryInTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			posted = args.Get(2).(domain.JournalEntry)
		}).Return(nil).Once()

	result, err := suite.service.AdjustInventory(ctx, dto.AdjustInventoryRequest{
		ProductID:   "p1",
		NewQuantity: 8,
		Reason:      "stock count",
	}, userID)

	suite.Require().NoError(err)
	suite.Equal(int64(3), result.Diff)
	suite.Require().NotNil(result.Entry)

	// The found stock is valued at the product's active price of 7.
	suite.Equal(int64(3), savedPurchase.Quantity)
	suite.True(savedPurchase.PricePerUnit.Equal(price))
	suite.Equal("USD", savedPurchase.CurrencyCode)

	suite.Equal(domain.OriginAdjustment, savedBatch.Origin)
	suite.Equal(domain.LocationDirectAdmin, savedBatch.Location)
	suite.Equal(int64(3), savedBatch.Stock)

	suite.True(posted.IsBalanced())
	suite.True(posted.TotalDebit().Equal(decimal.NewFromInt(21)))
	suite.Equal(suite.inventoryAccID, posted.Lines[0].AccountID)
	suite.Equal(suite.payableAccID, posted.Lines[1].AccountID)
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func (suite *CostingServiceTestSuite) TestAdjustInventory_IncreaseWithoutPriceIsZeroCost() {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	layer := usdLayer(5, 10, base)

	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()
	suite.mockProductRepo.On("FindActivePrice", ctx, "p1", mock.AnythingOfType("time.Time")).
		Return(nil, apperrors.ErrNotFound).Once()

	suite.expectTx()
	suite.mockInventoryRepo.On("FindCostLayersForUpdate", ctx, nil, "p1").
		Return([]domain.CostLayer{layer}, nil).Once()

	var savedPurchase domain.Purchase
	suite.mockPurchaseRepo.On("InsertPurchaseInTx", ctx, nil, mock.AnythingOfType("domain.Purchase")).
		Run(func(args mock.Arguments) {
			savedPurchase = args.Get(2).(domain.Purchase)
		}).Return(nil).Once()

	var savedBatch domain.InventoryBatch
	suite.mockInventoryRepo.On("InsertBatchInTx", ctx, nil, mock.AnythingOfType("domain.InventoryBatch")).
		Run(func(args mock.Arguments) {
			savedBatch = args.Get(2).(domain.InventoryBatch)
		}).Return(nil).Once()
	suite.mockInventoryRepo.On("RecomputeProductInventoryInTx", ctx, nil, "p1").Return(nil).Once()

	var posted domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntryInTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			posted = args.Get(2).(domain.JournalEntry)
		}).Return(nil).Once()

	result, err := suite.service.AdjustInventory(ctx, dto.AdjustInventoryRequest{
		ProductID:   "p1",
		NewQuantity: 9,
	}, uuid.NewString())

	// No active price: the adjustment still lands, as a zero-cost layer.
	suite.Require().NoError(err)
	suite.Equal(int64(4), result.Diff)
	suite.Require().NotNil(result.Entry)
	suite.True(savedPurchase.PricePerUnit.IsZero())
	suite.Equal("USD", savedPurchase.CurrencyCode)
	suite.Equal(int64(4), savedBatch.Stock)
	suite.True(posted.IsBalanced())
	suite.True(posted.TotalDebit().IsZero())
}

func (suite *CostingServiceTestSuite) TestAdjustInventory_DecreaseConsumesFIFO() {
	ctx := context.Background()
	userID := uuid.NewString()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	older := usdLayer(4, 10, base)
	newer := usdLayer(4, 12, base.Add(time.Hour))

	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()

	suite.expectTx()
	suite.mockInventoryRepo.On("FindCostLayersForUpdate", ctx, nil, "p1").
		Return([]domain.CostLayer{older, newer}, nil).Once()
	suite.mockInventoryRepo.On("UpdateBatchStockInTx", ctx, nil, older.Batch.BatchID, int64(0)).Return(nil).Once()
	suite.mockInventoryRepo.On("UpdateBatchStockInTx", ctx, nil, newer.Batch.BatchID, int64(3)).Return(nil).Once()
	suite.mockInventoryRepo.On("RecomputeProductInventoryInTx", ctx, nil, "p1").Return(nil).Once()

	var posted domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntryInTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			posted = args.Get(2).(domain.JournalEntry)
		}).Return(nil).Once()

	result, err := suite.service.AdjustInventory(ctx, dto.AdjustInventoryRequest{
		ProductID:   "p1",
		NewQuantity: 3,
		Reason:      "damaged stock written off",
	}, userID)

	suite.Require().NoError(err)
	suite.Equal(int64(-5), result.Diff)
	suite.Require().Len(result.Consumptions, 2)

	// 4 at 10 plus 1 at 12: write-down of 52, payable debited per batch.
	suite.True(posted.IsBalanced())
	suite.True(posted.TotalDebit().Equal(decimal.NewFromInt(52)))
	suite.Equal(suite.payableAccID, posted.Lines[0].AccountID)
	suite.Equal(suite.inventoryAccID, posted.Lines[1].AccountID)
}

func (suite *CostingServiceTestSuite) TestUpdatePurchase_PostsAdjustingEntry() {
	ctx := context.Background()
	userID := uuid.NewString()
	when := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	original := &domain.Purchase{
		PurchaseID:       uuid.NewString(),
		ProductID:        "p1",
		Quantity:         10,
		PricePerUnit:     decimal.NewFromInt(10),
		CurrencyCode:     "USD",
		PurchaseDatetime: when,
	}
	newPrice := decimal.NewFromInt(12)

	suite.expectTx()
	suite.mockPurchaseRepo.On("FindPurchaseForUpdate", ctx, nil, original.PurchaseID).
		Return(original, nil).Once()

	var posted domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntryInTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			posted = args.Get(2).(domain.JournalEntry)
		}).Return(nil).Once()
	suite.mockPurchaseRepo.On("UpdatePurchaseInTx", ctx, nil, mock.MatchedBy(func(p domain.Purchase) bool {
		return p.PurchaseID == original.PurchaseID && p.PricePerUnit.Equal(newPrice)
	})).Return(nil).Once()

	updated, entry, err := suite.service.UpdatePurchase(ctx, original.PurchaseID, dto.UpdatePurchaseRequest{
		PricePerUnit: &newPrice,
	}, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Require().NotNil(entry)

	// Cost went 100 -> 120: the 20 difference debits inventory.
	suite.True(posted.IsBalanced())
	suite.True(posted.TotalDebit().Equal(decimal.NewFromInt(20)))
	suite.Equal(suite.inventoryAccID, posted.Lines[0].AccountID)
	suite.Equal(suite.payableAccID, posted.Lines[1].AccountID)
	suite.mockPurchaseRepo.AssertExpectations(suite.T())
}

func (suite *CostingServiceTestSuite) TestUpdatePurchase_QuantityReductionAdjustsBatch() {
	ctx := context.Background()
	userID := uuid.NewString()
	when := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	original := &domain.Purchase{
		PurchaseID:       uuid.NewString(),
		ProductID:        "p1",
		Quantity:         10,
		PricePerUnit:     decimal.NewFromInt(10),
		CurrencyCode:     "USD",
		PurchaseDatetime: when,
	}
	batch := &domain.InventoryBatch{
		BatchID:    uuid.NewString(),
		ProductID:  "p1",
		PurchaseID: original.PurchaseID,
		Stock:      10,
	}
	newQty := int64(8)

	suite.expectTx()
	suite.mockPurchaseRepo.On("FindPurchaseForUpdate", ctx, nil, original.PurchaseID).
		Return(original, nil).Once()
	suite.mockInventoryRepo.On("FindBatchByPurchaseForUpdate", ctx, nil, original.PurchaseID).
		Return(batch, nil).Once()
	suite.mockInventoryRepo.On("UpdateBatchStockInTx", ctx, nil, batch.BatchID, int64(8)).Return(nil).Once()
	suite.mockInventoryRepo.On("RecomputeProductInventoryInTx", ctx, nil, "p1").Return(nil).Once()

	var posted domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntryInTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			posted = args.Get(2).(domain.JournalEntry)
		}).Return(nil).Once()
	suite.mockPurchaseRepo.On("UpdatePurchaseInTx", ctx, nil, mock.AnythingOfType("domain.Purchase")).Return(nil).Once()

	updated, entry, err := suite.service.UpdatePurchase(ctx, original.PurchaseID, dto.UpdatePurchaseRequest{
		Quantity: &newQty,
	}, userID)

	suite.Require().NoError(err)
	suite.Equal(int64(8), updated.Quantity)
	suite.Require().NotNil(entry)

	// Cost went 100 -> 80: the 20 reduction credits inventory.
	suite.True(posted.IsBalanced())
	suite.True(posted.TotalDebit().Equal(decimal.NewFromInt(20)))
	suite.Equal(suite.payableAccID, posted.Lines[0].AccountID)
	suite.Equal(suite.inventoryAccID, posted.Lines[1].AccountID)
}

func (suite *CostingServiceTestSuite) TestRecordPurchase_MissingAccount() {
	ctx := context.Background()

	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()

	// Rebuild the service with an account repo that has no inventory account.
	emptyAccountRepo := new(MockAccountRepository)
	emptyAccountRepo.On("FindAccountByCode", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrNotFound)

	service := services.NewCostingService(
		suite.mockJournalRepo,
		suite.mockPurchaseRepo,
		suite.mockJournalRepo,
		suite.mockProductRepo,
		services.NewInventoryService(suite.mockInventoryRepo),
		services.NewAccountService(emptyAccountRepo),
		"USD",
	)

	_, _, err := service.RecordPurchase(ctx, dto.RecordPurchaseRequest{
		ProductID:        "p1",
		Quantity:         1,
		PricePerUnit:     decimal.NewFromInt(5),
		CurrencyCode:     "USD",
		PurchaseDatetime: time.Now(),
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrMissingAccount)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func TestCostingService(t *testing.T) {
	suite.Run(t, new(CostingServiceTestSuite))
}
