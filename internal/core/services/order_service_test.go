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
	"github.com/costbooks/inventory_costing_app/internal/utils/fx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mockOrderRepo     *MockOrderRepository
	mockProductRepo   *MockProductRepository
	mockJournalRepo   *MockJournalRepository
	mockInventoryRepo *MockInventoryRepository
	mockAccountRepo   *MockAccountRepository
	mockFXSvc         *MockFXRateSvc
	service           portssvc.OrderSvcFacade

	cashAccID      string
	salesAccID     string
	cogsAccID      string
	inventoryAccID string
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.mockOrderRepo = new(MockOrderRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockInventoryRepo = new(MockInventoryRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockFXSvc = new(MockFXRateSvc)

	suite.cashAccID = uuid.NewString()
	suite.salesAccID = uuid.NewString()
	suite.cogsAccID = uuid.NewString()
	suite.inventoryAccID = uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, domain.AccountCodeCash).
		Return(&domain.Account{AccountID: suite.cashAccID, Code: domain.AccountCodeCash, AccountType: domain.Asset}, nil).Maybe()
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, domain.AccountCodeSalesIncome).
		Return(&domain.Account{AccountID: suite.salesAccID, Code: domain.AccountCodeSalesIncome, AccountType: domain.Income}, nil).Maybe()
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, domain.AccountCodeCOGS).
		Return(&domain.Account{AccountID: suite.cogsAccID, Code: domain.AccountCodeCOGS, AccountType: domain.Expense}, nil).Maybe()
	suite.mockAccountRepo.On("FindAccountByCode", mock.Anything, domain.AccountCodeInventory).
		Return(&domain.Account{AccountID: suite.inventoryAccID, Code: domain.AccountCodeInventory, AccountType: domain.Asset}, nil).Maybe()

	suite.service = services.NewOrderService(
		suite.mockJournalRepo,
		suite.mockOrderRepo,
		suite.mockProductRepo,
		suite.mockJournalRepo,
		services.NewInventoryService(suite.mockInventoryRepo),
		services.NewAccountService(suite.mockAccountRepo),
		suite.mockFXSvc,
		"USD",
	)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_PricesConvertsAndPosts() {
	ctx := context.Background()
	userID := uuid.NewString()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	// Item priced in IQD, order settled in USD. 1 IQD = 1/1450 USD.
	rateIQDUSD := decimal.NewFromInt(1).Div(decimal.NewFromInt(1450))
	snapshot := fx.RateMap{
		{From: "IQD", To: "USD"}: rateIQDUSD,
	}
	suite.mockFXSvc.On("SnapshotRates", ctx).Return(snapshot, nil).Once()

	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()
	suite.mockProductRepo.On("FindActivePrice", ctx, "p1", mock.AnythingOfType("time.Time")).
		Return(&domain.ProductPrice{
			PriceID:      uuid.NewString(),
			ProductID:    "p1",
			Price:        decimal.NewFromInt(14500),
			CurrencyCode: "IQD",
		}, nil).Once()

	layer := domain.CostLayer{
		Batch: domain.InventoryBatch{
			BatchID:   uuid.NewString(),
			ProductID: "p1",
			Stock:     10,
		},
		UnitCost:         decimal.NewFromInt(4),
		CurrencyCode:     "USD",
		PurchaseDatetime: base,
	}

	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockJournalRepo.On("Rollback", ctx, nil).Return(nil).Maybe()

	var savedOrder domain.Order
	suite.mockOrderRepo.On("InsertOrderInTx", ctx, nil, mock.AnythingOfType("domain.Order")).
		Run(func(args mock.Arguments) {
			savedOrder = args.Get(2).(domain.Order)
		}).Return(nil).Once()
	suite.mockOrderRepo.On("InsertOrderItemsInTx", ctx, nil, mock.AnythingOfType("[]domain.OrderItem")).Return(nil).Once()

	suite.mockInventoryRepo.On("FindCostLayersForUpdate", ctx, nil, "p1").
		Return([]domain.CostLayer{layer}, nil).Once()
	suite.mockInventoryRepo.On("UpdateBatchStockInTx", ctx, nil, layer.Batch.BatchID, int64(8)).Return(nil).Once()
	suite.mockInventoryRepo.On("RecomputeProductInventoryInTx", ctx, nil, "p1").Return(nil).Once()

	var postedEntries []domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntryInTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			postedEntries = append(postedEntries, args.Get(2).(domain.JournalEntry))
		}).Return(nil).Twice()

	order, items, err := suite.service.CreateOrder(ctx, dto.CreateOrderRequest{
		CustomerID:   "cust-1",
		CurrencyCode: "USD",
		Items: []dto.CreateOrderItemRequest{
			{ProductID: "p1", Quantity: 2},
		},
	}, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(order)
	suite.Require().Len(items, 1)

	// 2 * 14500 IQD converted at 1/1450: a 20 USD order total.
	expectedTotal := decimal.NewFromInt(29000).Mul(rateIQDUSD)
	suite.True(savedOrder.TotalAmount.Equal(expectedTotal))
	suite.Equal(domain.OrderCompleted, savedOrder.Status)
	suite.True(items[0].Price.Equal(decimal.NewFromInt(14500)))
	suite.Equal("IQD", items[0].CurrencyCode)

	// Both the COGS entry and the income entry get posted, balanced.
	suite.Require().Len(postedEntries, 2)
	cogsEntry, incomeEntry := postedEntries[0], postedEntries[1]
	suite.True(cogsEntry.IsBalanced())
	suite.True(cogsEntry.TotalDebit().Equal(decimal.NewFromInt(8)))
	suite.Equal(suite.cogsAccID, cogsEntry.Lines[0].AccountID)
	suite.True(incomeEntry.IsBalanced())
	suite.True(incomeEntry.TotalDebit().Equal(expectedTotal))
	suite.Equal(suite.cashAccID, incomeEntry.Lines[0].AccountID)
	suite.Equal(suite.salesAccID, incomeEntry.Lines[1].AccountID)

	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestCreateOrder_COGSKeepsBatchCurrency() {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	suite.mockFXSvc.On("SnapshotRates", ctx).Return(fx.RateMap{}, nil).Once()
	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()
	suite.mockProductRepo.On("FindActivePrice", ctx, "p1", mock.AnythingOfType("time.Time")).
		Return(&domain.ProductPrice{
			ProductID:    "p1",
			Price:        decimal.NewFromInt(10),
			CurrencyCode: "USD",
		}, nil).Once()

	// The stock on hand was bought in JPY, and no JPY rate exists at all.
	layer := domain.CostLayer{
		Batch: domain.InventoryBatch{
			BatchID:   uuid.NewString(),
			ProductID: "p1",
			Stock:     10,
		},
		UnitCost:         decimal.NewFromInt(500),
		CurrencyCode:     "JPY",
		PurchaseDatetime: base,
	}

	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockJournalRepo.On("Rollback", ctx, nil).Return(nil).Maybe()
	suite.mockOrderRepo.On("InsertOrderInTx", ctx, nil, mock.AnythingOfType("domain.Order")).Return(nil).Once()
	suite.mockOrderRepo.On("InsertOrderItemsInTx", ctx, nil, mock.AnythingOfType("[]domain.OrderItem")).Return(nil).Once()
	suite.mockInventoryRepo.On("FindCostLayersForUpdate", ctx, nil, "p1").
		Return([]domain.CostLayer{layer}, nil).Once()
	suite.mockInventoryRepo.On("UpdateBatchStockInTx", ctx, nil, layer.Batch.BatchID, int64(8)).Return(nil).Once()
	suite.mockInventoryRepo.On("RecomputeProductInventoryInTx", ctx, nil, "p1").Return(nil).Once()

	var postedEntries []domain.JournalEntry
	suite.mockJournalRepo.On("SaveEntryInTx", ctx, nil, mock.AnythingOfType("domain.JournalEntry")).
		Run(func(args mock.Arguments) {
			postedEntries = append(postedEntries, args.Get(2).(domain.JournalEntry))
		}).Return(nil).Twice()

	order, _, err := suite.service.CreateOrder(ctx, dto.CreateOrderRequest{
		CustomerID:   "cust-1",
		CurrencyCode: "USD",
		Items: []dto.CreateOrderItemRequest{
			{ProductID: "p1", Quantity: 2},
		},
	}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(order)
	suite.Require().Len(postedEntries, 2)

	// COGS carries the layer's own 2 * 500 JPY; income posts the 20 USD total.
	cogsEntry, incomeEntry := postedEntries[0], postedEntries[1]
	suite.True(cogsEntry.IsBalanced())
	suite.True(cogsEntry.TotalDebit().Equal(decimal.NewFromInt(1000)))
	suite.True(incomeEntry.TotalDebit().Equal(decimal.NewFromInt(20)))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestCreateOrder_MissingPriceRateFailsBeforeWrites() {
	ctx := context.Background()

	suite.mockFXSvc.On("SnapshotRates", ctx).Return(fx.RateMap{}, nil).Once()
	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()
	suite.mockProductRepo.On("FindActivePrice", ctx, "p1", mock.AnythingOfType("time.Time")).
		Return(&domain.ProductPrice{
			ProductID:    "p1",
			Price:        decimal.NewFromInt(100),
			CurrencyCode: "IQD",
		}, nil).Once()

	order, items, err := suite.service.CreateOrder(ctx, dto.CreateOrderRequest{
		CustomerID:   "cust-1",
		CurrencyCode: "USD",
		Items: []dto.CreateOrderItemRequest{
			{ProductID: "p1", Quantity: 1},
		},
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(order)
	suite.Nil(items)
	suite.ErrorIs(err, apperrors.ErrMissingRate)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "InsertOrderInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_InactiveProductRejected() {
	ctx := context.Background()

	suite.mockFXSvc.On("SnapshotRates", ctx).Return(fx.RateMap{}, nil).Once()
	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: false}, nil).Once()

	order, _, err := suite.service.CreateOrder(ctx, dto.CreateOrderRequest{
		CustomerID:   "cust-1",
		CurrencyCode: "USD",
		Items: []dto.CreateOrderItemRequest{
			{ProductID: "p1", Quantity: 1},
		},
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(order)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_InsufficientStockRollsBack() {
	ctx := context.Background()

	suite.mockFXSvc.On("SnapshotRates", ctx).Return(fx.RateMap{}, nil).Once()
	suite.mockProductRepo.On("FindProductByID", ctx, "p1").
		Return(&domain.Product{ProductID: "p1", IsActive: true}, nil).Once()
	suite.mockProductRepo.On("FindActivePrice", ctx, "p1", mock.AnythingOfType("time.Time")).
		Return(&domain.ProductPrice{
			ProductID:    "p1",
			Price:        decimal.NewFromInt(10),
			CurrencyCode: "USD",
		}, nil).Once()

	suite.mockJournalRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockJournalRepo.On("Rollback", ctx, nil).Return(nil).Once()
	suite.mockOrderRepo.On("InsertOrderInTx", ctx, nil, mock.AnythingOfType("domain.Order")).Return(nil).Once()
	suite.mockOrderRepo.On("InsertOrderItemsInTx", ctx, nil, mock.AnythingOfType("[]domain.OrderItem")).Return(nil).Once()
	suite.mockInventoryRepo.On("FindCostLayersForUpdate", ctx, nil, "p1").
		Return([]domain.CostLayer{}, nil).Once()

	order, _, err := suite.service.CreateOrder(ctx, dto.CreateOrderRequest{
		CustomerID:   "cust-1",
		CurrencyCode: "USD",
		Items: []dto.CreateOrderItemRequest{
			{ProductID: "p1", Quantity: 5},
		},
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(order)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func TestOrderService(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
