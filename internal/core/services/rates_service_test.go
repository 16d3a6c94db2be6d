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

type RatesServiceTestSuite struct {
	suite.Suite
	mockRatesRepo *MockRatesRepository
	service       portssvc.RatesSvcFacade
}

func (suite *RatesServiceTestSuite) SetupTest() {
	suite.mockRatesRepo = new(MockRatesRepository)
	suite.service = services.NewRatesService(suite.mockRatesRepo)
}

func (suite *RatesServiceTestSuite) expectTx() {
	suite.mockRatesRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockRatesRepo.On("Commit", mock.Anything, nil).Return(nil).Once()
	suite.mockRatesRepo.On("Rollback", mock.Anything, nil).Return(nil).Maybe()
}

func (suite *RatesServiceTestSuite) TestSetProfitRateFirstRate() {
	suite.expectTx()
	suite.mockRatesRepo.On("FindActiveProfitRateForUpdate", mock.Anything, nil).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRatesRepo.On("InsertProfitRateInTx", mock.Anything, nil, mock.MatchedBy(func(r domain.ProfitRate) bool {
		return r.Rate.Equal(decimal.NewFromInt(15)) && r.EndDate == nil
	})).Return(nil).Once()

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rate, err := suite.service.SetProfitRate(context.Background(), dto.SetProfitRateRequest{
		Rate:      decimal.NewFromInt(15),
		StartDate: start,
	}, "admin-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(rate)
	suite.Equal(start, rate.StartDate)
	suite.Equal("admin-1", rate.CreatedBy)
	suite.mockRatesRepo.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestSetProfitRateSupersedesActive() {
	existing := &domain.ProfitRate{
		ProfitRateID: uuid.NewString(),
		Rate:         decimal.NewFromInt(10),
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	suite.expectTx()
	suite.mockRatesRepo.On("FindActiveProfitRateForUpdate", mock.Anything, nil).
		Return(existing, nil).Once()
	suite.mockRatesRepo.On("EndDateProfitRateInTx", mock.Anything, nil, existing.ProfitRateID, start, "admin-1", mock.Anything).
		Return(nil).Once()
	suite.mockRatesRepo.On("InsertProfitRateInTx", mock.Anything, nil, mock.MatchedBy(func(r domain.ProfitRate) bool {
		return r.Rate.Equal(decimal.NewFromInt(20)) && r.StartDate.Equal(start)
	})).Return(nil).Once()

	rate, err := suite.service.SetProfitRate(context.Background(), dto.SetProfitRateRequest{
		Rate:      decimal.NewFromInt(20),
		StartDate: start,
	}, "admin-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(rate)
	suite.mockRatesRepo.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestSetProfitRateRejectsNegative() {
	_, err := suite.service.SetProfitRate(context.Background(), dto.SetProfitRateRequest{
		Rate:      decimal.NewFromInt(-5),
		StartDate: time.Now(),
	}, "admin-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRatesRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *RatesServiceTestSuite) TestSetWeightCostSupersedesActive() {
	existing := &domain.WeightCost{
		WeightCostID: uuid.NewString(),
		CostPerKg:    decimal.NewFromInt(4),
		CurrencyCode: "USD",
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	suite.expectTx()
	suite.mockRatesRepo.On("FindActiveWeightCostForUpdate", mock.Anything, nil).
		Return(existing, nil).Once()
	suite.mockRatesRepo.On("EndDateWeightCostInTx", mock.Anything, nil, existing.WeightCostID, start, "admin-1", mock.Anything).
		Return(nil).Once()
	suite.mockRatesRepo.On("InsertWeightCostInTx", mock.Anything, nil, mock.MatchedBy(func(c domain.WeightCost) bool {
		return c.CostPerKg.Equal(decimal.NewFromInt(5)) && c.CurrencyCode == "USD"
	})).Return(nil).Once()

	cost, err := suite.service.SetWeightCost(context.Background(), dto.SetWeightCostRequest{
		CostPerKg:    decimal.NewFromInt(5),
		CurrencyCode: "usd",
		StartDate:    start,
	}, "admin-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(cost)
	suite.Equal("USD", cost.CurrencyCode)
	suite.mockRatesRepo.AssertExpectations(suite.T())
}

func (suite *RatesServiceTestSuite) TestGetActiveWeightCostNotFound() {
	suite.mockRatesRepo.On("FindActiveWeightCost", mock.Anything).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetActiveWeightCost(context.Background())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRatesRepo.AssertExpectations(suite.T())
}

func TestRatesServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RatesServiceTestSuite))
}
