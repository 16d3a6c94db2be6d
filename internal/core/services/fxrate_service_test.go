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

// --- Mock CurrencySvc ---

type MockCurrencySvc struct {
	mock.Mock
}

func (m *MockCurrencySvc) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencySvc) ListCurrencies(ctx context.Context, onlyActive bool) ([]domain.Currency, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencySvc) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

// --- Test Suite ---

type FXRateServiceTestSuite struct {
	suite.Suite
	mockRepo        *MockFXRateRepository
	mockCurrencySvc *MockCurrencySvc
	service         portssvc.FXRateSvcFacade
}

func (suite *FXRateServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockFXRateRepository)
	suite.mockCurrencySvc = new(MockCurrencySvc)
	suite.service = services.NewFXRateService(suite.mockRepo, suite.mockCurrencySvc, "USD")
}

func (suite *FXRateServiceTestSuite) TestSetRateAgainstPrimary_FanoutThroughPrimary() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.SetRateRequest{
		CurrencyCode: "AED",
		Rate:         decimal.NewFromInt(150),
		StartDate:    time.Now(),
	}

	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "AED").
		Return(&domain.Currency{CurrencyCode: "AED"}, nil).Once()

	suite.mockRepo.On("Begin", ctx).Return(nil, nil).Once()
	// One other currency is already quoted against the primary; the fanout
	// reads it under the transaction's locks.
	suite.mockRepo.On("ListActiveRatesFromForUpdate", ctx, nil, "USD").Return([]domain.FXRate{
		{RateID: uuid.NewString(), FromCurrencyCode: "USD", ToCurrencyCode: "IQD", Rate: decimal.NewFromInt(12400)},
	}, nil).Once()
	suite.mockRepo.On("FindActiveRateForUpdate", ctx, nil, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrNotFound).Times(4)

	var inserted []domain.FXRate
	suite.mockRepo.On("InsertRateInTx", ctx, nil, mock.AnythingOfType("domain.FXRate")).
		Run(func(args mock.Arguments) {
			inserted = append(inserted, args.Get(2).(domain.FXRate))
		}).Return(nil).Times(4)
	suite.mockRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockRepo.On("Rollback", ctx, nil).Return(nil).Maybe()

	written, err := suite.service.SetRateAgainstPrimary(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Len(written, 4)
	suite.Require().Len(inserted, 4)

	byPair := make(map[string]decimal.Decimal, len(inserted))
	for _, r := range inserted {
		byPair[r.FromCurrencyCode+"->"+r.ToCurrencyCode] = r.Rate
	}

	one := decimal.NewFromInt(1)
	rate150 := decimal.NewFromInt(150)
	rate12400 := decimal.NewFromInt(12400)
	cross := rate12400.Div(rate150) // AED->IQD through USD

	suite.True(byPair["USD->AED"].Equal(rate150))
	suite.True(byPair["AED->USD"].Equal(one.Div(rate150)))
	suite.True(byPair["AED->IQD"].Equal(cross))
	suite.True(byPair["IQD->AED"].Equal(one.Div(cross)))

	// The fanout source must be the locked read, never the pool-scoped one.
	suite.mockRepo.AssertNotCalled(suite.T(), "ListActiveRatesFrom", mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCurrencySvc.AssertExpectations(suite.T())
}

func (suite *FXRateServiceTestSuite) TestSetRateAgainstPrimary_SupersedesActiveRow() {
	ctx := context.Background()
	userID := uuid.NewString()
	start := time.Now()
	req := dto.SetRateRequest{
		CurrencyCode: "EUR",
		Rate:         decimal.NewFromInt(155),
		StartDate:    start,
	}

	existingForward := &domain.FXRate{
		RateID:           uuid.NewString(),
		FromCurrencyCode: "USD",
		ToCurrencyCode:   "EUR",
		Rate:             decimal.NewFromInt(150),
	}
	existingInverse := &domain.FXRate{
		RateID:           uuid.NewString(),
		FromCurrencyCode: "EUR",
		ToCurrencyCode:   "USD",
		Rate:             decimal.NewFromInt(1).Div(decimal.NewFromInt(150)),
	}

	suite.mockCurrencySvc.On("GetCurrencyByCode", ctx, "EUR").
		Return(&domain.Currency{CurrencyCode: "EUR"}, nil).Once()
	suite.mockRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockRepo.On("ListActiveRatesFromForUpdate", ctx, nil, "USD").
		Return([]domain.FXRate{*existingForward}, nil).Once()
	suite.mockRepo.On("FindActiveRateForUpdate", ctx, nil, "USD", "EUR").
		Return(existingForward, nil).Once()
	suite.mockRepo.On("FindActiveRateForUpdate", ctx, nil, "EUR", "USD").
		Return(existingInverse, nil).Once()
	suite.mockRepo.On("EndDateRateInTx", ctx, nil, existingForward.RateID, start, userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	suite.mockRepo.On("EndDateRateInTx", ctx, nil, existingInverse.RateID, start, userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	suite.mockRepo.On("InsertRateInTx", ctx, nil, mock.MatchedBy(func(r domain.FXRate) bool {
		return r.FromCurrencyCode == "USD" && r.ToCurrencyCode == "EUR" && r.Rate.Equal(decimal.NewFromInt(155))
	})).Return(nil).Once()
	suite.mockRepo.On("InsertRateInTx", ctx, nil, mock.MatchedBy(func(r domain.FXRate) bool {
		return r.FromCurrencyCode == "EUR" && r.ToCurrencyCode == "USD" &&
			r.Rate.Equal(decimal.NewFromInt(1).Div(decimal.NewFromInt(155)))
	})).Return(nil).Once()
	suite.mockRepo.On("Commit", ctx, nil).Return(nil).Once()
	suite.mockRepo.On("Rollback", ctx, nil).Return(nil).Maybe()

	written, err := suite.service.SetRateAgainstPrimary(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Len(written, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FXRateServiceTestSuite) TestSetRateAgainstPrimary_RejectsPrimaryItself() {
	ctx := context.Background()
	req := dto.SetRateRequest{CurrencyCode: "USD", Rate: decimal.NewFromInt(2), StartDate: time.Now()}

	written, err := suite.service.SetRateAgainstPrimary(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(written)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FXRateServiceTestSuite) TestSetRateAgainstPrimary_RejectsNonPositiveRate() {
	ctx := context.Background()
	req := dto.SetRateRequest{CurrencyCode: "EUR", Rate: decimal.Zero, StartDate: time.Now()}

	written, err := suite.service.SetRateAgainstPrimary(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(written)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FXRateServiceTestSuite) TestConvert_UsesSnapshot() {
	ctx := context.Background()

	suite.mockRepo.On("ListActiveRates", ctx).Return([]domain.FXRate{
		{FromCurrencyCode: "USD", ToCurrencyCode: "IQD", Rate: decimal.NewFromInt(1450)},
	}, nil).Once()

	converted, rate, err := suite.service.Convert(ctx, decimal.NewFromInt(10), "USD", "IQD")

	suite.Require().NoError(err)
	suite.True(converted.Equal(decimal.NewFromInt(14500)))
	suite.True(rate.Equal(decimal.NewFromInt(1450)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *FXRateServiceTestSuite) TestConvert_SameCurrencyIsIdentity() {
	ctx := context.Background()

	converted, rate, err := suite.service.Convert(ctx, decimal.NewFromInt(42), "USD", "USD")

	suite.Require().NoError(err)
	suite.True(converted.Equal(decimal.NewFromInt(42)))
	suite.True(rate.Equal(decimal.NewFromInt(1)))
	// No repository call at all for the identity case.
	suite.mockRepo.AssertNotCalled(suite.T(), "ListActiveRates", ctx)
}

func (suite *FXRateServiceTestSuite) TestConvert_MissingRate() {
	ctx := context.Background()

	suite.mockRepo.On("ListActiveRates", ctx).Return([]domain.FXRate{}, nil).Once()

	_, _, err := suite.service.Convert(ctx, decimal.NewFromInt(10), "USD", "JPY")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrMissingRate)
}

func (suite *FXRateServiceTestSuite) TestGetActiveRate_MapsNotFoundToMissingRate() {
	ctx := context.Background()

	suite.mockRepo.On("FindActiveRate", ctx, "USD", "JPY").
		Return(nil, apperrors.ErrNotFound).Once()

	rate, err := suite.service.GetActiveRate(ctx, "usd", "jpy")

	suite.Require().Error(err)
	suite.Nil(rate)
	suite.ErrorIs(err, apperrors.ErrMissingRate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestFXRateService(t *testing.T) {
	suite.Run(t, new(FXRateServiceTestSuite))
}
