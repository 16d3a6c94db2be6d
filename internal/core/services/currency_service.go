package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
	"github.com/costbooks/inventory_costing_app/internal/dto"
)

// currencyService provides business logic for currencies.
type currencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// CreateCurrency persists a new currency.
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	now := time.Now()
	currency := domain.Currency{
		CurrencyCode:  strings.ToUpper(req.CurrencyCode),
		Name:          req.Name,
		Symbol:        req.Symbol,
		DecimalPlaces: req.DecimalPlaces,
		IsActive:      true,
		AuditFields:   domain.NewAuditFields(creatorUserID, now),
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}
	return &currency, nil
}

// GetCurrencyByCode retrieves a specific currency by its code.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	currencyCode = strings.ToUpper(currencyCode)
	if len(currencyCode) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}
	return currency, nil
}

// ListCurrencies retrieves all available currencies.
func (s *currencyService) ListCurrencies(ctx context.Context, onlyActive bool) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		currencies = []domain.Currency{}
	}
	return currencies, nil
}
