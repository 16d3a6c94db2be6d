package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
	"github.com/costbooks/inventory_costing_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ratesService manages the global profit-rate and weight-cost configuration
// rows. Both follow the same supersession discipline as exchange rates: at
// most one active row, history preserved.
type ratesService struct {
	ratesRepo portsrepo.RatesRepositoryWithTx
}

// NewRatesService creates a new configuration-rates service.
func NewRatesService(ratesRepo portsrepo.RatesRepositoryWithTx) portssvc.RatesSvcFacade {
	return &ratesService{ratesRepo: ratesRepo}
}

var _ portssvc.RatesSvcFacade = (*ratesService)(nil)

// GetActiveProfitRate retrieves the currently active profit rate.
func (s *ratesService) GetActiveProfitRate(ctx context.Context) (*domain.ProfitRate, error) {
	rate, err := s.ratesRepo.FindActiveProfitRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active profit rate: %w", err)
	}
	return rate, nil
}

// ListProfitRateHistory retrieves the full profit-rate history, newest first.
func (s *ratesService) ListProfitRateHistory(ctx context.Context) ([]domain.ProfitRate, error) {
	history, err := s.ratesRepo.ListProfitRateHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profit rate history: %w", err)
	}
	return history, nil
}

// GetActiveWeightCost retrieves the currently active weight cost.
func (s *ratesService) GetActiveWeightCost(ctx context.Context) (*domain.WeightCost, error) {
	cost, err := s.ratesRepo.FindActiveWeightCost(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active weight cost: %w", err)
	}
	return cost, nil
}

// ListWeightCostHistory retrieves the full weight-cost history, newest first.
func (s *ratesService) ListWeightCostHistory(ctx context.Context) ([]domain.WeightCost, error) {
	history, err := s.ratesRepo.ListWeightCostHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list weight cost history: %w", err)
	}
	return history, nil
}

// SetProfitRate supersedes the active profit rate inside one transaction.
func (s *ratesService) SetProfitRate(ctx context.Context, req dto.SetProfitRateRequest, creatorUserID string) (*domain.ProfitRate, error) {
	if req.Rate.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: profit rate cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	tx, err := s.ratesRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.ratesRepo.Rollback(ctx, tx)
	}()

	current, err := s.ratesRepo.FindActiveProfitRateForUpdate(ctx, tx)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to lock active profit rate: %w", err)
	}
	if current != nil {
		if err := s.ratesRepo.EndDateProfitRateInTx(ctx, tx, current.ProfitRateID, req.StartDate, creatorUserID, now); err != nil {
			return nil, fmt.Errorf("failed to end-date profit rate: %w", err)
		}
	}

	rate := domain.ProfitRate{
		ProfitRateID: uuid.NewString(),
		Rate:         req.Rate,
		StartDate:    req.StartDate,
		AuditFields:  domain.NewAuditFields(creatorUserID, now),
	}
	if err := s.ratesRepo.InsertProfitRateInTx(ctx, tx, rate); err != nil {
		return nil, fmt.Errorf("failed to insert profit rate: %w", err)
	}

	if err := s.ratesRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit profit rate update: %w", err)
	}
	return &rate, nil
}

// SetWeightCost supersedes the active weight cost inside one transaction.
func (s *ratesService) SetWeightCost(ctx context.Context, req dto.SetWeightCostRequest, creatorUserID string) (*domain.WeightCost, error) {
	if req.CostPerKg.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: weight cost cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	tx, err := s.ratesRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.ratesRepo.Rollback(ctx, tx)
	}()

	current, err := s.ratesRepo.FindActiveWeightCostForUpdate(ctx, tx)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to lock active weight cost: %w", err)
	}
	if current != nil {
		if err := s.ratesRepo.EndDateWeightCostInTx(ctx, tx, current.WeightCostID, req.StartDate, creatorUserID, now); err != nil {
			return nil, fmt.Errorf("failed to end-date weight cost: %w", err)
		}
	}

	cost := domain.WeightCost{
		WeightCostID: uuid.NewString(),
		CostPerKg:    req.CostPerKg,
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		StartDate:    req.StartDate,
		AuditFields:  domain.NewAuditFields(creatorUserID, now),
	}
	if err := s.ratesRepo.InsertWeightCostInTx(ctx, tx, cost); err != nil {
		return nil, fmt.Errorf("failed to insert weight cost: %w", err)
	}

	if err := s.ratesRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit weight cost update: %w", err)
	}
	return &cost, nil
}
