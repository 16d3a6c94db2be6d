package services

import (
	"context"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/costbooks/inventory_costing_app/internal/dto"
)

// RatesReaderSvc defines read operations for profit-rate and weight-cost
// configuration
type RatesReaderSvc interface {
	GetActiveProfitRate(ctx context.Context) (*domain.ProfitRate, error)
	ListProfitRateHistory(ctx context.Context) ([]domain.ProfitRate, error)
	GetActiveWeightCost(ctx context.Context) (*domain.WeightCost, error)
	ListWeightCostHistory(ctx context.Context) ([]domain.WeightCost, error)
}

// RatesWriterSvc defines supersession writes for configuration rows
type RatesWriterSvc interface {
	SetProfitRate(ctx context.Context, req dto.SetProfitRateRequest, creatorUserID string) (*domain.ProfitRate, error)
	SetWeightCost(ctx context.Context, req dto.SetWeightCostRequest, creatorUserID string) (*domain.WeightCost, error)
}

// RatesSvcFacade combines configuration-rate service interfaces
type RatesSvcFacade interface {
	RatesReaderSvc
	RatesWriterSvc
}
