package repositories

import (
	"context"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// RatesReader defines read operations for profit-rate and weight-cost
// configuration rows. Both follow the one-active-row pattern used by
// exchange rates.
type RatesReader interface {
	FindActiveProfitRate(ctx context.Context) (*domain.ProfitRate, error)
	ListProfitRateHistory(ctx context.Context) ([]domain.ProfitRate, error)
	FindActiveWeightCost(ctx context.Context) (*domain.WeightCost, error)
	ListWeightCostHistory(ctx context.Context) ([]domain.WeightCost, error)
}

// RatesWriter defines tx-scoped supersession writes for configuration rows.
type RatesWriter interface {
	FindActiveProfitRateForUpdate(ctx context.Context, tx pgx.Tx) (*domain.ProfitRate, error)
	EndDateProfitRateInTx(ctx context.Context, tx pgx.Tx, profitRateID string, endDate time.Time, actingUserID string, now time.Time) error
	InsertProfitRateInTx(ctx context.Context, tx pgx.Tx, rate domain.ProfitRate) error

	FindActiveWeightCostForUpdate(ctx context.Context, tx pgx.Tx) (*domain.WeightCost, error)
	EndDateWeightCostInTx(ctx context.Context, tx pgx.Tx, weightCostID string, endDate time.Time, actingUserID string, now time.Time) error
	InsertWeightCostInTx(ctx context.Context, tx pgx.Tx, cost domain.WeightCost) error
}

// RatesRepositoryFacade combines all configuration-rate repository interfaces.
type RatesRepositoryFacade interface {
	RatesReader
	RatesWriter
}

// RatesRepositoryWithTx extends RatesRepositoryFacade with transaction capabilities.
type RatesRepositoryWithTx interface {
	RatesRepositoryFacade
	TransactionManager
}
