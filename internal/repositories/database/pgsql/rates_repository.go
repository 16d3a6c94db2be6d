package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRatesRepository implements the configuration-rate repository interfaces
// using pgxpool. Profit rates and weight costs both use partial unique indexes
// (WHERE end_date IS NULL) to enforce at most one active row.
type PgxRatesRepository struct {
	BaseRepository
}

// newPgxRatesRepository creates a new PgxRatesRepository.
func newPgxRatesRepository(db *pgxpool.Pool) *PgxRatesRepository {
	return &PgxRatesRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.RatesRepositoryWithTx = (*PgxRatesRepository)(nil)

const profitRateColumns = `profit_rate_id, rate, start_date, end_date,
	created_at, created_by, last_updated_at, last_updated_by`

func scanProfitRate(row pgx.Row) (*domain.ProfitRate, error) {
	var p domain.ProfitRate
	err := row.Scan(
		&p.ProfitRateID, &p.Rate, &p.StartDate, &p.EndDate,
		&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

const weightCostColumns = `weight_cost_id, cost_per_kg, currency_code, start_date, end_date,
	created_at, created_by, last_updated_at, last_updated_by`

func scanWeightCost(row pgx.Row) (*domain.WeightCost, error) {
	var w domain.WeightCost
	err := row.Scan(
		&w.WeightCostID, &w.CostPerKg, &w.CurrencyCode, &w.StartDate, &w.EndDate,
		&w.CreatedAt, &w.CreatedBy, &w.LastUpdatedAt, &w.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// FindActiveProfitRate retrieves the current profit rate, if any.
func (r *PgxRatesRepository) FindActiveProfitRate(ctx context.Context) (*domain.ProfitRate, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+profitRateColumns+` FROM profit_rates WHERE end_date IS NULL`)
	rate, err := scanProfitRate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: active profit rate", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find active profit rate: %w", err)
	}
	return rate, nil
}

// ListProfitRateHistory retrieves all profit rate rows, newest first.
func (r *PgxRatesRepository) ListProfitRateHistory(ctx context.Context) ([]domain.ProfitRate, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+profitRateColumns+` FROM profit_rates ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profit rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.ProfitRate
	for rows.Next() {
		rate, err := scanProfitRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profit rate: %w", err)
		}
		rates = append(rates, *rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profit rates: %w", err)
	}
	return rates, nil
}

// FindActiveProfitRateForUpdate locks the current profit rate row.
func (r *PgxRatesRepository) FindActiveProfitRateForUpdate(ctx context.Context, tx pgx.Tx) (*domain.ProfitRate, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+profitRateColumns+` FROM profit_rates WHERE end_date IS NULL FOR UPDATE`)
	rate, err := scanProfitRate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: active profit rate", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock active profit rate: %w", err)
	}
	return rate, nil
}

// EndDateProfitRateInTx closes a profit rate row.
func (r *PgxRatesRepository) EndDateProfitRateInTx(ctx context.Context, tx pgx.Tx, profitRateID string, endDate time.Time, actingUserID string, now time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE profit_rates
		SET end_date = $1, last_updated_at = $2, last_updated_by = $3
		WHERE profit_rate_id = $4 AND end_date IS NULL`,
		endDate, now, actingUserID, profitRateID)
	if err != nil {
		return mapWriteError(err, "profit rate "+profitRateID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: active profit rate %s", apperrors.ErrNotFound, profitRateID)
	}
	return nil
}

// InsertProfitRateInTx inserts a new profit rate row.
func (r *PgxRatesRepository) InsertProfitRateInTx(ctx context.Context, tx pgx.Tx, rate domain.ProfitRate) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO profit_rates (
			profit_rate_id, rate, start_date, end_date,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rate.ProfitRateID, rate.Rate, rate.StartDate, rate.EndDate,
		rate.CreatedAt, rate.CreatedBy, rate.LastUpdatedAt, rate.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "profit rate "+rate.ProfitRateID)
	}
	return nil
}

// FindActiveWeightCost retrieves the current weight cost, if any.
func (r *PgxRatesRepository) FindActiveWeightCost(ctx context.Context) (*domain.WeightCost, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+weightCostColumns+` FROM weight_costs WHERE end_date IS NULL`)
	cost, err := scanWeightCost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: active weight cost", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find active weight cost: %w", err)
	}
	return cost, nil
}

// ListWeightCostHistory retrieves all weight cost rows, newest first.
func (r *PgxRatesRepository) ListWeightCostHistory(ctx context.Context) ([]domain.WeightCost, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+weightCostColumns+` FROM weight_costs ORDER BY start_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list weight costs: %w", err)
	}
	defer rows.Close()

	var costs []domain.WeightCost
	for rows.Next() {
		cost, err := scanWeightCost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weight cost: %w", err)
		}
		costs = append(costs, *cost)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weight costs: %w", err)
	}
	return costs, nil
}

// FindActiveWeightCostForUpdate locks the current weight cost row.
func (r *PgxRatesRepository) FindActiveWeightCostForUpdate(ctx context.Context, tx pgx.Tx) (*domain.WeightCost, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+weightCostColumns+` FROM weight_costs WHERE end_date IS NULL FOR UPDATE`)
	cost, err := scanWeightCost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: active weight cost", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock active weight cost: %w", err)
	}
	return cost, nil
}

// EndDateWeightCostInTx closes a weight cost row.
func (r *PgxRatesRepository) EndDateWeightCostInTx(ctx context.Context, tx pgx.Tx, weightCostID string, endDate time.Time, actingUserID string, now time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE weight_costs
		SET end_date = $1, last_updated_at = $2, last_updated_by = $3
		WHERE weight_cost_id = $4 AND end_date IS NULL`,
		endDate, now, actingUserID, weightCostID)
	if err != nil {
		return mapWriteError(err, "weight cost "+weightCostID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: active weight cost %s", apperrors.ErrNotFound, weightCostID)
	}
	return nil
}

// InsertWeightCostInTx inserts a new weight cost row.
func (r *PgxRatesRepository) InsertWeightCostInTx(ctx context.Context, tx pgx.Tx, cost domain.WeightCost) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO weight_costs (
			weight_cost_id, cost_per_kg, currency_code, start_date, end_date,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		cost.WeightCostID, cost.CostPerKg, cost.CurrencyCode, cost.StartDate, cost.EndDate,
		cost.CreatedAt, cost.CreatedBy, cost.LastUpdatedAt, cost.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "weight cost "+cost.WeightCostID)
	}
	return nil
}
