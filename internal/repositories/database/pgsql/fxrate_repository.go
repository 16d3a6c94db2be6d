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

// PgxFXRateRepository implements the exchange rate repository interfaces
// using pgxpool. A partial unique index on (from_currency_code,
// to_currency_code) WHERE end_date IS NULL backs the one-active-row
// invariant; concurrent supersessions surface as ErrDuplicate and can be
// retried.
type PgxFXRateRepository struct {
	BaseRepository
}

// newPgxFXRateRepository creates a new PgxFXRateRepository.
func newPgxFXRateRepository(db *pgxpool.Pool) *PgxFXRateRepository {
	return &PgxFXRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.FXRateRepositoryWithTx = (*PgxFXRateRepository)(nil)

const fxRateColumns = `rate_id, from_currency_code, to_currency_code, rate, start_date, end_date, source,
	created_at, created_by, last_updated_at, last_updated_by`

func scanFXRate(row pgx.Row) (*domain.FXRate, error) {
	var r domain.FXRate
	err := row.Scan(
		&r.RateID, &r.FromCurrencyCode, &r.ToCurrencyCode, &r.Rate,
		&r.StartDate, &r.EndDate, &r.Source,
		&r.CreatedAt, &r.CreatedBy, &r.LastUpdatedAt, &r.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func collectFXRates(rows pgx.Rows) ([]domain.FXRate, error) {
	defer rows.Close()
	var rates []domain.FXRate
	for rows.Next() {
		rate, err := scanFXRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
		}
		rates = append(rates, *rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange rates: %w", err)
	}
	return rates, nil
}

// FindActiveRate retrieves the single active rate for the exact directed pair.
func (r *PgxFXRateRepository) FindActiveRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.FXRate, error) {
	row := r.Pool.QueryRow(ctx, `
		SELECT `+fxRateColumns+`
		FROM fx_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND end_date IS NULL`,
		fromCurrencyCode, toCurrencyCode)

	rate, err := scanFXRate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: active rate %s->%s", apperrors.ErrNotFound, fromCurrencyCode, toCurrencyCode)
		}
		return nil, fmt.Errorf("failed to find active rate: %w", err)
	}
	return rate, nil
}

// ListActiveRates retrieves every currently active rate row.
func (r *PgxFXRateRepository) ListActiveRates(ctx context.Context) ([]domain.FXRate, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+fxRateColumns+`
		FROM fx_rates
		WHERE end_date IS NULL
		ORDER BY from_currency_code, to_currency_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active rates: %w", err)
	}
	return collectFXRates(rows)
}

// ListActiveRatesFrom retrieves active rates originating at a currency.
func (r *PgxFXRateRepository) ListActiveRatesFrom(ctx context.Context, fromCurrencyCode string) ([]domain.FXRate, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+fxRateColumns+`
		FROM fx_rates
		WHERE from_currency_code = $1 AND end_date IS NULL
		ORDER BY to_currency_code`, fromCurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list active rates from %s: %w", fromCurrencyCode, err)
	}
	return collectFXRates(rows)
}

// ListRateHistory retrieves the full history for a directed pair, newest first.
func (r *PgxFXRateRepository) ListRateHistory(ctx context.Context, fromCurrencyCode, toCurrencyCode string) ([]domain.FXRate, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+fxRateColumns+`
		FROM fx_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2
		ORDER BY start_date DESC`, fromCurrencyCode, toCurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate history: %w", err)
	}
	return collectFXRates(rows)
}

// FindActiveRateForUpdate locks the active row for a directed pair.
func (r *PgxFXRateRepository) FindActiveRateForUpdate(ctx context.Context, tx pgx.Tx, fromCurrencyCode, toCurrencyCode string) (*domain.FXRate, error) {
	row := tx.QueryRow(ctx, `
		SELECT `+fxRateColumns+`
		FROM fx_rates
		WHERE from_currency_code = $1 AND to_currency_code = $2 AND end_date IS NULL
		FOR UPDATE`,
		fromCurrencyCode, toCurrencyCode)

	rate, err := scanFXRate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: active rate %s->%s", apperrors.ErrNotFound, fromCurrencyCode, toCurrencyCode)
		}
		return nil, fmt.Errorf("failed to lock active rate: %w", err)
	}
	return rate, nil
}

// ListActiveRatesFromForUpdate locks and returns active rates originating at
// a currency, so cross rates derived from them see a stable view.
func (r *PgxFXRateRepository) ListActiveRatesFromForUpdate(ctx context.Context, tx pgx.Tx, fromCurrencyCode string) ([]domain.FXRate, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+fxRateColumns+`
		FROM fx_rates
		WHERE from_currency_code = $1 AND end_date IS NULL
		ORDER BY to_currency_code
		FOR UPDATE`, fromCurrencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to lock active rates from %s: %w", fromCurrencyCode, err)
	}
	return collectFXRates(rows)
}

// EndDateRateInTx closes an active rate row by setting its end date.
func (r *PgxFXRateRepository) EndDateRateInTx(ctx context.Context, tx pgx.Tx, rateID string, endDate time.Time, actingUserID string, now time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE fx_rates
		SET end_date = $1, last_updated_at = $2, last_updated_by = $3
		WHERE rate_id = $4 AND end_date IS NULL`,
		endDate, now, actingUserID, rateID)
	if err != nil {
		return fmt.Errorf("failed to end-date rate %s: %w", rateID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: active rate %s", apperrors.ErrNotFound, rateID)
	}
	return nil
}

// InsertRateInTx inserts a new rate row.
func (r *PgxFXRateRepository) InsertRateInTx(ctx context.Context, tx pgx.Tx, rate domain.FXRate) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO fx_rates (
			rate_id, from_currency_code, to_currency_code, rate, start_date, end_date, source,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rate.RateID, rate.FromCurrencyCode, rate.ToCurrencyCode, rate.Rate,
		rate.StartDate, rate.EndDate, rate.Source,
		rate.CreatedAt, rate.CreatedBy, rate.LastUpdatedAt, rate.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("rate %s->%s", rate.FromCurrencyCode, rate.ToCurrencyCode))
	}
	return nil
}
