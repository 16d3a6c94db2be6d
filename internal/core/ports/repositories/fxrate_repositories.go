package repositories

import (
	"context"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// FXRateReader defines read operations for exchange rate data.
type FXRateReader interface {
	// FindActiveRate retrieves the single active (end_date IS NULL) rate for
	// the exact directed pair. It never chains through intermediaries.
	FindActiveRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string) (*domain.FXRate, error)

	// ListActiveRates retrieves every currently active rate row (the snapshot
	// source for fx.RateMap).
	ListActiveRates(ctx context.Context) ([]domain.FXRate, error)

	// ListActiveRatesFrom retrieves active rates originating at a currency,
	// e.g. all rates quoted against the primary currency.
	ListActiveRatesFrom(ctx context.Context, fromCurrencyCode string) ([]domain.FXRate, error)

	// ListRateHistory retrieves the full point-in-time history for a directed
	// pair, newest first.
	ListRateHistory(ctx context.Context, fromCurrencyCode, toCurrencyCode string) ([]domain.FXRate, error)
}

// FXRateWriter defines the tx-scoped write operations used by the
// end-date-then-insert supersession sequence. All three run inside one
// transaction so a directed pair can never hold two active rows.
type FXRateWriter interface {
	// FindActiveRateForUpdate locks the active row for a directed pair, or
	// returns ErrNotFound when the pair has no active rate yet.
	FindActiveRateForUpdate(ctx context.Context, tx pgx.Tx, fromCurrencyCode, toCurrencyCode string) (*domain.FXRate, error)

	// ListActiveRatesFromForUpdate locks and returns the active rates
	// originating at a currency. Cross-rate fanout reads through this so the
	// rows it derives from cannot be superseded mid-transaction.
	ListActiveRatesFromForUpdate(ctx context.Context, tx pgx.Tx, fromCurrencyCode string) ([]domain.FXRate, error)

	// EndDateRateInTx closes an active rate row by setting its end date.
	EndDateRateInTx(ctx context.Context, tx pgx.Tx, rateID string, endDate time.Time, actingUserID string, now time.Time) error

	// InsertRateInTx inserts a new rate row.
	InsertRateInTx(ctx context.Context, tx pgx.Tx, rate domain.FXRate) error
}

// FXRateRepositoryFacade combines all exchange-rate repository interfaces.
type FXRateRepositoryFacade interface {
	FXRateReader
	FXRateWriter
}

// FXRateRepositoryWithTx extends FXRateRepositoryFacade with transaction capabilities.
type FXRateRepositoryWithTx interface {
	FXRateRepositoryFacade
	TransactionManager
}
