package services

import (
	"context"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/costbooks/inventory_costing_app/internal/dto"
	"github.com/costbooks/inventory_costing_app/internal/utils/fx"
	"github.com/shopspring/decimal"
)

// CurrencyReaderSvc defines read operations for currency data
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)

	// ListCurrencies retrieves all available currencies.
	ListCurrencies(ctx context.Context, onlyActive bool) ([]domain.Currency, error)
}

// CurrencyWriterSvc defines write operations for currency data
type CurrencyWriterSvc interface {
	// CreateCurrency persists a new currency.
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
	CurrencyWriterSvc
}

// FXRateReaderSvc defines read operations for exchange rate data
type FXRateReaderSvc interface {
	// GetActiveRate retrieves the active rate for an exact directed pair.
	GetActiveRate(ctx context.Context, fromCode, toCode string) (*domain.FXRate, error)

	// GetRateHistory retrieves the full rate history for a directed pair.
	GetRateHistory(ctx context.Context, fromCode, toCode string) ([]domain.FXRate, error)

	// ListActiveRatesAgainstPrimary retrieves every active rate quoted from
	// the primary currency.
	ListActiveRatesAgainstPrimary(ctx context.Context) ([]domain.FXRate, error)

	// SnapshotRates loads every active rate into an immutable map. Top-level
	// operations take one snapshot and convert against it throughout.
	SnapshotRates(ctx context.Context) (fx.RateMap, error)

	// Convert converts an amount using a fresh snapshot.
	Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (decimal.Decimal, decimal.Decimal, error)
}

// FXRateWriterSvc defines write operations for exchange rate data
type FXRateWriterSvc interface {
	// SetRateAgainstPrimary records a currency's rate against the primary
	// currency and rebuilds the derived pairs (inverse plus every cross rate
	// through the primary) in a single transaction.
	SetRateAgainstPrimary(ctx context.Context, req dto.SetRateRequest, creatorUserID string) ([]domain.FXRate, error)
}

// FXRateSvcFacade combines all exchange rate-related service interfaces
type FXRateSvcFacade interface {
	FXRateReaderSvc
	FXRateWriterSvc
}
