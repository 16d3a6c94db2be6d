package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
	"github.com/costbooks/inventory_costing_app/internal/dto"
	"github.com/costbooks/inventory_costing_app/internal/middleware"
	"github.com/costbooks/inventory_costing_app/internal/utils/fx"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// fxRateService maintains the exchange rate graph. Rates are quoted against a
// single primary currency; the inverse edge and every cross pair are derived
// and stored explicitly so reads never chain lookups.
type fxRateService struct {
	fxRepo      portsrepo.FXRateRepositoryWithTx
	currencySvc portssvc.CurrencySvcFacade
	primary     string
}

// NewFXRateService creates a new exchange rate service anchored on the given
// primary currency code.
func NewFXRateService(fxRepo portsrepo.FXRateRepositoryWithTx, currencySvc portssvc.CurrencySvcFacade, primaryCurrencyCode string) portssvc.FXRateSvcFacade {
	return &fxRateService{
		fxRepo:      fxRepo,
		currencySvc: currencySvc,
		primary:     strings.ToUpper(primaryCurrencyCode),
	}
}

var _ portssvc.FXRateSvcFacade = (*fxRateService)(nil)

// GetActiveRate retrieves the active rate for an exact directed pair.
func (s *fxRateService) GetActiveRate(ctx context.Context, fromCode, toCode string) (*domain.FXRate, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if len(fromCode) != 3 || len(toCode) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}

	rate, err := s.fxRepo.FindActiveRate(ctx, fromCode, toCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s to %s", apperrors.ErrMissingRate, fromCode, toCode)
		}
		return nil, fmt.Errorf("failed to get active rate: %w", err)
	}
	return rate, nil
}

// GetRateHistory retrieves the full rate history for a directed pair.
func (s *fxRateService) GetRateHistory(ctx context.Context, fromCode, toCode string) ([]domain.FXRate, error) {
	history, err := s.fxRepo.ListRateHistory(ctx, strings.ToUpper(fromCode), strings.ToUpper(toCode))
	if err != nil {
		return nil, fmt.Errorf("failed to get rate history: %w", err)
	}
	return history, nil
}

// ListActiveRatesAgainstPrimary retrieves every active rate quoted from the
// primary currency.
func (s *fxRateService) ListActiveRatesAgainstPrimary(ctx context.Context) ([]domain.FXRate, error) {
	rates, err := s.fxRepo.ListActiveRatesFrom(ctx, s.primary)
	if err != nil {
		return nil, fmt.Errorf("failed to list active rates: %w", err)
	}
	return rates, nil
}

// SnapshotRates loads every active rate into an immutable map.
func (s *fxRateService) SnapshotRates(ctx context.Context) (fx.RateMap, error) {
	active, err := s.fxRepo.ListActiveRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot active rates: %w", err)
	}

	snapshot := make(fx.RateMap, len(active))
	for _, r := range active {
		snapshot[fx.Pair{From: r.FromCurrencyCode, To: r.ToCurrencyCode}] = r.Rate
	}
	return snapshot, nil
}

// Convert converts an amount using a fresh snapshot and returns the converted
// amount together with the rate applied.
func (s *fxRateService) Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) (decimal.Decimal, decimal.Decimal, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if fromCode == toCode {
		return amount, decimal.NewFromInt(1), nil
	}

	snapshot, err := s.SnapshotRates(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	converted, err := fx.Convert(amount, fromCode, toCode, snapshot)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	rate, _ := snapshot.Rate(fromCode, toCode)
	return converted, rate, nil
}

// SetRateAgainstPrimary records a currency's rate against the primary
// currency and rebuilds the derived pairs in a single transaction. For a new
// rate primary->C it writes:
//
//	primary->C = rate, C->primary = 1/rate
//	C->X = (primary->X)/(primary->C) and X->C inverse, for every other
//	currency X quoted against the primary
//
// Each affected pair's active row is end-dated under a row lock before the
// replacement is inserted, so a pair never holds two active rows.
func (s *fxRateService) SetRateAgainstPrimary(ctx context.Context, req dto.SetRateRequest, creatorUserID string) ([]domain.FXRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	code := strings.ToUpper(req.CurrencyCode)
	if code == s.primary {
		return nil, fmt.Errorf("%w: cannot set a rate for the primary currency against itself", apperrors.ErrValidation)
	}
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}
	if _, err := s.currencySvc.GetCurrencyByCode(ctx, code); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency %q not found", apperrors.ErrValidation, code)
		}
		return nil, fmt.Errorf("failed to validate currency %s: %w", code, err)
	}

	now := time.Now()
	tx, err := s.fxRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = s.fxRepo.Rollback(ctx, tx)
	}()

	// Existing quotes against the primary drive the cross-rate fanout. They
	// are read under the transaction's locks so a concurrent supersession
	// cannot leave the derived cross rates stale.
	fromPrimary, err := s.fxRepo.ListActiveRatesFromForUpdate(ctx, tx, s.primary)
	if err != nil {
		return nil, fmt.Errorf("failed to lock rates from primary: %w", err)
	}

	var written []domain.FXRate
	supersede := func(from, to string, rate decimal.Decimal) error {
		newRate, err := s.supersedePair(ctx, tx, from, to, rate, req.StartDate, req.Source, creatorUserID, now)
		if err != nil {
			return err
		}
		written = append(written, *newRate)
		return nil
	}

	if err := supersede(s.primary, code, req.Rate); err != nil {
		return nil, err
	}
	one := decimal.NewFromInt(1)
	if err := supersede(code, s.primary, one.Div(req.Rate)); err != nil {
		return nil, err
	}

	for _, r := range fromPrimary {
		other := r.ToCurrencyCode
		if other == code {
			continue
		}
		// rate(code->other) = rate(primary->other) / rate(primary->code)
		cross := r.Rate.Div(req.Rate)
		if err := supersede(code, other, cross); err != nil {
			return nil, err
		}
		if err := supersede(other, code, one.Div(cross)); err != nil {
			return nil, err
		}
	}

	if err := s.fxRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit rate update: %w", err)
	}

	logger.Info("exchange rates updated",
		slog.String("currency", code),
		slog.String("rate", req.Rate.String()),
		slog.Int("pairs_written", len(written)))
	return written, nil
}

// supersedePair end-dates the active row for a directed pair (if any) and
// inserts its replacement, all inside the caller's transaction.
func (s *fxRateService) supersedePair(ctx context.Context, tx pgx.Tx, from, to string, rate decimal.Decimal, startDate time.Time, source, actingUserID string, now time.Time) (*domain.FXRate, error) {
	current, err := s.fxRepo.FindActiveRateForUpdate(ctx, tx, from, to)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to lock active rate %s->%s: %w", from, to, err)
	}
	if current != nil {
		if err := s.fxRepo.EndDateRateInTx(ctx, tx, current.RateID, startDate, actingUserID, now); err != nil {
			return nil, fmt.Errorf("failed to end-date rate %s->%s: %w", from, to, err)
		}
	}

	newRate := domain.FXRate{
		RateID:           uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             rate,
		StartDate:        startDate,
		Source:           source,
		AuditFields:      domain.NewAuditFields(actingUserID, now),
	}
	if err := s.fxRepo.InsertRateInTx(ctx, tx, newRate); err != nil {
		return nil, fmt.Errorf("failed to insert rate %s->%s: %w", from, to, err)
	}
	return &newRate, nil
}
