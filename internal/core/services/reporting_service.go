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
	"github.com/costbooks/inventory_costing_app/internal/middleware"
	"github.com/costbooks/inventory_costing_app/internal/utils/fx"
	"github.com/shopspring/decimal"
)

// reportingService builds valuation and spend reports. Unlike the costing
// flows, a missing rate is not fatal here: unconvertible rows are flagged and
// excluded from totals so one stale currency cannot block the whole report.
type reportingService struct {
	reportingRepo portsrepo.ReportingReader
	fxSvc         portssvc.FXRateSvcFacade
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingReader, fxSvc portssvc.FXRateSvcFacade) portssvc.ReportingService {
	return &reportingService{
		reportingRepo: reportingRepo,
		fxSvc:         fxSvc,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// GetInventoryValuation values all on-hand stock in the reporting currency.
func (s *reportingService) GetInventoryValuation(ctx context.Context, reportingCurrency string) (*domain.InventoryValuation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reportingCurrency = strings.ToUpper(reportingCurrency)
	if len(reportingCurrency) != 3 {
		return nil, fmt.Errorf("%w: reporting currency must be a 3-letter code", apperrors.ErrValidation)
	}

	rows, err := s.reportingRepo.FindStockValueRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock value rows: %w", err)
	}
	snapshot, err := s.fxSvc.SnapshotRates(ctx)
	if err != nil {
		return nil, err
	}

	valuation := &domain.InventoryValuation{
		ReportingCurrency: reportingCurrency,
		AsOf:              time.Now(),
		Lines:             make([]domain.InventoryValuationLine, 0, len(rows)),
		TotalValue:        decimal.Zero,
	}

	for _, row := range rows {
		line := domain.InventoryValuationLine{
			ProductID:    row.ProductID,
			SKU:          row.SKU,
			ProductName:  row.ProductName,
			Quantity:     row.Quantity,
			CurrencyCode: row.CurrencyCode,
			Cost:         row.Cost,
		}

		converted, err := fx.Convert(row.Cost, row.CurrencyCode, reportingCurrency, snapshot)
		switch {
		case err == nil:
			line.ConvertedCost = converted
			line.Convertible = true
			valuation.TotalValue = valuation.TotalValue.Add(converted)
		case errors.Is(err, apperrors.ErrMissingRate):
			valuation.SkippedLines++
			logger.Warn("skipping unconvertible valuation row",
				slog.String("product_id", row.ProductID),
				slog.String("currency", row.CurrencyCode))
		default:
			return nil, err
		}

		valuation.Lines = append(valuation.Lines, line)
	}

	return valuation, nil
}

// GetPurchaseSummary aggregates purchase spend over a period in the reporting
// currency.
func (s *reportingService) GetPurchaseSummary(ctx context.Context, reportingCurrency string, from, to time.Time) (*domain.PurchaseSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reportingCurrency = strings.ToUpper(reportingCurrency)
	if len(reportingCurrency) != 3 {
		return nil, fmt.Errorf("%w: reporting currency must be a 3-letter code", apperrors.ErrValidation)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end of period precedes start", apperrors.ErrValidation)
	}

	rows, err := s.reportingRepo.FindPurchaseTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase totals: %w", err)
	}
	snapshot, err := s.fxSvc.SnapshotRates(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.PurchaseSummary{
		ReportingCurrency: reportingCurrency,
		From:              from,
		To:                to,
		Rows:              rows,
		TotalSpend:        decimal.Zero,
	}

	for _, row := range rows {
		converted, err := fx.Convert(row.TotalCost, row.CurrencyCode, reportingCurrency, snapshot)
		switch {
		case err == nil:
			summary.TotalSpend = summary.TotalSpend.Add(converted)
		case errors.Is(err, apperrors.ErrMissingRate):
			summary.SkippedRows++
			logger.Warn("skipping unconvertible purchase total",
				slog.String("currency", row.CurrencyCode))
		default:
			return nil, err
		}
	}

	return summary, nil
}
