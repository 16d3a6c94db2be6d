package services

import (
	"context"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
)

// ReportingService produces valuation and spend reports in the configured
// reporting currency. Rows whose currency has no active rate are kept in
// their native currency, flagged, and excluded from totals.
type ReportingService interface {
	GetInventoryValuation(ctx context.Context, reportingCurrency string) (*domain.InventoryValuation, error)
	GetPurchaseSummary(ctx context.Context, reportingCurrency string, from, to time.Time) (*domain.PurchaseSummary, error)
}
