package repositories

import (
	"context"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
)

// ReportingReader defines the aggregate read queries behind reports. Rows are
// returned in their native purchase currencies; conversion happens in the
// service against a rate snapshot.
type ReportingReader interface {
	// FindStockValueRows aggregates remaining batch stock times unit cost per
	// product and currency. Zero-stock products are omitted.
	FindStockValueRows(ctx context.Context) ([]domain.StockValueRow, error)

	// FindPurchaseTotals aggregates purchase spend per currency over a period.
	FindPurchaseTotals(ctx context.Context, from, to time.Time) ([]domain.PurchaseTotalRow, error)
}
