package dto

import (
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InventoryValuationLineResponse is one product's valuation in the reporting
// currency. Convertible is false when no active rate covered the row's
// purchase currency; such rows keep their native cost but are excluded from
// the total.
type InventoryValuationLineResponse struct {
	ProductID     string          `json:"productID"`
	SKU           string          `json:"sku"`
	ProductName   string          `json:"productName"`
	Quantity      int64           `json:"quantity"`
	CurrencyCode  string          `json:"currencyCode"`
	Cost          decimal.Decimal `json:"cost"`
	ConvertedCost decimal.Decimal `json:"convertedCost"`
	Convertible   bool            `json:"convertible"`
}

// InventoryValuationResponse defines the structure for the stock valuation report.
type InventoryValuationResponse struct {
	ReportingCurrency string                           `json:"reportingCurrency"`
	AsOf              time.Time                        `json:"asOf"`
	Lines             []InventoryValuationLineResponse `json:"lines"`
	TotalValue        decimal.Decimal                  `json:"totalValue"`
	SkippedLines      int                              `json:"skippedLines"`
}

// PurchaseTotalRowResponse is one currency's purchase aggregate for a period.
type PurchaseTotalRowResponse struct {
	CurrencyCode  string          `json:"currencyCode"`
	PurchaseCount int64           `json:"purchaseCount"`
	TotalCost     decimal.Decimal `json:"totalCost"`
}

// PurchaseSummaryResponse defines the structure for the period purchase report.
type PurchaseSummaryResponse struct {
	ReportingCurrency string                     `json:"reportingCurrency"`
	From              time.Time                  `json:"from"`
	To                time.Time                  `json:"to"`
	Rows              []PurchaseTotalRowResponse `json:"rows"`
	TotalSpend        decimal.Decimal            `json:"totalSpend"`
	SkippedRows       int                        `json:"skippedRows"`
}

// ToInventoryValuationResponse converts a domain.InventoryValuation to its DTO.
func ToInventoryValuationResponse(v *domain.InventoryValuation) InventoryValuationResponse {
	lines := make([]InventoryValuationLineResponse, len(v.Lines))
	for i, l := range v.Lines {
		lines[i] = InventoryValuationLineResponse{
			ProductID:     l.ProductID,
			SKU:           l.SKU,
			ProductName:   l.ProductName,
			Quantity:      l.Quantity,
			CurrencyCode:  l.CurrencyCode,
			Cost:          l.Cost,
			ConvertedCost: l.ConvertedCost,
			Convertible:   l.Convertible,
		}
	}
	return InventoryValuationResponse{
		ReportingCurrency: v.ReportingCurrency,
		AsOf:              v.AsOf,
		Lines:             lines,
		TotalValue:        v.TotalValue,
		SkippedLines:      v.SkippedLines,
	}
}

// ToPurchaseSummaryResponse converts a domain.PurchaseSummary to its DTO.
func ToPurchaseSummaryResponse(s *domain.PurchaseSummary) PurchaseSummaryResponse {
	rows := make([]PurchaseTotalRowResponse, len(s.Rows))
	for i, r := range s.Rows {
		rows[i] = PurchaseTotalRowResponse{
			CurrencyCode:  r.CurrencyCode,
			PurchaseCount: r.PurchaseCount,
			TotalCost:     r.TotalCost,
		}
	}
	return PurchaseSummaryResponse{
		ReportingCurrency: s.ReportingCurrency,
		From:              s.From,
		To:                s.To,
		Rows:              rows,
		TotalSpend:        s.TotalSpend,
		SkippedRows:       s.SkippedRows,
	}
}
