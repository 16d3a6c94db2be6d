package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockValueRow is one product's on-hand quantity and cost in the purchase
// currency of its batches. A product appears once per distinct currency.
type StockValueRow struct {
	ProductID    string
	SKU          string
	ProductName  string
	Quantity     int64
	CurrencyCode string
	Cost         decimal.Decimal
}

// InventoryValuationLine is a stock-value row converted into the reporting
// currency. Convertible says whether an active rate existed at snapshot time.
type InventoryValuationLine struct {
	ProductID     string
	SKU           string
	ProductName   string
	Quantity      int64
	CurrencyCode  string
	Cost          decimal.Decimal
	ConvertedCost decimal.Decimal
	Convertible   bool
}

// InventoryValuation is the full valuation report.
type InventoryValuation struct {
	ReportingCurrency string
	AsOf              time.Time
	Lines             []InventoryValuationLine
	TotalValue        decimal.Decimal
	SkippedLines      int
}

// PurchaseTotalRow aggregates purchase spend per currency for a period.
type PurchaseTotalRow struct {
	CurrencyCode  string
	PurchaseCount int64
	TotalCost     decimal.Decimal
}

// PurchaseSummary is the period purchase report in the reporting currency.
type PurchaseSummary struct {
	ReportingCurrency string
	From              time.Time
	To                time.Time
	Rows              []PurchaseTotalRow
	TotalSpend        decimal.Decimal
	SkippedRows       int
}
