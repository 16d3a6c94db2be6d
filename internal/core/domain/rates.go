package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitRate is the global markup percentage applied when quoting admin
// order prices. Time-bounded with at most one active row.
type ProfitRate struct {
	ProfitRateID string          `json:"profitRateID"`
	Rate         decimal.Decimal `json:"rate"` // percent, e.g. 15 for 15%
	StartDate    time.Time       `json:"startDate"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
	AuditFields
}

// WeightCost is the global shipping cost per kilogram, in a given currency.
// Time-bounded with at most one active row.
type WeightCost struct {
	WeightCostID string          `json:"weightCostID"`
	CostPerKg    decimal.Decimal `json:"costPerKg"`
	CurrencyCode string          `json:"currencyCode"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
	AuditFields
}
