package dto

import (
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetProfitRateRequest defines the structure for setting the active profit margin.
type SetProfitRateRequest struct {
	Rate      decimal.Decimal `json:"rate" binding:"required"`
	StartDate time.Time       `json:"startDate" binding:"required"`
}

// SetWeightCostRequest defines the structure for setting the active shipping
// cost per kilogram.
type SetWeightCostRequest struct {
	CostPerKg    decimal.Decimal `json:"costPerKg" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	StartDate    time.Time       `json:"startDate" binding:"required"`
}

// ProfitRateResponse defines the structure for API responses containing a profit rate row.
type ProfitRateResponse struct {
	ProfitRateID  string          `json:"profitRateID"`
	Rate          decimal.Decimal `json:"rate"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// WeightCostResponse defines the structure for API responses containing a weight cost row.
type WeightCostResponse struct {
	WeightCostID  string          `json:"weightCostID"`
	CostPerKg     decimal.Decimal `json:"costPerKg"`
	CurrencyCode  string          `json:"currencyCode"`
	StartDate     time.Time       `json:"startDate"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToProfitRateResponse converts a domain.ProfitRate to ProfitRateResponse DTO
func ToProfitRateResponse(r *domain.ProfitRate) ProfitRateResponse {
	return ProfitRateResponse{
		ProfitRateID:  r.ProfitRateID,
		Rate:          r.Rate,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		CreatedAt:     r.CreatedAt,
		CreatedBy:     r.CreatedBy,
		LastUpdatedAt: r.LastUpdatedAt,
		LastUpdatedBy: r.LastUpdatedBy,
	}
}

// ToWeightCostResponse converts a domain.WeightCost to WeightCostResponse DTO
func ToWeightCostResponse(w *domain.WeightCost) WeightCostResponse {
	return WeightCostResponse{
		WeightCostID:  w.WeightCostID,
		CostPerKg:     w.CostPerKg,
		CurrencyCode:  w.CurrencyCode,
		StartDate:     w.StartDate,
		EndDate:       w.EndDate,
		CreatedAt:     w.CreatedAt,
		CreatedBy:     w.CreatedBy,
		LastUpdatedAt: w.LastUpdatedAt,
		LastUpdatedBy: w.LastUpdatedBy,
	}
}
