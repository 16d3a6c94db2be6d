package dto

import (
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetRateRequest defines the structure for setting a currency's rate against
// the primary currency. The inverse and all cross pairs are derived server side.
type SetRateRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	Rate         decimal.Decimal `json:"rate" binding:"required"`
	StartDate    time.Time       `json:"startDate" binding:"required"`
	Source       string          `json:"source" binding:"max=100"`
}

// ConvertRequest defines the structure for a one-off currency conversion.
type ConvertRequest struct {
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3,uppercase"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3,uppercase"`
}

// ConvertResponse carries the converted amount and the rate applied.
type ConvertResponse struct {
	Amount           decimal.Decimal `json:"amount"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Converted        decimal.Decimal `json:"converted"`
	Rate             decimal.Decimal `json:"rate"`
}

// FXRateResponse defines the structure for API responses containing rate details.
type FXRateResponse struct {
	RateID           string          `json:"rateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          *time.Time      `json:"endDate,omitempty"`
	Source           string          `json:"source,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy    string          `json:"lastUpdatedBy"`
}

// ToFXRateResponse converts a domain.FXRate to FXRateResponse DTO
func ToFXRateResponse(rate *domain.FXRate) FXRateResponse {
	return FXRateResponse{
		RateID:           rate.RateID,
		FromCurrencyCode: rate.FromCurrencyCode,
		ToCurrencyCode:   rate.ToCurrencyCode,
		Rate:             rate.Rate,
		StartDate:        rate.StartDate,
		EndDate:          rate.EndDate,
		Source:           rate.Source,
		CreatedAt:        rate.CreatedAt,
		CreatedBy:        rate.CreatedBy,
		LastUpdatedAt:    rate.LastUpdatedAt,
		LastUpdatedBy:    rate.LastUpdatedBy,
	}
}

// ToListFXRateResponse converts a slice of domain.FXRate to FXRateResponse DTOs.
func ToListFXRateResponse(rates []domain.FXRate) []FXRateResponse {
	responses := make([]FXRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToFXRateResponse(&rates[i])
	}
	return responses
}
