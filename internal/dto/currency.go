package dto

import (
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
)

// CreateCurrencyRequest defines the structure for creating a new currency.
type CreateCurrencyRequest struct {
	CurrencyCode  string `json:"currencyCode" binding:"required,len=3,uppercase"`
	Name          string `json:"name" binding:"required,max=100"`
	Symbol        string `json:"symbol" binding:"required,max=10"`
	DecimalPlaces int32  `json:"decimalPlaces" binding:"gte=0,lte=8"`
}

// CurrencyResponse defines the structure for API responses containing currency details.
type CurrencyResponse struct {
	CurrencyCode  string    `json:"currencyCode"`
	Name          string    `json:"name"`
	Symbol        string    `json:"symbol"`
	DecimalPlaces int32     `json:"decimalPlaces"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:  c.CurrencyCode,
		Name:          c.Name,
		Symbol:        c.Symbol,
		DecimalPlaces: c.DecimalPlaces,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		CreatedBy:     c.CreatedBy,
		LastUpdatedAt: c.LastUpdatedAt,
		LastUpdatedBy: c.LastUpdatedBy,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to CurrencyResponse DTOs.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	responses := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		responses[i] = ToCurrencyResponse(&currencies[i])
	}
	return responses
}
