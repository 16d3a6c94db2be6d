package dto

import (
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the structure for creating a new product.
type CreateProductRequest struct {
	SKU  string `json:"sku" binding:"required,max=50"`
	Name string `json:"name" binding:"required,max=200"`
}

// SetProductPriceRequest defines the structure for setting a product's selling price.
type SetProductPriceRequest struct {
	Price        decimal.Decimal `json:"price" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	StartDate    time.Time       `json:"startDate" binding:"required"`
}

// ProductResponse defines the structure for API responses containing product details.
type ProductResponse struct {
	ProductID     string    `json:"productID"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ProductPriceResponse defines the structure for API responses containing a price row.
type ProductPriceResponse struct {
	PriceID      string          `json:"priceID"`
	ProductID    string          `json:"productID"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currencyCode"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
}

// ToProductResponse converts a domain.Product to ProductResponse DTO
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:     p.ProductID,
		SKU:           p.SKU,
		Name:          p.Name,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// ToListProductResponse converts a slice of domain.Product to ProductResponse DTOs.
func ToListProductResponse(products []domain.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// ToProductPriceResponse converts a domain.ProductPrice to ProductPriceResponse DTO
func ToProductPriceResponse(p *domain.ProductPrice) ProductPriceResponse {
	return ProductPriceResponse{
		PriceID:      p.PriceID,
		ProductID:    p.ProductID,
		Price:        p.Price,
		CurrencyCode: p.CurrencyCode,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
	}
}
