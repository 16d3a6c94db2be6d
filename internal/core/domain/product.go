package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product carries the identity the costing engine needs. Full catalog
// management (categories, images, reviews) lives outside this service.
type Product struct {
	ProductID string `json:"productID"`
	SKU       string `json:"sku"` // Unique stock keeping unit
	Name      string `json:"name"`
	IsActive  bool   `json:"isActive"`
	AuditFields
}

// ProductPrice is a time-bounded sale price. At most one row per product is
// active (EndDate == nil); price changes end-date the prior row.
type ProductPrice struct {
	PriceID      string          `json:"priceID"`
	ProductID    string          `json:"productID"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currencyCode"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      *time.Time      `json:"endDate,omitempty"`
	AuditFields
}
