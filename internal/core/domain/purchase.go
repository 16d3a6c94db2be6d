package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase records acquiring Quantity units of a product at PricePerUnit in
// the given currency. It is the immutable cost basis for its inventory batch;
// a quantity or price correction posts an adjusting journal entry rather than
// rewriting history.
type Purchase struct {
	PurchaseID       string          `json:"purchaseID"`
	ProductID        string          `json:"productID"`
	Quantity         int64           `json:"quantity"`
	PricePerUnit     decimal.Decimal `json:"pricePerUnit"`
	CurrencyCode     string          `json:"currencyCode"`
	PurchaseDatetime time.Time       `json:"purchaseDatetime"`
	AuditFields
}

// TotalCost is Quantity * PricePerUnit in the purchase's native currency.
func (p *Purchase) TotalCost() decimal.Decimal {
	return p.PricePerUnit.Mul(decimal.NewFromInt(p.Quantity))
}
