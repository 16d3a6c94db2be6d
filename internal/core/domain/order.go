package domain

import "github.com/shopspring/decimal"

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Order is a sales order settled in a single currency. Item prices quoted in
// other currencies are converted into the order currency using the FX rate
// snapshot taken when the order is created.
type Order struct {
	OrderID      string          `json:"orderID"`
	Reference    string          `json:"reference"`
	CustomerID   string          `json:"customerID"`
	CurrencyCode string          `json:"currencyCode"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Status       OrderStatus     `json:"status"`
	AuditFields
}

// OrderItem is one order line. Price is the unit sale price in its native
// currency at order time (the converted amount lives on the order total).
type OrderItem struct {
	ItemID       string          `json:"itemID"`
	OrderID      string          `json:"orderID"`
	ProductID    string          `json:"productID"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currencyCode"`
}
