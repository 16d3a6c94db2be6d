package domain

// Currency represents a supported currency.
type Currency struct {
	CurrencyCode  string `json:"currencyCode"` // Primary key, e.g. "USD"
	Name          string `json:"name"`         // e.g. "US Dollar"
	Symbol        string `json:"symbol"`       // e.g. "$"
	DecimalPlaces int32  `json:"decimalPlaces"`
	IsActive      bool   `json:"isActive"`
	AuditFields
}
