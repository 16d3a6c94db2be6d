package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FXRate is a directed, time-bounded exchange rate edge: Rate units of the
// "to" currency per unit of the "from" currency. For each directed pair at
// most one row is active (EndDate == nil) at any time; superseded rows keep
// their full history with EndDate set.
type FXRate struct {
	RateID           string          `json:"rateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	StartDate        time.Time       `json:"startDate"`
	EndDate          *time.Time      `json:"endDate,omitempty"` // nil = currently active
	Source           string          `json:"source,omitempty"`
	AuditFields
}

// IsActive reports whether this rate row is the current one for its pair.
func (r *FXRate) IsActive() bool {
	return r.EndDate == nil
}
