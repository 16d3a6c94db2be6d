// Package fx provides pure currency conversion over an immutable snapshot of
// active exchange rates. It never touches storage: callers fetch one snapshot
// per top-level operation and thread it through, so every conversion within
// that operation sees a consistent rate table.
package fx

import (
	"fmt"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Pair is a directed currency pair key.
type Pair struct {
	From string
	To   string
}

// RateMap is a snapshot of all currently active rates keyed by directed pair.
type RateMap map[Pair]decimal.Decimal

// Rate looks up the snapshot rate for a directed pair.
func (m RateMap) Rate(from, to string) (decimal.Decimal, bool) {
	rate, ok := m[Pair{From: from, To: to}]
	return rate, ok
}

// Convert returns amount converted from one currency to another using the
// supplied snapshot. Same-currency conversion is the identity. A missing pair
// fails with apperrors.ErrMissingRate.
func Convert(amount decimal.Decimal, from, to string, rates RateMap) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	rate, ok := rates.Rate(from, to)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s to %s", apperrors.ErrMissingRate, from, to)
	}
	return amount.Mul(rate), nil
}
