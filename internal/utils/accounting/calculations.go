package accounting

import (
	"fmt"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidateEntryBalance checks that a set of journal lines forms a legal
// double-entry posting: at least two lines, no negative amounts, no line with
// both sides set, and debits summing equal to credits.
func ValidateEntryBalance(lines []domain.JournalEntryLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: journal entry must have at least two lines", apperrors.ErrValidation)
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: journal line amounts must not be negative for account %s", apperrors.ErrValidation, line.AccountID)
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return fmt.Errorf("%w: journal line for account %s sets both debit and credit", apperrors.ErrValidation, line.AccountID)
		}
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			apperrors.ErrUnbalancedEntry, debits.String(), credits.String())
	}
	return nil
}

// SignedAmount applies the conventional sign of a line's net effect on an
// account balance: debits increase assets/expenses and decrease the rest.
func SignedAmount(line domain.JournalEntryLine, accountType domain.AccountType) (decimal.Decimal, error) {
	net := line.Debit.Sub(line.Credit)
	switch accountType {
	case domain.Asset, domain.Expense:
		return net, nil
	case domain.Liability, domain.Equity, domain.Income:
		return net.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' for account %s", accountType, line.AccountID)
	}
}
