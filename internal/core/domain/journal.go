package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents a single, balanced accounting event composed of
// multiple lines. Once posted, an entry and its lines are immutable;
// corrections are made by posting adjusting or reversing entries.
type JournalEntry struct {
	EntryID     string             `json:"entryID"`
	EntryDate   time.Time          `json:"entryDate"`
	Description string             `json:"description"`
	Reference   string             `json:"reference"` // External reference, e.g. an order ID
	Lines       []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// JournalEntryLine is one leg of a journal entry. Exactly one of Debit or
// Credit is expected to be nonzero; callers pass zero for the unused side.
type JournalEntryLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// TotalDebit sums the debit side across all lines.
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredit sums the credit side across all lines.
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

// IsBalanced reports whether debits equal credits across all lines.
func (e *JournalEntry) IsBalanced() bool {
	return e.TotalDebit().Equal(e.TotalCredit())
}
