package accounting

import (
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryBuilder accumulates journal lines and only yields a postable entry
// once the balance invariant is confirmed. An unbalanced draft never reaches
// the repository, so no partially valid entry can be written.
type EntryBuilder struct {
	description string
	reference   string
	entryDate   time.Time
	lines       []domain.JournalEntryLine
}

// NewEntryBuilder starts a draft journal entry.
func NewEntryBuilder(description, reference string, entryDate time.Time) *EntryBuilder {
	return &EntryBuilder{
		description: description,
		reference:   reference,
		entryDate:   entryDate,
	}
}

// Debit appends a debit-side line.
func (b *EntryBuilder) Debit(accountID string, amount decimal.Decimal, description string) *EntryBuilder {
	b.lines = append(b.lines, domain.JournalEntryLine{
		AccountID:   accountID,
		Debit:       amount,
		Credit:      decimal.Zero,
		Description: description,
	})
	return b
}

// Credit appends a credit-side line.
func (b *EntryBuilder) Credit(accountID string, amount decimal.Decimal, description string) *EntryBuilder {
	b.lines = append(b.lines, domain.JournalEntryLine{
		AccountID:   accountID,
		Debit:       decimal.Zero,
		Credit:      amount,
		Description: description,
	})
	return b
}

// LineCount returns how many lines the draft holds so far.
func (b *EntryBuilder) LineCount() int {
	return len(b.lines)
}

// Build validates the draft and materializes it with fresh IDs and audit
// fields. It fails with ErrUnbalancedEntry (or ErrValidation) without
// allocating an entry when the draft is not a legal posting.
func (b *EntryBuilder) Build(actingUserID string, now time.Time) (domain.JournalEntry, error) {
	if err := ValidateEntryBalance(b.lines); err != nil {
		return domain.JournalEntry{}, err
	}

	entryID := uuid.NewString()
	lines := make([]domain.JournalEntryLine, len(b.lines))
	for i, line := range b.lines {
		line.LineID = uuid.NewString()
		line.EntryID = entryID
		line.LineNo = i + 1
		lines[i] = line
	}

	return domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   b.entryDate,
		Description: b.description,
		Reference:   b.reference,
		Lines:       lines,
		AuditFields: domain.NewAuditFields(actingUserID, now),
	}, nil
}
