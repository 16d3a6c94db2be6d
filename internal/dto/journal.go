package dto

import (
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryLineResponse is one debit or credit line within an entry.
type JournalEntryLineResponse struct {
	LineID      string          `json:"lineID"`
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// JournalEntryResponse defines the structure for API responses containing a
// journal entry with its lines.
type JournalEntryResponse struct {
	EntryID       string                     `json:"entryID"`
	EntryDate     time.Time                  `json:"entryDate"`
	Description   string                     `json:"description"`
	Reference     string                     `json:"reference,omitempty"`
	Lines         []JournalEntryLineResponse `json:"lines"`
	TotalDebit    decimal.Decimal            `json:"totalDebit"`
	TotalCredit   decimal.Decimal            `json:"totalCredit"`
	CreatedAt     time.Time                  `json:"createdAt"`
	CreatedBy     string                     `json:"createdBy"`
	LastUpdatedAt time.Time                  `json:"lastUpdatedAt"`
	LastUpdatedBy string                     `json:"lastUpdatedBy"`
}

// ListJournalEntriesResponse wraps a page of entries with the keyset token for
// the next page. NextToken is empty on the last page.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken string                 `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalEntryLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalEntryLineResponse{
			LineID:      l.LineID,
			LineNo:      l.LineNo,
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}
	return JournalEntryResponse{
		EntryID:       e.EntryID,
		EntryDate:     e.EntryDate,
		Description:   e.Description,
		Reference:     e.Reference,
		Lines:         lines,
		TotalDebit:    e.TotalDebit(),
		TotalCredit:   e.TotalCredit(),
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
		LastUpdatedAt: e.LastUpdatedAt,
		LastUpdatedBy: e.LastUpdatedBy,
	}
}

// ToListJournalEntriesResponse converts a page of domain entries plus its
// pagination token.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken string) ListJournalEntriesResponse {
	responses := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToJournalEntryResponse(&entries[i])
	}
	return ListJournalEntriesResponse{Entries: responses, NextToken: nextToken}
}
