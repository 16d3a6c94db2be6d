package services

import (
	"context"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/costbooks/inventory_costing_app/internal/dto"
)

// AccountReaderSvc defines read operations for ledger accounts
type AccountReaderSvc interface {
	// GetAccountByCode retrieves an account by its chart-of-accounts code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// ListAccounts retrieves the full chart of accounts.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for ledger accounts
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

// LedgerReaderSvc defines read operations over posted journal entries
type LedgerReaderSvc interface {
	// GetEntryByID retrieves a journal entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves entries in a date range with keyset pagination.
	ListEntries(ctx context.Context, from, to time.Time, limit int, nextToken string) ([]domain.JournalEntry, string, error)
}

// LedgerSvcFacade combines ledger service interfaces. Posting is not exposed
// here: entries are only written by the costing flows, inside their own
// transactions.
type LedgerSvcFacade interface {
	LedgerReaderSvc
}
