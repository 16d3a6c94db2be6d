package repositories

import (
	"context"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// JournalReader defines read operations for journal entry data.
type JournalReader interface {
	// FindEntryByID retrieves a journal entry header by its identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines of an entry in insertion order.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// ListEntriesByDateRange retrieves entries within [from, to] using
	// token-based keyset pagination. Returns entries, next token, error.
	ListEntriesByDateRange(ctx context.Context, from, to time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entry data.
type JournalWriter interface {
	// SaveEntryInTx persists an entry and all of its lines within the given
	// transaction. Lines are append-only; posted entries are never edited.
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities.
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
