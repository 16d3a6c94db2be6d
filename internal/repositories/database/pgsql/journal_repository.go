package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	"github.com/costbooks/inventory_costing_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxJournalRepository implements the journal repository interfaces using
// pgxpool. Entries and their lines are append-only: there is no update or
// delete path for posted rows.
type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new PgxJournalRepository.
func newPgxJournalRepository(db *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// SaveEntryInTx persists an entry and all of its lines within the given
// transaction. Unbalanced entries are rejected before anything is written.
func (r *PgxJournalRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	if !entry.IsBalanced() {
		return fmt.Errorf("%w: entry %s debits %s credits %s",
			apperrors.ErrUnbalancedEntry, entry.EntryID, entry.TotalDebit(), entry.TotalCredit())
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO journal_entries (
			entry_id, entry_date, description, reference,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.EntryID, entry.EntryDate, entry.Description, entry.Reference,
		entry.CreatedAt, entry.CreatedBy, entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "journal entry "+entry.EntryID)
	}

	batch := &pgx.Batch{}
	for _, line := range entry.Lines {
		batch.Queue(`
			INSERT INTO journal_entry_lines (
				line_id, entry_id, line_no, account_id, debit, credit, description
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			line.LineID, line.EntryID, line.LineNo, line.AccountID, line.Debit, line.Credit, line.Description,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range entry.Lines {
		if _, err := results.Exec(); err != nil {
			return mapWriteError(err, "journal entry line")
		}
	}
	return nil
}

// FindEntryByID retrieves a journal entry header by its identifier.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := r.Pool.QueryRow(ctx, `
		SELECT entry_id, entry_date, description, reference,
			created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entries WHERE entry_id = $1`, entryID,
	).Scan(
		&e.EntryID, &e.EntryDate, &e.Description, &e.Reference,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find journal entry: %w", err)
	}
	return &e, nil
}

// FindLinesByEntryID retrieves all lines of an entry in insertion order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT line_id, entry_id, line_no, account_id, debit, credit, description
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY line_no`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.JournalEntryLine
	for rows.Next() {
		var l domain.JournalEntryLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.LineNo, &l.AccountID, &l.Debit, &l.Credit, &l.Description); err != nil {
			return nil, fmt.Errorf("failed to scan entry line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry lines: %w", err)
	}
	return lines, nil
}

// ListEntriesByDateRange retrieves entries within [from, to] using keyset
// pagination ordered by (entry_date, created_at) descending.
func (r *PgxJournalRepository) ListEntriesByDateRange(ctx context.Context, from, to time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := `
		SELECT entry_id, entry_date, description, reference,
			created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entries
		WHERE entry_date >= $1 AND entry_date <= $2`
	args := []interface{}{from, to}

	if nextToken != nil && *nextToken != "" {
		tokenDate, tokenCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (entry_date, created_at) < ($3, $4)`
		args = append(args, tokenDate, tokenCreatedAt)
	}

	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var e domain.JournalEntry
		if err := rows.Scan(
			&e.EntryID, &e.EntryDate, &e.Description, &e.Reference,
			&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entries: %w", err)
	}

	var next *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		next = &token
	}
	return entries, next, nil
}
