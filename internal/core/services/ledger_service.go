package services

import (
	"context"
	"fmt"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
)

// ledgerService provides read access to posted journal entries. Writes go
// through the costing flows only, so the ledger stays append-only.
type ledgerService struct {
	journalRepo portsrepo.JournalRepositoryWithTx
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryWithTx) portssvc.LedgerSvcFacade {
	return &ledgerService{journalRepo: journalRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetEntryByID retrieves a journal entry with its lines.
func (s *ledgerService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry %s: %w", entryID, err)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves entries in a date range with keyset pagination.
func (s *ledgerService) ListEntries(ctx context.Context, from, to time.Time, limit int, nextToken string) ([]domain.JournalEntry, string, error) {
	if to.Before(from) {
		return nil, "", fmt.Errorf("%w: end of range precedes start", apperrors.ErrValidation)
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var token *string
	if nextToken != "" {
		token = &nextToken
	}

	entries, next, err := s.journalRepo.ListEntriesByDateRange(ctx, from, to, limit, token)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list journal entries: %w", err)
	}

	var nextOut string
	if next != nil {
		nextOut = *next
	}
	return entries, nextOut, nil
}
