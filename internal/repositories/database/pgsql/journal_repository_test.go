package pgsql

import (
	"context"
	"testing"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveEntryInTx_RejectsUnbalancedEntry(t *testing.T) {
	repo := newPgxJournalRepository(nil)

	entry := domain.JournalEntry{
		EntryID: "e1",
		Lines: []domain.JournalEntryLine{
			{LineID: "l1", EntryID: "e1", LineNo: 1, AccountID: "a1", Debit: decimal.NewFromInt(100)},
			{LineID: "l2", EntryID: "e1", LineNo: 2, AccountID: "a2", Credit: decimal.NewFromInt(90)},
		},
	}

	// The guard fires before any statement runs, so no tx is needed.
	err := repo.SaveEntryInTx(context.Background(), nil, entry)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)
}
