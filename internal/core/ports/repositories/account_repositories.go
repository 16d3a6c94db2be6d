package repositories

import (
	"context"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByCode retrieves an account by its stable business code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByCodes retrieves multiple accounts keyed by code.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// ListAccounts retrieves the full chart of accounts.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
