package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAccountRepository implements the account repository interfaces using pgxpool.
type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new PgxAccountRepository.
func newPgxAccountRepository(db *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, code, name, account_type, parent_account_id, description,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID, &a.Code, &a.Name, &a.AccountType, &a.ParentAccountID, &a.Description,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// SaveAccount persists a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO accounts (
			account_id, code, name, account_type, parent_account_id, description,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.AccountID, account.Code, account.Name, account.AccountType,
		account.ParentAccountID, account.Description,
		account.CreatedAt, account.CreatedBy, account.LastUpdatedAt, account.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "account "+account.Code)
	}
	return nil
}

// FindAccountByCode retrieves an account by its stable business code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE code = $1`, code)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account with code %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to find account by code: %w", err)
	}
	return account, nil
}

// FindAccountsByCodes retrieves multiple accounts keyed by code.
func (r *PgxAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE code = ANY($1)`, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts by codes: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(codes))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts[account.Code] = *account
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// ListAccounts retrieves the full chart of accounts ordered by code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}
