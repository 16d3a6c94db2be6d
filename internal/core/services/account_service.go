package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
	"github.com/costbooks/inventory_costing_app/internal/dto"
	"github.com/google/uuid"
)

// accountService provides business logic for the chart of accounts. Lookups
// by code are cached: account rows are seeded by migration and change rarely,
// while every costing operation resolves several codes.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade

	mu     sync.RWMutex
	byCode map[string]domain.Account
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		byCode:      make(map[string]domain.Account),
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new ledger account.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	switch req.AccountType {
	case domain.Asset, domain.Liability, domain.Equity, domain.Income, domain.Expense:
	default:
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	now := time.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		AuditFields:     domain.NewAuditFields(creatorUserID, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.mu.Lock()
	s.byCode[account.Code] = account
	s.mu.Unlock()

	return &account, nil
}

// GetAccountByCode retrieves an account by its chart-of-accounts code.
func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	if account, ok := s.byCode[code]; ok {
		s.mu.RUnlock()
		return &account, nil
	}
	s.mu.RUnlock()

	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by code %s: %w", code, err)
	}

	s.mu.Lock()
	s.byCode[account.Code] = *account
	s.mu.Unlock()

	return account, nil
}

// ListAccounts retrieves the full chart of accounts.
func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}
