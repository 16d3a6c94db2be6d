package dto

import (
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
)

// CreateAccountRequest defines the structure for creating a new ledger account.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required,max=20"`
	Name            string             `json:"name" binding:"required,max=100"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	ParentAccountID *string            `json:"parentAccountID,omitempty"`
	Description     string             `json:"description,omitempty" binding:"max=255"`
}

// AccountResponse defines the structure for API responses containing account details.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID *string            `json:"parentAccountID,omitempty"`
	Description     string             `json:"description,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     a.AccountType,
		ParentAccountID: a.ParentAccountID,
		Description:     a.Description,
		CreatedAt:       a.CreatedAt,
		CreatedBy:       a.CreatedBy,
		LastUpdatedAt:   a.LastUpdatedAt,
		LastUpdatedBy:   a.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to AccountResponse DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
