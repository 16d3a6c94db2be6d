package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// Well-known chart-of-accounts codes the costing engine depends on.
// These are seeded at bootstrap; a posting operation that cannot resolve
// one of them fails with ErrMissingAccount.
const (
	AccountCodeCash            = "1000"
	AccountCodeInventory       = "1200"
	AccountCodeAccountsPayable = "2000"
	AccountCodeSalesIncome     = "4000"
	AccountCodeCOGS            = "5000"
)

// Account is a node in the chart-of-accounts tree.
type Account struct {
	AccountID       string      `json:"accountID"`
	Code            string      `json:"code"` // Globally unique business code, e.g. "1200"
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	ParentAccountID *string     `json:"parentAccountID,omitempty"` // Nullable self-reference
	Description     string      `json:"description"`
	AuditFields
}
