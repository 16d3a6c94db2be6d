package repositories

import (
	"context"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PurchaseReader defines read operations for purchase records.
type PurchaseReader interface {
	FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)

	// ListPurchasesByProduct retrieves a product's purchases, newest first.
	ListPurchasesByProduct(ctx context.Context, productID string, limit int) ([]domain.Purchase, error)
}

// PurchaseWriter defines tx-scoped write operations for purchase records.
type PurchaseWriter interface {
	InsertPurchaseInTx(ctx context.Context, tx pgx.Tx, purchase domain.Purchase) error

	// FindPurchaseForUpdate locks a purchase row prior to an update that will
	// post an adjusting journal entry.
	FindPurchaseForUpdate(ctx context.Context, tx pgx.Tx, purchaseID string) (*domain.Purchase, error)

	UpdatePurchaseInTx(ctx context.Context, tx pgx.Tx, purchase domain.Purchase) error
}

// PurchaseRepositoryFacade combines all purchase repository interfaces.
type PurchaseRepositoryFacade interface {
	PurchaseReader
	PurchaseWriter
}

// PurchaseRepositoryWithTx extends PurchaseRepositoryFacade with transaction capabilities.
type PurchaseRepositoryWithTx interface {
	PurchaseRepositoryFacade
	TransactionManager
}
