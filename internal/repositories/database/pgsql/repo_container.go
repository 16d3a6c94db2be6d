package pgsql

import (
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository over a shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		CurrencyRepo:  newPgxCurrencyRepository(dbPool),
		FXRateRepo:    newPgxFXRateRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		InventoryRepo: newPgxInventoryRepository(dbPool),
		PurchaseRepo:  newPgxPurchaseRepository(dbPool),
		ProductRepo:   newPgxProductRepository(dbPool),
		OrderRepo:     newPgxOrderRepository(dbPool),
		RatesRepo:     newPgxRatesRepository(dbPool),
		ReportingRepo: newPgxReportingRepository(dbPool),
	}
}
