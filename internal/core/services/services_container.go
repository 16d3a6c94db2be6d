package services

import (
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
	"github.com/costbooks/inventory_costing_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Ledger = NewLedgerService(repos.JournalRepo)
	container.FXRate = NewFXRateService(repos.FXRateRepo, container.Currency, cfg.PrimaryCurrencyCode)
	container.Product = NewProductService(repos.ProductRepo)

	inventorySvc := NewInventoryService(repos.InventoryRepo)
	container.Inventory = inventorySvc

	// The journal repo's pool backs every costing transaction; all repos in
	// the provider share it.
	container.Costing = NewCostingService(
		repos.JournalRepo,
		repos.PurchaseRepo,
		repos.JournalRepo,
		repos.ProductRepo,
		inventorySvc,
		container.Account,
		cfg.PrimaryCurrencyCode,
	)
	container.Order = NewOrderService(
		repos.JournalRepo,
		repos.OrderRepo,
		repos.ProductRepo,
		repos.JournalRepo,
		inventorySvc,
		container.Account,
		container.FXRate,
		cfg.PrimaryCurrencyCode,
	)
	container.Rates = NewRatesService(repos.RatesRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo, container.FXRate)

	return container
}
