package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo   AccountRepositoryFacade
	CurrencyRepo  CurrencyRepositoryFacade
	FXRateRepo    FXRateRepositoryWithTx
	JournalRepo   JournalRepositoryWithTx
	InventoryRepo InventoryRepositoryWithTx
	PurchaseRepo  PurchaseRepositoryWithTx
	ProductRepo   ProductRepositoryFacade
	OrderRepo     OrderRepositoryWithTx
	RatesRepo     RatesRepositoryWithTx
	ReportingRepo ReportingReader
}
