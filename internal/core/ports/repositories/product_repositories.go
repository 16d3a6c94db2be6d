package repositories

import (
	"context"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
)

// ProductReader defines read operations for product data.
type ProductReader interface {
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, onlyActive bool) ([]domain.Product, error)

	// FindActivePrice retrieves the price row effective at the given instant
	// (end_date IS NULL or covers the instant).
	FindActivePrice(ctx context.Context, productID string, at time.Time) (*domain.ProductPrice, error)
}

// ProductWriter defines write operations for product data.
type ProductWriter interface {
	SaveProduct(ctx context.Context, product domain.Product) error
	SavePrice(ctx context.Context, price domain.ProductPrice) error
}

// ProductRepositoryFacade combines all product repository interfaces.
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}
