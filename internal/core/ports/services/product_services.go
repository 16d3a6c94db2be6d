package services

import (
	"context"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/costbooks/inventory_costing_app/internal/dto"
)

// ProductReaderSvc defines read operations for product data
type ProductReaderSvc interface {
	GetProductByID(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, onlyActive bool) ([]domain.Product, error)
}

// ProductWriterSvc defines write operations for product data
type ProductWriterSvc interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, creatorUserID string) (*domain.Product, error)

	// SetProductPrice supersedes the product's active price row.
	SetProductPrice(ctx context.Context, productID string, req dto.SetProductPriceRequest, creatorUserID string) (*domain.ProductPrice, error)
}

// ProductSvcFacade combines all product-related service interfaces
type ProductSvcFacade interface {
	ProductReaderSvc
	ProductWriterSvc
}

// InventoryReaderSvc defines read operations over batches and stock totals
type InventoryReaderSvc interface {
	// GetProductInventory retrieves the cached total plus FIFO-ordered layers.
	GetProductInventory(ctx context.Context, productID string) (*domain.ProductInventory, []domain.CostLayer, error)
}
