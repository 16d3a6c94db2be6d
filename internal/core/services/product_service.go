package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	portssvc "github.com/costbooks/inventory_costing_app/internal/core/ports/services"
	"github.com/costbooks/inventory_costing_app/internal/dto"
	"github.com/google/uuid"
)

// productService provides business logic for products and their prices.
type productService struct {
	productRepo portsrepo.ProductRepositoryFacade
}

// NewProductService creates a new product service.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade) portssvc.ProductSvcFacade {
	return &productService{productRepo: productRepo}
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

// CreateProduct persists a new product.
func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, creatorUserID string) (*domain.Product, error) {
	now := time.Now()
	product := domain.Product{
		ProductID:   uuid.NewString(),
		SKU:         req.SKU,
		Name:        req.Name,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(creatorUserID, now),
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// GetProductByID retrieves a specific product.
func (s *productService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	return product, nil
}

// ListProducts retrieves all products, optionally only active ones.
func (s *productService) ListProducts(ctx context.Context, onlyActive bool) ([]domain.Product, error) {
	products, err := s.productRepo.ListProducts(ctx, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// SetProductPrice records a new selling price row for the product. The
// repository end-dates the previous active row as part of the save.
func (s *productService) SetProductPrice(ctx context.Context, productID string, req dto.SetProductPriceRequest, creatorUserID string) (*domain.ProductPrice, error) {
	if _, err := s.productRepo.FindProductByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("failed to validate product %s: %w", productID, err)
	}

	price := domain.ProductPrice{
		PriceID:      uuid.NewString(),
		ProductID:    productID,
		Price:        req.Price,
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		StartDate:    req.StartDate,
		AuditFields:  domain.NewAuditFields(creatorUserID, time.Now()),
	}

	if err := s.productRepo.SavePrice(ctx, price); err != nil {
		return nil, fmt.Errorf("failed to save price for product %s: %w", productID, err)
	}
	return &price, nil
}
