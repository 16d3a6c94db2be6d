package services

import (
	"context"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/costbooks/inventory_costing_app/internal/dto"
)

// OrderReaderSvc defines read operations for customer orders
type OrderReaderSvc interface {
	GetOrderByID(ctx context.Context, orderID string) (*domain.Order, []domain.OrderItem, error)
	ListOrders(ctx context.Context, limit int, nextToken string) ([]domain.Order, string, error)
}

// OrderWriterSvc defines write operations for customer orders
type OrderWriterSvc interface {
	// CreateOrder prices each item from its active price row (converting into
	// the order currency when they differ), persists the order, runs FIFO
	// costing for every item, and posts the income entry alongside the COGS
	// entries in one transaction.
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest, creatorUserID string) (*domain.Order, []domain.OrderItem, error)
}

// OrderSvcFacade combines all order-related service interfaces
type OrderSvcFacade interface {
	OrderReaderSvc
	OrderWriterSvc
}
