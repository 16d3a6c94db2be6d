package repositories

import (
	"context"

	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// OrderReader defines read operations for orders.
type OrderReader interface {
	FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error)
	FindItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	ListOrders(ctx context.Context, limit int, nextToken string) ([]domain.Order, string, error)
}

// OrderWriter defines tx-scoped write operations for orders.
type OrderWriter interface {
	InsertOrderInTx(ctx context.Context, tx pgx.Tx, order domain.Order) error
	InsertOrderItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.OrderItem) error
	UpdateOrderStatusInTx(ctx context.Context, tx pgx.Tx, orderID string, status domain.OrderStatus, actingUserID string) error
}

// OrderRepositoryFacade combines all order repository interfaces.
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
}

// OrderRepositoryWithTx extends OrderRepositoryFacade with transaction capabilities.
type OrderRepositoryWithTx interface {
	OrderRepositoryFacade
	TransactionManager
}
