package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	"github.com/costbooks/inventory_costing_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxOrderRepository implements the order repository interfaces using pgxpool.
type PgxOrderRepository struct {
	BaseRepository
}

// newPgxOrderRepository creates a new PgxOrderRepository.
func newPgxOrderRepository(db *pgxpool.Pool) *PgxOrderRepository {
	return &PgxOrderRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.OrderRepositoryWithTx = (*PgxOrderRepository)(nil)

const orderColumns = `order_id, reference, customer_id, currency_code, total_amount, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.OrderID, &o.Reference, &o.CustomerID, &o.CurrencyCode, &o.TotalAmount, &o.Status,
		&o.CreatedAt, &o.CreatedBy, &o.LastUpdatedAt, &o.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FindOrderByID retrieves an order by its identifier.
func (r *PgxOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, orderID)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %s", apperrors.ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return order, nil
}

// FindItemsByOrderID retrieves all items belonging to an order.
func (r *PgxOrderRepository) FindItemsByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT item_id, order_id, product_id, quantity, price, currency_code
		FROM order_items
		WHERE order_id = $1
		ORDER BY item_id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to find order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var i domain.OrderItem
		if err := rows.Scan(&i.ItemID, &i.OrderID, &i.ProductID, &i.Quantity, &i.Price, &i.CurrencyCode); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}

// ListOrders retrieves orders newest first using keyset pagination on
// created_at. Returns an empty next token on the final page.
func (r *PgxOrderRepository) ListOrders(ctx context.Context, limit int, nextToken string) ([]domain.Order, string, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []interface{}{}

	if nextToken != "" {
		_, tokenCreatedAt, err := pagination.DecodeToken(nextToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` WHERE created_at < $1`
		args = append(args, tokenCreatedAt)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating orders: %w", err)
	}

	var next string
	if len(orders) > limit {
		orders = orders[:limit]
		last := orders[len(orders)-1]
		next = pagination.EncodeToken(last.CreatedAt, last.CreatedAt)
	}
	return orders, next, nil
}

// InsertOrderInTx inserts an order header within the given transaction.
func (r *PgxOrderRepository) InsertOrderInTx(ctx context.Context, tx pgx.Tx, order domain.Order) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO orders (
			order_id, reference, customer_id, currency_code, total_amount, status,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.OrderID, order.Reference, order.CustomerID, order.CurrencyCode, order.TotalAmount, order.Status,
		order.CreatedAt, order.CreatedBy, order.LastUpdatedAt, order.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "order "+order.OrderID)
	}
	return nil
}

// InsertOrderItemsInTx inserts all order items within the given transaction.
func (r *PgxOrderRepository) InsertOrderItemsInTx(ctx context.Context, tx pgx.Tx, items []domain.OrderItem) error {
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
			INSERT INTO order_items (item_id, order_id, product_id, quantity, price, currency_code)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ItemID, item.OrderID, item.ProductID, item.Quantity, item.Price, item.CurrencyCode,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range items {
		if _, err := results.Exec(); err != nil {
			return mapWriteError(err, "order item")
		}
	}
	return nil
}

// UpdateOrderStatusInTx transitions an order's status.
func (r *PgxOrderRepository) UpdateOrderStatusInTx(ctx context.Context, tx pgx.Tx, orderID string, status domain.OrderStatus, actingUserID string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE orders
		SET status = $1, last_updated_at = NOW(), last_updated_by = $2
		WHERE order_id = $3`, status, actingUserID, orderID)
	if err != nil {
		return mapWriteError(err, "order "+orderID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s", apperrors.ErrNotFound, orderID)
	}
	return nil
}
