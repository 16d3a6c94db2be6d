package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/costbooks/inventory_costing_app/internal/apperrors"
	"github.com/costbooks/inventory_costing_app/internal/core/domain"
	portsrepo "github.com/costbooks/inventory_costing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCurrencyRepository implements the currency repository interfaces using pgxpool.
type PgxCurrencyRepository struct {
	BaseRepository
}

// newPgxCurrencyRepository creates a new PgxCurrencyRepository.
func newPgxCurrencyRepository(db *pgxpool.Pool) *PgxCurrencyRepository {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.CurrencyRepositoryFacade = (*PgxCurrencyRepository)(nil)

// SaveCurrency persists a new currency.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO currencies (
			currency_code, name, symbol, decimal_places, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		currency.CurrencyCode, currency.Name, currency.Symbol, currency.DecimalPlaces,
		currency.IsActive,
		currency.CreatedAt, currency.CreatedBy, currency.LastUpdatedAt, currency.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "currency "+currency.CurrencyCode)
	}
	return nil
}

// FindCurrencyByCode retrieves a specific currency by its code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	var c domain.Currency
	err := r.Pool.QueryRow(ctx, `
		SELECT currency_code, name, symbol, decimal_places, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		FROM currencies WHERE currency_code = $1`, currencyCode,
	).Scan(
		&c.CurrencyCode, &c.Name, &c.Symbol, &c.DecimalPlaces, &c.IsActive,
		&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, currencyCode)
		}
		return nil, fmt.Errorf("failed to find currency: %w", err)
	}
	return &c, nil
}

// ListCurrencies retrieves all currencies, optionally only active ones.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context, onlyActive bool) ([]domain.Currency, error) {
	query := `
		SELECT currency_code, name, symbol, decimal_places, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		FROM currencies`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY currency_code`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []domain.Currency
	for rows.Next() {
		var c domain.Currency
		if err := rows.Scan(
			&c.CurrencyCode, &c.Name, &c.Symbol, &c.DecimalPlaces, &c.IsActive,
			&c.CreatedAt, &c.CreatedBy, &c.LastUpdatedAt, &c.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currencies: %w", err)
	}
	return currencies, nil
}
