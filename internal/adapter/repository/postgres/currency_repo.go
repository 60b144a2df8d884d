package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// currencyRepository implements domain.CurrencyRepository
type currencyRepository struct {
	db *DB
}

// NewCurrencyRepository creates a new currency repository
func NewCurrencyRepository(db *DB) domain.CurrencyRepository {
	return &currencyRepository{db: db}
}

// List retrieves all currencies ordered by display order
func (r *currencyRepository) List(ctx context.Context) ([]*domain.Currency, error) {
	query := `
		SELECT id, code, flag_emoji, color, display_order, created_at
		FROM currencies
		ORDER BY display_order
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []*domain.Currency
	for rows.Next() {
		var currency domain.Currency
		if err := rows.Scan(
			&currency.ID,
			&currency.Code,
			&currency.FlagEmoji,
			&currency.Color,
			&currency.DisplayOrder,
			&currency.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, &currency)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate currencies: %w", err)
	}

	return currencies, nil
}

// GetByCode retrieves a currency by its code
func (r *currencyRepository) GetByCode(ctx context.Context, code domain.CurrencyCode) (*domain.Currency, error) {
	query := `
		SELECT id, code, flag_emoji, color, display_order, created_at
		FROM currencies
		WHERE code = $1
	`

	var currency domain.Currency
	err := r.db.QueryRowContext(ctx, query, string(code)).Scan(
		&currency.ID,
		&currency.Code,
		&currency.FlagEmoji,
		&currency.Color,
		&currency.DisplayOrder,
		&currency.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("currency %s: %w", code, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get currency by code: %w", err)
	}

	return &currency, nil
}

// Create creates a new currency
func (r *currencyRepository) Create(ctx context.Context, currency *domain.Currency) error {
	query := `
		INSERT INTO currencies (id, code, flag_emoji, color, display_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		currency.ID,
		string(currency.Code),
		currency.FlagEmoji,
		currency.Color,
		currency.DisplayOrder,
		currency.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("currency %s: %w", currency.Code, domain.ErrDuplicate)
		}
		return fmt.Errorf("failed to create currency: %w", err)
	}

	return nil
}

// Delete removes a currency by its code
func (r *currencyRepository) Delete(ctx context.Context, code domain.CurrencyCode) error {
	query := `
		DELETE FROM currencies
		WHERE code = $1
	`

	result, err := r.db.ExecContext(ctx, query, string(code))
	if err != nil {
		return fmt.Errorf("failed to delete currency: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("currency %s: %w", code, domain.ErrNotFound)
	}

	return nil
}

// MaxDisplayOrder returns the highest display order in use, 0 when empty
func (r *currencyRepository) MaxDisplayOrder(ctx context.Context) (int, error) {
	query := `
		SELECT COALESCE(MAX(display_order), 0)
		FROM currencies
	`

	var maxOrder int
	if err := r.db.QueryRowContext(ctx, query).Scan(&maxOrder); err != nil {
		return 0, fmt.Errorf("failed to get max display order: %w", err)
	}

	return maxOrder, nil
}
