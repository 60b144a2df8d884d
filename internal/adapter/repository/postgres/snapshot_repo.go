package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// GetByMonth retrieves the snapshot for a month
func (r *snapshotRepository) GetByMonth(ctx context.Context, month domain.Month) (*domain.Snapshot, error) {
	query := `
		SELECT id, snapshot_month, exchange_rates, created_at
		FROM snapshots
		WHERE snapshot_month = $1
	`

	var snapshot domain.Snapshot
	var monthDate time.Time
	var ratesJSON []byte

	err := r.db.QueryRowContext(ctx, query, month.Date()).Scan(
		&snapshot.ID,
		&monthDate,
		&ratesJSON,
		&snapshot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot for %s: %w", month, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get snapshot by month: %w", err)
	}

	if err := r.hydrate(ctx, &snapshot, monthDate, ratesJSON); err != nil {
		return nil, err
	}

	return &snapshot, nil
}

// List retrieves all snapshots ordered by month ascending
func (r *snapshotRepository) List(ctx context.Context) ([]*domain.Snapshot, error) {
	query := `
		SELECT id, snapshot_month, exchange_rates, created_at
		FROM snapshots
		ORDER BY snapshot_month
	`

	return r.queryMany(ctx, query)
}

// ListYear retrieves one calendar year's snapshots ordered by month ascending
func (r *snapshotRepository) ListYear(ctx context.Context, year int) ([]*domain.Snapshot, error) {
	query := `
		SELECT id, snapshot_month, exchange_rates, created_at
		FROM snapshots
		WHERE EXTRACT(YEAR FROM snapshot_month) = $1
		ORDER BY snapshot_month
	`

	return r.queryMany(ctx, query, year)
}

// Months retrieves all distinct snapshot months, newest first
func (r *snapshotRepository) Months(ctx context.Context) ([]domain.Month, error) {
	query := `
		SELECT snapshot_month
		FROM snapshots
		ORDER BY snapshot_month DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot months: %w", err)
	}
	defer rows.Close()

	var months []domain.Month
	for rows.Next() {
		var monthDate time.Time
		if err := rows.Scan(&monthDate); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot month: %w", err)
		}
		months = append(months, domain.MonthFromTime(monthDate))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshot months: %w", err)
	}

	return months, nil
}

// Create stores a new snapshot
func (r *snapshotRepository) Create(ctx context.Context, snapshot *domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.insert(ctx, tx, snapshot); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

// Replace atomically deletes the month's existing snapshot and stores the
// new one in a single transaction
func (r *snapshotRepository) Replace(ctx context.Context, snapshot *domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleteQuery := `
		DELETE FROM snapshots
		WHERE snapshot_month = $1
	`
	if _, err := tx.ExecContext(ctx, deleteQuery, snapshot.Month.Date()); err != nil {
		return fmt.Errorf("failed to delete existing snapshot: %w", err)
	}

	if err := r.insert(ctx, tx, snapshot); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot replacement: %w", err)
	}

	return nil
}

// Delete removes the snapshot for a month
func (r *snapshotRepository) Delete(ctx context.Context, month domain.Month) error {
	query := `
		DELETE FROM snapshots
		WHERE snapshot_month = $1
	`

	result, err := r.db.ExecContext(ctx, query, month.Date())
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("snapshot for %s: %w", month, domain.ErrNotFound)
	}

	return nil
}

// Exists reports whether a snapshot exists for the month
func (r *snapshotRepository) Exists(ctx context.Context, month domain.Month) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM snapshots WHERE snapshot_month = $1
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, month.Date()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check snapshot existence: %w", err)
	}

	return exists, nil
}

// insert writes the snapshot header and its balances inside tx
func (r *snapshotRepository) insert(ctx context.Context, tx *sql.Tx, snapshot *domain.Snapshot) error {
	ratesJSON, err := json.Marshal(snapshot.Rates)
	if err != nil {
		return fmt.Errorf("failed to encode exchange rates: %w", err)
	}

	insertSnapshotQuery := `
		INSERT INTO snapshots (id, snapshot_month, exchange_rates, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = tx.ExecContext(ctx, insertSnapshotQuery,
		snapshot.ID,
		snapshot.Month.Date(),
		string(ratesJSON),
		snapshot.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrSnapshotExists, snapshot.Month)
		}
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	insertBalanceQuery := `
		INSERT INTO snapshot_balances (id, snapshot_id, account_id, currency, balance)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, balance := range snapshot.Balances {
		_, err = tx.ExecContext(ctx, insertBalanceQuery,
			uuid.New(),
			snapshot.ID,
			balance.AccountID,
			string(balance.Currency),
			balance.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot balance: %w", err)
		}
	}

	return nil
}

// queryMany runs a snapshot header query and hydrates each row
func (r *snapshotRepository) queryMany(ctx context.Context, query string, args ...any) ([]*domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	type header struct {
		snapshot  *domain.Snapshot
		monthDate time.Time
		ratesJSON []byte
	}

	var headers []header
	for rows.Next() {
		var h header
		h.snapshot = &domain.Snapshot{}
		if err := rows.Scan(
			&h.snapshot.ID,
			&h.monthDate,
			&h.ratesJSON,
			&h.snapshot.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	snapshots := make([]*domain.Snapshot, 0, len(headers))
	for _, h := range headers {
		if err := r.hydrate(ctx, h.snapshot, h.monthDate, h.ratesJSON); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, h.snapshot)
	}

	return snapshots, nil
}

// hydrate fills the month, pinned rates and balances of a scanned header
// The as-of date is not stored in the JSON; the snapshot month carries it
func (r *snapshotRepository) hydrate(ctx context.Context, snapshot *domain.Snapshot, monthDate time.Time, ratesJSON []byte) error {
	snapshot.Month = domain.MonthFromTime(monthDate)

	if err := json.Unmarshal(ratesJSON, &snapshot.Rates); err != nil {
		return fmt.Errorf("failed to parse exchange rates for %s: %w", snapshot.Month, err)
	}
	snapshot.Rates.AsOf = snapshot.Month.Date()

	balances, err := r.loadBalances(ctx, snapshot.ID)
	if err != nil {
		return fmt.Errorf("failed to load balances for %s: %w", snapshot.Month, err)
	}
	snapshot.Balances = balances

	return nil
}

// loadBalances reads one snapshot's balances ordered by owner name, then
// account name
func (r *snapshotRepository) loadBalances(ctx context.Context, snapshotID uuid.UUID) ([]domain.Balance, error) {
	query := `
		SELECT sb.account_id, sb.currency, sb.balance
		FROM snapshot_balances sb
		JOIN accounts a ON a.id = sb.account_id
		JOIN owners o ON o.id = a.owner_id
		WHERE sb.snapshot_id = $1
		ORDER BY o.name, a.name
	`

	rows, err := r.db.QueryContext(ctx, query, snapshotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []domain.Balance
	for rows.Next() {
		var balance domain.Balance
		var amountStr string
		if err := rows.Scan(&balance.AccountID, &balance.Currency, &amountStr); err != nil {
			return nil, err
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse balance: %w", err)
		}
		balance.Amount = amount

		balances = append(balances, balance)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return balances, nil
}
