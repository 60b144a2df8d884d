package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateSource is the external exchange-rate provider contract
// A zero asOf means "latest available rates"; a dated request returns the
// rates effective on that day (snapshot pinning passes the 1st of the month)
type RateSource interface {
	// FetchRates retrieves base → target multipliers for each target currency
	FetchRates(ctx context.Context, base CurrencyCode, targets []CurrencyCode, asOf time.Time) (map[CurrencyCode]decimal.Decimal, error)
}

// CurrencyRepository defines the interface for currency registry persistence
type CurrencyRepository interface {
	// List retrieves all currencies ordered by display order
	List(ctx context.Context) ([]*Currency, error)

	// GetByCode retrieves a currency by its code
	GetByCode(ctx context.Context, code CurrencyCode) (*Currency, error)

	// Create creates a new currency
	Create(ctx context.Context, currency *Currency) error

	// Delete removes a currency by its code
	Delete(ctx context.Context, code CurrencyCode) error

	// MaxDisplayOrder returns the highest display order in use, 0 when empty
	MaxDisplayOrder(ctx context.Context) (int, error)
}

// OwnerRepository defines the interface for owner persistence
type OwnerRepository interface {
	// List retrieves all owners ordered by name
	List(ctx context.Context) ([]*Owner, error)

	// GetByID retrieves an owner by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Owner, error)

	// GetByName retrieves an owner by its unique name
	GetByName(ctx context.Context, name string) (*Owner, error)

	// Create creates a new owner
	Create(ctx context.Context, owner *Owner) error
}

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// List retrieves all accounts ordered by owner name, then account name
	List(ctx context.Context) ([]*Account, error)

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// Create creates a new account
	Create(ctx context.Context, account *Account) error

	// Update updates an existing account
	Update(ctx context.Context, account *Account) error

	// Delete removes an account; its snapshot balances cascade
	Delete(ctx context.Context, id uuid.UUID) error
}

// SnapshotRepository defines the interface for snapshot persistence
// Snapshots are stored whole (balances plus pinned rates) and replaced
// whole; there is no partial update
type SnapshotRepository interface {
	// GetByMonth retrieves the snapshot for a month
	GetByMonth(ctx context.Context, month Month) (*Snapshot, error)

	// List retrieves all snapshots ordered by month ascending
	List(ctx context.Context) ([]*Snapshot, error)

	// ListYear retrieves one calendar year's snapshots ordered by month ascending
	ListYear(ctx context.Context, year int) ([]*Snapshot, error)

	// Months retrieves all distinct snapshot months, newest first
	Months(ctx context.Context) ([]Month, error)

	// Create stores a new snapshot
	Create(ctx context.Context, snapshot *Snapshot) error

	// Replace atomically deletes the month's existing snapshot and stores the
	// new one in a single transaction
	Replace(ctx context.Context, snapshot *Snapshot) error

	// Delete removes the snapshot for a month
	Delete(ctx context.Context, month Month) error

	// Exists reports whether a snapshot exists for the month
	Exists(ctx context.Context, month Month) (bool, error)
}
