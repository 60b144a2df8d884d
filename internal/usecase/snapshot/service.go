package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/ratetable"
)

// BalanceEntry is one account's submitted amount for a month. The balance
// currency is resolved from the account registry at pin time, not supplied
// by the caller.
type BalanceEntry struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
}

// SnapshotService handles the monthly snapshot lifecycle
type SnapshotService struct {
	SnapshotRepo domain.SnapshotRepository
	AccountRepo  domain.AccountRepository
	CurrencyRepo domain.CurrencyRepository
	Builder      *ratetable.Builder
	Logger       *slog.Logger
}

// NewSnapshotService creates a new SnapshotService instance
func NewSnapshotService(
	snapshotRepo domain.SnapshotRepository,
	accountRepo domain.AccountRepository,
	currencyRepo domain.CurrencyRepository,
	builder *ratetable.Builder,
	logger *slog.Logger,
) *SnapshotService {
	return &SnapshotService{
		SnapshotRepo: snapshotRepo,
		AccountRepo:  accountRepo,
		CurrencyRepo: currencyRepo,
		Builder:      builder,
		Logger:       logger,
	}
}

// CreateMonth records a month's balances and pins the exchange rates
// effective on the 1st of that month
// Logic:
//  1. Validate the entries against the account registry
//  2. Refuse to touch an existing month unless overwrite is set
//  3. Fetch rates across all enabled currencies for the month start; this
//     is the pinning moment, and a total rate-source outage aborts the save
//     (a snapshot is never pinned to an empty map)
//  4. Store the snapshot; overwriting replaces the old month atomically
func (s *SnapshotService) CreateMonth(ctx context.Context, month domain.Month, entries []BalanceEntry, overwrite bool) (*domain.Snapshot, error) {
	if month.IsZero() {
		return nil, errors.New("snapshot month is required")
	}
	if len(entries) == 0 {
		return nil, errors.New("snapshot must contain at least one balance")
	}

	allZero := true
	for _, entry := range entries {
		if !entry.Amount.IsZero() {
			allZero = false
			break
		}
	}
	if allZero {
		return nil, errors.New("at least one balance must be non-zero")
	}

	exists, err := s.SnapshotRepo.Exists(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to check snapshot existence: %w", err)
	}
	if exists && !overwrite {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotExists, month)
	}

	// Resolve each entry's currency from its account
	balances := make([]domain.Balance, 0, len(entries))
	seen := make(map[uuid.UUID]bool, len(entries))
	for _, entry := range entries {
		if seen[entry.AccountID] {
			return nil, fmt.Errorf("duplicate balance for account %s", entry.AccountID)
		}
		seen[entry.AccountID] = true

		account, err := s.AccountRepo.GetByID(ctx, entry.AccountID)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", entry.AccountID, err)
		}

		balances = append(balances, domain.Balance{
			AccountID: account.ID,
			Currency:  account.Currency,
			Amount:    entry.Amount,
		})
	}

	codes, err := s.enabledCodes(ctx)
	if err != nil {
		return nil, err
	}

	// Pinning moment: rates effective the 1st of the month
	rates, err := s.Builder.Build(ctx, codes, month.Date())
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{
		ID:        uuid.New(),
		Month:     month,
		Balances:  balances,
		Rates:     rates,
		CreatedAt: time.Now(),
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	if exists {
		err = s.SnapshotRepo.Replace(ctx, snap)
	} else {
		err = s.SnapshotRepo.Create(ctx, snap)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	if s.Logger != nil {
		s.Logger.Info("snapshot saved",
			slog.String("month", month.String()),
			slog.Int("balances", len(snap.Balances)),
			slog.Int("rates", len(snap.Rates.Rates)),
			slog.Bool("overwrite", exists))
	}

	return snap, nil
}

// Get retrieves the snapshot for a month
func (s *SnapshotService) Get(ctx context.Context, month domain.Month) (*domain.Snapshot, error) {
	return s.SnapshotRepo.GetByMonth(ctx, month)
}

// List retrieves all snapshots ordered by month ascending
func (s *SnapshotService) List(ctx context.Context) ([]*domain.Snapshot, error) {
	return s.SnapshotRepo.List(ctx)
}

// ListYear retrieves one calendar year's snapshots ordered by month ascending
func (s *SnapshotService) ListYear(ctx context.Context, year int) ([]*domain.Snapshot, error) {
	return s.SnapshotRepo.ListYear(ctx, year)
}

// Months retrieves every recorded month, newest first
func (s *SnapshotService) Months(ctx context.Context) ([]domain.Month, error) {
	return s.SnapshotRepo.Months(ctx)
}

// Delete removes a month's snapshot entirely
func (s *SnapshotService) Delete(ctx context.Context, month domain.Month) error {
	if err := s.SnapshotRepo.Delete(ctx, month); err != nil {
		return err
	}

	if s.Logger != nil {
		s.Logger.Info("snapshot deleted", slog.String("month", month.String()))
	}
	return nil
}

func (s *SnapshotService) enabledCodes(ctx context.Context) ([]domain.CurrencyCode, error) {
	currencies, err := s.CurrencyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}

	codes := make([]domain.CurrencyCode, 0, len(currencies))
	for _, c := range currencies {
		codes = append(codes, c.Code)
	}
	return codes, nil
}
