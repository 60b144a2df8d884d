package networth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/converter"
)

// Point is one month of net worth expressed in the reporting currency
type Point struct {
	Month domain.Month
	Total decimal.Decimal
}

// AccountValue is a single snapshot balance converted into the reporting currency
type AccountValue struct {
	AccountID uuid.UUID
	Currency  domain.CurrencyCode
	Native    decimal.Decimal
	Converted decimal.Decimal
	Path      converter.Path
}

// NetWorthService aggregates snapshot balances into reporting-currency totals
type NetWorthService struct {
	SnapshotRepo domain.SnapshotRepository
	Engine       converter.Engine
	Logger       *slog.Logger
}

// NewNetWorthService creates a new NetWorthService instance
func NewNetWorthService(snapshotRepo domain.SnapshotRepository, engine converter.Engine, logger *slog.Logger) *NetWorthService {
	return &NetWorthService{
		SnapshotRepo: snapshotRepo,
		Engine:       engine,
		Logger:       logger,
	}
}

// Total converts every balance into the target currency and sums the results
// Logic: total = sum of Convert(balance.Amount, balance.Currency, target)
// over all balances, using exactly the rate map handed in. Conversions that
// found no path pass the native amount through; those results are returned
// so callers can surface the degraded precision.
func (s *NetWorthService) Total(balances []domain.Balance, target domain.CurrencyCode, rates domain.RateMap) (decimal.Decimal, []converter.Result) {
	total := decimal.Zero
	var misses []converter.Result

	for _, b := range balances {
		res := s.Engine.Convert(b.Amount, b.Currency, target, rates)
		total = total.Add(res.Amount)
		if res.Missed() {
			misses = append(misses, res)
		}
	}

	return total, misses
}

// TotalForSnapshot totals one snapshot using the rates pinned inside it
// A malformed pinned map is a stored-data defect and fails loudly rather
// than producing a silently wrong figure.
func (s *NetWorthService) TotalForSnapshot(snap *domain.Snapshot, target domain.CurrencyCode) (decimal.Decimal, []converter.Result, error) {
	if err := snap.Rates.Validate(); err != nil {
		return decimal.Zero, nil, fmt.Errorf("snapshot %s: %w", snap.Month, err)
	}

	total, misses := s.Total(snap.Balances, target, snap.Rates)
	return total, misses, nil
}

// History recomputes the converted total for every stored month
// Logic: each month is valued with its own pinned rate map, never with
// current rates, so a past point renders identically no matter how live
// rates have moved since. Months without a snapshot are simply absent.
func (s *NetWorthService) History(ctx context.Context, target domain.CurrencyCode) ([]Point, []converter.Result, error) {
	snapshots, err := s.SnapshotRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	points := make([]Point, 0, len(snapshots))
	var misses []converter.Result

	for _, snap := range snapshots {
		total, snapMisses, err := s.TotalForSnapshot(snap, target)
		if err != nil {
			return nil, nil, err
		}

		if len(snapMisses) > 0 && s.Logger != nil {
			s.Logger.Warn("unconverted balances in month total",
				slog.String("month", snap.Month.String()),
				slog.String("target", string(target)),
				slog.Int("misses", len(snapMisses)))
		}

		points = append(points, Point{Month: snap.Month, Total: total})
		misses = append(misses, snapMisses...)
	}

	return points, misses, nil
}

// Breakdown converts each balance of a snapshot individually
// Returns one entry per balance in input order, plus the miss results
func (s *NetWorthService) Breakdown(snap *domain.Snapshot, target domain.CurrencyCode) ([]AccountValue, []converter.Result) {
	values := make([]AccountValue, 0, len(snap.Balances))
	var misses []converter.Result

	for _, b := range snap.Balances {
		res := s.Engine.Convert(b.Amount, b.Currency, target, snap.Rates)
		values = append(values, AccountValue{
			AccountID: b.AccountID,
			Currency:  b.Currency,
			Native:    b.Amount,
			Converted: res.Amount,
			Path:      res.Path,
		})
		if res.Missed() {
			misses = append(misses, res)
		}
	}

	return values, misses
}
