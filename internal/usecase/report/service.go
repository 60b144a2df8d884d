package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/converter"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/growth"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/networth"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/yoy"
)

// AccountLine is one account's row in the dashboard breakdown
type AccountLine struct {
	Owner       string
	Account     string
	AccountType domain.AccountType
	Currency    domain.CurrencyCode
	Native      decimal.Decimal
	Converted   decimal.Decimal
}

// Dashboard is the assembled read model for the landing view
type Dashboard struct {
	Month        domain.Month
	Target       domain.CurrencyCode
	Total        decimal.Decimal
	Previous     *networth.Point
	Delta        decimal.Decimal
	DeltaPercent decimal.Decimal
	Codes        []domain.CurrencyCode                   // enabled currencies in display order
	Totals       map[domain.CurrencyCode]decimal.Decimal // latest total expressed in each enabled currency
	Accounts     []AccountLine
	Warnings     []string
}

// ReportService assembles read models for the dashboard, reports, and exports
type ReportService struct {
	SnapshotRepo domain.SnapshotRepository
	AccountRepo  domain.AccountRepository
	OwnerRepo    domain.OwnerRepository
	CurrencyRepo domain.CurrencyRepository
	NetWorth     *networth.NetWorthService
	Logger       *slog.Logger
}

// NewReportService creates a new ReportService instance
func NewReportService(
	snapshotRepo domain.SnapshotRepository,
	accountRepo domain.AccountRepository,
	ownerRepo domain.OwnerRepository,
	currencyRepo domain.CurrencyRepository,
	netWorth *networth.NetWorthService,
	logger *slog.Logger,
) *ReportService {
	return &ReportService{
		SnapshotRepo: snapshotRepo,
		AccountRepo:  accountRepo,
		OwnerRepo:    ownerRepo,
		CurrencyRepo: currencyRepo,
		NetWorth:     netWorth,
		Logger:       logger,
	}
}

// Dashboard assembles the latest month's view
// Logic: latest snapshot total in the target currency, the same total
// expressed in every enabled currency, delta against the previous recorded
// month (each month valued with its own pinned rates), and a per-account
// breakdown with owner and account names resolved
func (s *ReportService) Dashboard(ctx context.Context, target domain.CurrencyCode) (*Dashboard, error) {
	months, err := s.SnapshotRepo.Months(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot months: %w", err)
	}
	if len(months) == 0 {
		return nil, fmt.Errorf("no snapshots recorded: %w", domain.ErrNotFound)
	}

	snap, err := s.SnapshotRepo.GetByMonth(ctx, months[0])
	if err != nil {
		return nil, err
	}

	total, misses, err := s.NetWorth.TotalForSnapshot(snap, target)
	if err != nil {
		return nil, err
	}

	currencies, err := s.CurrencyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}

	codes := make([]domain.CurrencyCode, 0, len(currencies))
	totals := make(map[domain.CurrencyCode]decimal.Decimal, len(currencies))
	for _, currency := range currencies {
		codes = append(codes, currency.Code)
		t, _, err := s.NetWorth.TotalForSnapshot(snap, currency.Code)
		if err != nil {
			return nil, err
		}
		totals[currency.Code] = t
	}

	lines, err := s.accountLines(ctx, snap, target)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Month:    snap.Month,
		Target:   target,
		Total:    total,
		Codes:    codes,
		Totals:   totals,
		Accounts: lines,
		Warnings: warningsFromMisses(misses),
	}

	if len(months) > 1 {
		prevSnap, err := s.SnapshotRepo.GetByMonth(ctx, months[1])
		if err != nil {
			return nil, err
		}
		prevTotal, _, err := s.NetWorth.TotalForSnapshot(prevSnap, target)
		if err != nil {
			return nil, err
		}

		d.Previous = &networth.Point{Month: prevSnap.Month, Total: prevTotal}
		d.Delta = total.Sub(prevTotal)
		if !prevTotal.IsZero() {
			d.DeltaPercent = d.Delta.Div(prevTotal).Mul(decimal.NewFromInt(100))
		}
	}

	return d, nil
}

// NetWorthHistory is the month-by-month converted total series
func (s *ReportService) NetWorthHistory(ctx context.Context, target domain.CurrencyCode) ([]networth.Point, []string, error) {
	points, misses, err := s.NetWorth.History(ctx, target)
	if err != nil {
		return nil, nil, err
	}
	return points, warningsFromMisses(misses), nil
}

// Growth normalizes each currency's native holdings against a baseline month
// A zero baseline defaults to the earliest recorded month. Returns the
// normalized series and the enabled codes in display order.
func (s *ReportService) Growth(ctx context.Context, baseline domain.Month) ([]growth.PeriodIndex, []domain.CurrencyCode, error) {
	snapshots, err := s.SnapshotRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(snapshots) == 0 {
		return nil, nil, fmt.Errorf("no snapshots recorded: %w", domain.ErrNotFound)
	}

	series := make([]growth.PeriodHoldings, 0, len(snapshots))
	for _, snap := range snapshots {
		series = append(series, growth.PeriodHoldings{
			Month:  snap.Month,
			Totals: growth.NativeTotals(snap.Balances),
		})
	}

	currencies, err := s.CurrencyRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	codes := make([]domain.CurrencyCode, 0, len(currencies))
	for _, currency := range currencies {
		codes = append(codes, currency.Code)
	}

	if baseline.IsZero() {
		baseline = series[0].Month
	}

	normalized, err := growth.Normalize(series, baseline, codes)
	if err != nil {
		return nil, nil, err
	}
	return normalized, codes, nil
}

// YearOverYear reshapes the history series for overlaying years
func (s *ReportService) YearOverYear(ctx context.Context, target domain.CurrencyCode) (map[int][]yoy.MonthValue, []string, error) {
	points, warnings, err := s.NetWorthHistory(ctx, target)
	if err != nil {
		return nil, nil, err
	}
	return yoy.GroupByYear(points), warnings, nil
}

// ExportCSV streams the full history as one row per (month, account)
// Converted columns are in the target currency; the month total repeats on
// every row of its month so the file stays flat
func (s *ReportService) ExportCSV(ctx context.Context, w io.Writer, target domain.CurrencyCode) error {
	snapshots, err := s.SnapshotRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	accounts, owners, err := s.registryIndex(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := []string{"month", "owner", "account", "type", "currency", "native_balance", "converted_balance", "month_total"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, snap := range snapshots {
		total, _, err := s.NetWorth.TotalForSnapshot(snap, target)
		if err != nil {
			return err
		}

		values, _ := s.NetWorth.Breakdown(snap, target)
		for _, v := range values {
			ownerName, accountName, accountType := resolveNames(accounts, owners, v.AccountID)
			row := []string{
				snap.Month.Label(),
				ownerName,
				accountName,
				string(accountType),
				string(v.Currency),
				v.Native.StringFixed(2),
				v.Converted.StringFixed(2),
				total.StringFixed(2),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// accountLines joins a snapshot's converted balances with registry names
func (s *ReportService) accountLines(ctx context.Context, snap *domain.Snapshot, target domain.CurrencyCode) ([]AccountLine, error) {
	accounts, owners, err := s.registryIndex(ctx)
	if err != nil {
		return nil, err
	}

	values, _ := s.NetWorth.Breakdown(snap, target)
	lines := make([]AccountLine, 0, len(values))
	for _, v := range values {
		ownerName, accountName, accountType := resolveNames(accounts, owners, v.AccountID)
		lines = append(lines, AccountLine{
			Owner:       ownerName,
			Account:     accountName,
			AccountType: accountType,
			Currency:    v.Currency,
			Native:      v.Native,
			Converted:   v.Converted,
		})
	}
	return lines, nil
}

func (s *ReportService) registryIndex(ctx context.Context) (map[uuid.UUID]*domain.Account, map[uuid.UUID]string, error) {
	accountList, err := s.AccountRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	ownerList, err := s.OwnerRepo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list owners: %w", err)
	}

	accounts := make(map[uuid.UUID]*domain.Account, len(accountList))
	for _, a := range accountList {
		accounts[a.ID] = a
	}
	owners := make(map[uuid.UUID]string, len(ownerList))
	for _, o := range ownerList {
		owners[o.ID] = o.Name
	}
	return accounts, owners, nil
}

func resolveNames(accounts map[uuid.UUID]*domain.Account, owners map[uuid.UUID]string, accountID uuid.UUID) (ownerName, accountName string, accountType domain.AccountType) {
	account, ok := accounts[accountID]
	if !ok {
		return "", "(unknown)", ""
	}
	return owners[account.OwnerID], account.Name, account.AccountType
}

// warningsFromMisses renders conversion misses as user-facing warnings,
// deduplicated per currency pair
func warningsFromMisses(misses []converter.Result) []string {
	if len(misses) == 0 {
		return nil
	}

	seen := make(map[domain.CurrencyPair]bool, len(misses))
	pairs := make([]domain.CurrencyPair, 0, len(misses))
	for _, miss := range misses {
		pair := domain.CurrencyPair{From: miss.From, To: miss.To}
		if !seen[pair] {
			seen[pair] = true
			pairs = append(pairs, pair)
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key() < pairs[j].Key() })

	warnings := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		warnings = append(warnings, fmt.Sprintf("no conversion path from %s to %s; amounts counted at face value", pair.From, pair.To))
	}
	return warnings
}
