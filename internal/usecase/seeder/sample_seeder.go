package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
	"github.com/Rushit-Mehta/kuyan/internal/usecase/ratetable"
)

// sampleSeed fixes the random stream so repeated sandbox builds produce
// identical data
const sampleSeed = 1

// Approximate rates used when the live source is unreachable, expressed as
// units per Canadian dollar
var fallbackPerCAD = map[domain.CurrencyCode]float64{
	"CAD": 1.0,
	"USD": 0.75,
	"INR": 60.0,
}

// SampleSeeder populates an empty database with two years of realistic
// demo history: four accounts across two owners and three currencies,
// with monthly snapshots ending last month
type SampleSeeder struct {
	OwnerRepo    domain.OwnerRepository
	AccountRepo  domain.AccountRepository
	CurrencyRepo domain.CurrencyRepository
	SnapshotRepo domain.SnapshotRepository
	Builder      *ratetable.Builder
	Logger       *slog.Logger

	// Now is overridable in tests; nil means time.Now
	Now func() time.Time
}

// NewSampleSeeder creates a new SampleSeeder instance
func NewSampleSeeder(
	ownerRepo domain.OwnerRepository,
	accountRepo domain.AccountRepository,
	currencyRepo domain.CurrencyRepository,
	snapshotRepo domain.SnapshotRepository,
	builder *ratetable.Builder,
	logger *slog.Logger,
) *SampleSeeder {
	return &SampleSeeder{
		OwnerRepo:    ownerRepo,
		AccountRepo:  accountRepo,
		CurrencyRepo: currencyRepo,
		SnapshotRepo: snapshotRepo,
		Builder:      builder,
		Logger:       logger,
	}
}

// SeedSampleData generates the demo accounts and 24 monthly snapshots
// starting January 1st of the previous year
// Logic:
//  1. Skip entirely if any account or snapshot already exists, so a restart
//     never duplicates or disturbs real data
//  2. Create the four demo accounts under the default owners
//  3. Anchor per-currency mid rates on one live fetch; on a total outage
//     fall back to the built-in approximate rates
//  4. Walk 24 months applying per-account growth formulas with seeded
//     randomness, pinning each month to a rate table drifted slightly from
//     the previous month's
func (s *SampleSeeder) SeedSampleData(ctx context.Context) error {
	existing, err := s.AccountRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(existing) > 0 {
		s.Logger.Info("sample data skipped, accounts already exist",
			slog.Int("accounts", len(existing)),
		)
		return nil
	}

	months, err := s.SnapshotRepo.Months(ctx)
	if err != nil {
		return fmt.Errorf("failed to list snapshot months: %w", err)
	}
	if len(months) > 0 {
		s.Logger.Info("sample data skipped, snapshots already exist",
			slog.Int("months", len(months)),
		)
		return nil
	}

	me, err := s.OwnerRepo.GetByName(ctx, "Me")
	if err != nil {
		return fmt.Errorf("failed to find owner %q: %w", "Me", err)
	}
	wife, err := s.OwnerRepo.GetByName(ctx, "Wife")
	if err != nil {
		return fmt.Errorf("failed to find owner %q: %w", "Wife", err)
	}

	td, err := s.createAccount(ctx, me.ID, "TD Chequing", domain.AccountTypeBank, "CAD")
	if err != nil {
		return err
	}
	tfsa, err := s.createAccount(ctx, me.ID, "Wealthsimple TFSA", domain.AccountTypeInvestment, "CAD")
	if err != nil {
		return err
	}
	chase, err := s.createAccount(ctx, wife.ID, "Chase Savings", domain.AccountTypeBank, "USD")
	if err != nil {
		return err
	}
	sbi, err := s.createAccount(ctx, wife.ID, "SBI Account", domain.AccountTypeBank, "INR")
	if err != nil {
		return err
	}

	currencies, err := s.CurrencyRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list currencies: %w", err)
	}
	codes := make([]domain.CurrencyCode, len(currencies))
	for i, c := range currencies {
		codes[i] = c.Code
	}

	anchor, err := s.Builder.BuildLatest(ctx, codes)
	if err != nil {
		s.Logger.Warn("rate source unavailable, using built-in fallback rates",
			slog.String("error", err.Error()),
		)
		anchor = domain.RateMap{}
	}
	mids := perCADMids(anchor, codes)

	tdBalance := 3500.0
	tfsaBalance := 18000.0
	chaseBalance := 2200.0
	sbiBalance := 120000.0

	// January 1st of the previous year, so the series always ends last month
	start := domain.Month{Year: s.now().Year() - 1, Month: time.January}
	rng := rand.New(rand.NewSource(sampleSeed))

	month := start
	for i := 0; i < 24; i++ {
		// TD Chequing: salary minus expenses with variation
		tdBalance += float64(400 + rng.Intn(201))
		tdBalance = max(2000, min(6500, tdBalance))
		if month.Month == time.December {
			tdBalance -= 800 // holiday spending
		} else if month.Month == time.July || month.Month == time.August {
			tdBalance -= 400 // summer vacation
		}

		// TFSA: monthly contribution plus growth with volatility
		tfsaBalance += 500 + tfsaBalance*0.08/12 + uniform(rng, -tfsaBalance*0.03, tfsaBalance*0.03)
		switch i {
		case 2:
			tfsaBalance *= 0.94 // market dip
		case 9:
			tfsaBalance *= 0.96 // minor correction
		case 19:
			tfsaBalance *= 0.95 // another dip
		}

		// Chase: steady deposits with interest
		chaseBalance += float64(200+rng.Intn(101)) + chaseBalance*0.04/12
		if month.Month == time.May || month.Month == time.November {
			chaseBalance -= 500
		}

		// SBI: deposits with quarterly expenses
		sbiBalance += float64(13000 + rng.Intn(4001))
		if int(month.Month)%3 == 0 {
			sbiBalance -= 20000
		}
		if month.Month == time.April {
			sbiBalance -= 10000
		}

		snap := &domain.Snapshot{
			ID:    uuid.New(),
			Month: month,
			Balances: []domain.Balance{
				{AccountID: td.ID, Currency: td.Currency, Amount: decimal.NewFromFloat(tdBalance).Round(2)},
				{AccountID: tfsa.ID, Currency: tfsa.Currency, Amount: decimal.NewFromFloat(tfsaBalance).Round(2)},
				{AccountID: chase.ID, Currency: chase.Currency, Amount: decimal.NewFromFloat(chaseBalance).Round(2)},
				{AccountID: sbi.ID, Currency: sbi.Currency, Amount: decimal.NewFromFloat(sbiBalance).Round(2)},
			},
			Rates:     ratesFromMids(codes, mids, month.Date()),
			CreatedAt: time.Now(),
		}
		if err := snap.Validate(); err != nil {
			return fmt.Errorf("sample snapshot for %s is invalid: %w", month, err)
		}
		if err := s.SnapshotRepo.Create(ctx, snap); err != nil {
			return fmt.Errorf("failed to store sample snapshot for %s: %w", month, err)
		}

		// Drift each currency's mid a little so converted lines wiggle like
		// real FX history
		for _, code := range codes {
			if code == "CAD" {
				continue
			}
			if mid, ok := mids[code]; ok {
				mids[code] = mid * (1 + uniform(rng, -0.015, 0.015))
			}
		}

		month = month.Next()
	}

	s.Logger.Info("sample data seeded",
		slog.Int("accounts", 4),
		slog.Int("months", 24),
		slog.String("from", start.String()),
	)
	return nil
}

func (s *SampleSeeder) createAccount(ctx context.Context, ownerID uuid.UUID, name string, accountType domain.AccountType, currency domain.CurrencyCode) (*domain.Account, error) {
	account := &domain.Account{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		AccountType: accountType,
		Currency:    currency,
		CreatedAt:   time.Now(),
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	if err := s.AccountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create sample account %q: %w", name, err)
	}
	return account, nil
}

func (s *SampleSeeder) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// perCADMids extracts each code's units-per-CAD value from the anchor
// table, filling gaps from the built-in approximations. Codes covered by
// neither are left out and keep only their self pair.
func perCADMids(anchor domain.RateMap, codes []domain.CurrencyCode) map[domain.CurrencyCode]float64 {
	mids := make(map[domain.CurrencyCode]float64, len(codes))
	for _, code := range codes {
		if code == "CAD" {
			mids[code] = 1.0
			continue
		}
		if rate, ok := anchor.Rate("CAD", code); ok {
			mids[code] = rate.InexactFloat64()
		} else if mid, ok := fallbackPerCAD[code]; ok {
			mids[code] = mid
		}
	}
	return mids
}

// ratesFromMids derives the full pairwise table from per-CAD mid values.
// Deriving every pair from one mid per currency keeps the table internally
// consistent: rate(A, B) * rate(B, A) = 1 up to rounding.
func ratesFromMids(codes []domain.CurrencyCode, mids map[domain.CurrencyCode]float64, asOf time.Time) domain.RateMap {
	rates := domain.NewRateMap(asOf)
	for _, from := range codes {
		rates.Rates[domain.CurrencyPair{From: from, To: from}] = decimal.NewFromInt(1)
		fromMid, ok := mids[from]
		if !ok {
			continue
		}
		for _, to := range codes {
			if to == from {
				continue
			}
			toMid, ok := mids[to]
			if !ok {
				continue
			}
			rates.Rates[domain.CurrencyPair{From: from, To: to}] = decimal.NewFromFloat(toMid / fromMid).Round(6)
		}
	}
	return rates
}
