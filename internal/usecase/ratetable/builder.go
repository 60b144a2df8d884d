package ratetable

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// Builder assembles complete pairwise rate tables from an external source
type Builder struct {
	source domain.RateSource
	logger *slog.Logger
}

// NewBuilder creates a new Builder over the given rate source
func NewBuilder(source domain.RateSource, logger *slog.Logger) *Builder {
	return &Builder{source: source, logger: logger}
}

// Build produces the pairwise rate map for codes effective at asOf
// Logic:
//   - One request per base currency (single attempt, no retry), targets are
//     the remaining codes
//   - Results merge as a union; keys are base-qualified so they never collide
//     and base order cannot change the outcome
//   - The self pair (code, code) = 1.0 is inserted for every code regardless
//     of what the source returned
//
// A failed base degrades to a partial map; callers must tolerate missing
// pairs. Only when every request fails is the result an error
// (domain.ErrRateSourceUnavailable) so a total outage can never masquerade
// as an empty success.
func (b *Builder) Build(ctx context.Context, codes []domain.CurrencyCode, asOf time.Time) (domain.RateMap, error) {
	rates := domain.NewRateMap(asOf)

	attempts := 0
	failures := 0
	var lastErr error

	for _, base := range codes {
		targets := make([]domain.CurrencyCode, 0, len(codes)-1)
		for _, code := range codes {
			if code != base {
				targets = append(targets, code)
			}
		}

		// A single currency has no cross rates to fetch
		if len(targets) > 0 {
			attempts++
			fetched, err := b.source.FetchRates(ctx, base, targets, asOf)
			if err != nil {
				failures++
				lastErr = err
				b.logger.Warn("rate fetch failed for base currency",
					slog.String("base", string(base)),
					slog.String("error", err.Error()),
				)
			} else {
				for target, rate := range fetched {
					rates.Rates[domain.CurrencyPair{From: base, To: target}] = rate
				}
			}
		}

		rates.Rates[domain.CurrencyPair{From: base, To: base}] = decimal.NewFromInt(1)
	}

	if attempts > 0 && failures == attempts {
		return domain.RateMap{}, fmt.Errorf("%w: all %d base currency requests failed: %v", domain.ErrRateSourceUnavailable, failures, lastErr)
	}

	if failures > 0 {
		b.logger.Warn("rate table is partial",
			slog.Int("failed_bases", failures),
			slog.Int("total_bases", attempts),
		)
	}

	return rates, nil
}

// BuildLatest produces the pairwise rate map using the source's most recent
// available rates
func (b *Builder) BuildLatest(ctx context.Context, codes []domain.CurrencyCode) (domain.RateMap, error) {
	return b.Build(ctx, codes, time.Time{})
}
