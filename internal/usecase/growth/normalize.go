package growth

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// Holdings maps a currency code to a native, unconverted total
type Holdings map[domain.CurrencyCode]decimal.Decimal

// PeriodHoldings is one month's native totals per currency
type PeriodHoldings struct {
	Month  domain.Month
	Totals Holdings
}

// PeriodIndex is one month's growth index per currency, in percent
type PeriodIndex struct {
	Month domain.Month
	Index map[domain.CurrencyCode]decimal.Decimal
}

// NativeTotals sums balances per currency without any conversion
func NativeTotals(balances []domain.Balance) Holdings {
	totals := make(Holdings)
	for _, b := range balances {
		totals[b.Currency] = totals[b.Currency].Add(b.Amount)
	}
	return totals
}

// Normalize rebases each currency's native totals against its own value in
// the baseline period
// Logic: index = (periodTotal / baselineTotal) * 100, per currency,
// independently. Currencies absent from a period count as zero. A zero
// baseline is substituted with 1, letting the raw later amounts drive the
// percentage instead of dividing by zero. Periods before the baseline are
// omitted from the output.
//
// The series must be chronological and must contain the baseline month;
// a baseline with no recorded snapshot returns domain.ErrNotFound.
func Normalize(series []PeriodHoldings, baseline domain.Month, codes []domain.CurrencyCode) ([]PeriodIndex, error) {
	baselineIdx := -1
	for i, period := range series {
		if period.Month == baseline {
			baselineIdx = i
			break
		}
	}
	if baselineIdx == -1 {
		return nil, fmt.Errorf("baseline month %s not present in series: %w", baseline, domain.ErrNotFound)
	}

	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)

	base := make(map[domain.CurrencyCode]decimal.Decimal, len(codes))
	for _, code := range codes {
		b := series[baselineIdx].Totals[code]
		if b.IsZero() {
			b = one
		}
		base[code] = b
	}

	normalized := make([]PeriodIndex, 0, len(series)-baselineIdx)
	for _, period := range series[baselineIdx:] {
		index := make(map[domain.CurrencyCode]decimal.Decimal, len(codes))
		for _, code := range codes {
			index[code] = period.Totals[code].Div(base[code]).Mul(hundred)
		}
		normalized = append(normalized, PeriodIndex{Month: period.Month, Index: index})
	}

	return normalized, nil
}
