package growth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

func holdings(totals map[string]float64) Holdings {
	h := make(Holdings, len(totals))
	for code, total := range totals {
		h[domain.CurrencyCode(code)] = decimal.NewFromFloat(total)
	}
	return h
}

func month(y int, m time.Month) domain.Month {
	return domain.MonthOf(y, m)
}

func TestNormalize_BaselineIsOneHundred(t *testing.T) {
	series := []PeriodHoldings{
		{Month: month(2025, time.January), Totals: holdings(map[string]float64{"CAD": 1000, "USD": 500})},
		{Month: month(2025, time.February), Totals: holdings(map[string]float64{"CAD": 1100, "USD": 550})},
		{Month: month(2025, time.March), Totals: holdings(map[string]float64{"CAD": 900, "USD": 600})},
	}

	// Execute
	result, err := Normalize(series, month(2025, time.January), []domain.CurrencyCode{"CAD", "USD"})

	// Assert: Jan=100, Feb=110, Mar=90 for CAD; independent track for USD
	require.NoError(t, err)
	require.Len(t, result, 3)

	assert.True(t, result[0].Index["CAD"].Equal(decimal.NewFromInt(100)), "got %s", result[0].Index["CAD"])
	assert.True(t, result[0].Index["USD"].Equal(decimal.NewFromInt(100)))
	assert.True(t, result[1].Index["CAD"].Equal(decimal.NewFromInt(110)), "got %s", result[1].Index["CAD"])
	assert.True(t, result[1].Index["USD"].Equal(decimal.NewFromInt(110)))
	assert.True(t, result[2].Index["CAD"].Equal(decimal.NewFromInt(90)), "got %s", result[2].Index["CAD"])
	assert.True(t, result[2].Index["USD"].Equal(decimal.NewFromInt(120)))
}

func TestNormalize_PeriodsBeforeBaselineOmitted(t *testing.T) {
	series := []PeriodHoldings{
		{Month: month(2024, time.November), Totals: holdings(map[string]float64{"CAD": 800})},
		{Month: month(2024, time.December), Totals: holdings(map[string]float64{"CAD": 900})},
		{Month: month(2025, time.January), Totals: holdings(map[string]float64{"CAD": 1000})},
		{Month: month(2025, time.February), Totals: holdings(map[string]float64{"CAD": 1200})},
	}

	// Execute with a mid-series baseline
	result, err := Normalize(series, month(2025, time.January), []domain.CurrencyCode{"CAD"})

	// Assert: November and December are not in the output
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, month(2025, time.January), result[0].Month)
	assert.Equal(t, month(2025, time.February), result[1].Month)
	assert.True(t, result[1].Index["CAD"].Equal(decimal.NewFromInt(120)))
}

func TestNormalize_AbsentCurrencyCountsAsZero(t *testing.T) {
	// USD only appears from February onward
	series := []PeriodHoldings{
		{Month: month(2025, time.January), Totals: holdings(map[string]float64{"CAD": 1000, "USD": 500})},
		{Month: month(2025, time.February), Totals: holdings(map[string]float64{"CAD": 1000})},
	}

	// Execute
	result, err := Normalize(series, month(2025, time.January), []domain.CurrencyCode{"CAD", "USD"})

	// Assert: missing USD in February is a real zero, not a gap
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.True(t, result[1].Index["USD"].Equal(decimal.Zero), "got %s", result[1].Index["USD"])
}

func TestNormalize_ZeroBaselineSubstitutesOne(t *testing.T) {
	// INR starts at zero and appears later
	series := []PeriodHoldings{
		{Month: month(2025, time.January), Totals: holdings(map[string]float64{"INR": 0})},
		{Month: month(2025, time.February), Totals: holdings(map[string]float64{"INR": 50000})},
	}

	// Execute
	result, err := Normalize(series, month(2025, time.January), []domain.CurrencyCode{"INR"})

	// Assert: baseline divides by 1, so the raw amount drives the percentage
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.True(t, result[0].Index["INR"].Equal(decimal.Zero))
	assert.True(t, result[1].Index["INR"].Equal(decimal.NewFromInt(5000000)), "got %s", result[1].Index["INR"])
}

func TestNormalize_BaselineNotInSeries(t *testing.T) {
	series := []PeriodHoldings{
		{Month: month(2025, time.January), Totals: holdings(map[string]float64{"CAD": 1000})},
	}

	// Execute with a month that has no snapshot
	_, err := Normalize(series, month(2024, time.June), []domain.CurrencyCode{"CAD"})

	// Assert
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "baseline month 2024-06 not present")
}

func TestNativeTotals_SumsPerCurrency(t *testing.T) {
	balances := []domain.Balance{
		{AccountID: uuid.New(), Currency: "CAD", Amount: decimal.NewFromInt(3500)},
		{AccountID: uuid.New(), Currency: "CAD", Amount: decimal.NewFromInt(18000)},
		{AccountID: uuid.New(), Currency: "USD", Amount: decimal.NewFromInt(2200)},
	}

	totals := NativeTotals(balances)

	require.Len(t, totals, 2)
	assert.True(t, totals["CAD"].Equal(decimal.NewFromInt(21500)))
	assert.True(t, totals["USD"].Equal(decimal.NewFromInt(2200)))
}
