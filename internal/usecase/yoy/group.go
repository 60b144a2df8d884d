package yoy

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rushit-Mehta/kuyan/internal/usecase/networth"
)

// MonthValue is one calendar month's converted total within a year
type MonthValue struct {
	Month time.Month
	Total decimal.Decimal
}

// GroupByYear reshapes a chronological net worth series into per-year
// sub-series keyed by calendar month, so years overlay on a common
// twelve-slot axis
// Logic: each point lands in its calendar year under its month 1-12. Only
// (year, month) pairs present in the input appear; missing months are
// omitted, never zero-filled. Each year's slice is ordered by month.
func GroupByYear(series []networth.Point) map[int][]MonthValue {
	grouped := make(map[int][]MonthValue)

	for _, point := range series {
		year := point.Month.Year
		grouped[year] = append(grouped[year], MonthValue{
			Month: point.Month.Month,
			Total: point.Total,
		})
	}

	for year := range grouped {
		values := grouped[year]
		sort.Slice(values, func(i, j int) bool { return values[i].Month < values[j].Month })
	}

	return grouped
}

// Years returns the grouped year keys sorted ascending
func Years(grouped map[int][]MonthValue) []int {
	years := make([]int, 0, len(grouped))
	for year := range grouped {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}
