package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyPair is an ordered (from, to) currency pair, the RateMap key
type CurrencyPair struct {
	From CurrencyCode
	To   CurrencyCode
}

// Key renders the "FROM_TO" form used in the pinned JSON representation
func (p CurrencyPair) Key() string {
	return string(p.From) + "_" + string(p.To)
}

// ParsePairKey parses a "FROM_TO" key back into a pair
func ParsePairKey(key string) (CurrencyPair, error) {
	from, to, ok := strings.Cut(key, "_")
	if !ok {
		return CurrencyPair{}, fmt.Errorf("invalid rate key %q", key)
	}
	pair := CurrencyPair{From: CurrencyCode(from), To: CurrencyCode(to)}
	if !pair.From.Valid() || !pair.To.Valid() {
		return CurrencyPair{}, fmt.Errorf("invalid rate key %q", key)
	}
	return pair, nil
}

// RateMap is the pairwise exchange-rate table for one as-of date
// Invariant: every code present carries the self pair (code, code) = 1.0.
// The map is not guaranteed symmetric or complete; consumers must tolerate
// missing pairs (the conversion engine falls back to inverse and
// triangulated paths).
//
// Once pinned to a snapshot a RateMap is immutable: historical totals must
// recompute identically no matter what later rates look like.
type RateMap struct {
	AsOf  time.Time
	Rates map[CurrencyPair]decimal.Decimal
}

// NewRateMap creates an empty rate map for an as-of date
func NewRateMap(asOf time.Time) RateMap {
	return RateMap{AsOf: asOf, Rates: make(map[CurrencyPair]decimal.Decimal)}
}

// Rate looks up the multiplier for an ordered pair
func (rm RateMap) Rate(from, to CurrencyCode) (decimal.Decimal, bool) {
	rate, ok := rm.Rates[CurrencyPair{From: from, To: to}]
	return rate, ok
}

// Codes returns the distinct currency codes appearing in the map, sorted
func (rm RateMap) Codes() []CurrencyCode {
	seen := make(map[CurrencyCode]bool)
	for pair := range rm.Rates {
		seen[pair.From] = true
		seen[pair.To] = true
	}

	codes := make([]CurrencyCode, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// IsEmpty reports whether the map holds no rates
func (rm RateMap) IsEmpty() bool {
	return len(rm.Rates) == 0
}

// Validate ensures the rate map adheres to domain rules: every rate is
// positive and every code present carries the exact self pair 1.0
// A violation means the map was pinned incorrectly and would silently
// corrupt every historical total computed from it, so callers must treat
// the returned error as a defect, not a recoverable condition
func (rm RateMap) Validate() error {
	for pair, rate := range rm.Rates {
		if !rate.IsPositive() {
			return fmt.Errorf("%w: rate for %s is %s, must be positive", ErrMalformedRateMap, pair.Key(), rate)
		}
	}

	one := decimal.NewFromInt(1)
	for _, code := range rm.Codes() {
		self, ok := rm.Rates[CurrencyPair{From: code, To: code}]
		if !ok {
			return fmt.Errorf("%w: missing self pair for %s", ErrMalformedRateMap, code)
		}
		if !self.Equal(one) {
			return fmt.Errorf("%w: self pair for %s is %s, must be 1", ErrMalformedRateMap, code, self)
		}
	}

	return nil
}

// MarshalJSON renders the flat {"FROM_TO": rate} object stored in the
// snapshot's exchange_rates column. The as-of date is not part of the JSON;
// the owning snapshot carries it.
func (rm RateMap) MarshalJSON() ([]byte, error) {
	flat := make(map[string]json.Number, len(rm.Rates))
	for pair, rate := range rm.Rates {
		flat[pair.Key()] = json.Number(rate.String())
	}
	return json.Marshal(flat)
}

// UnmarshalJSON parses the flat {"FROM_TO": rate} object
func (rm *RateMap) UnmarshalJSON(data []byte) error {
	var flat map[string]json.Number
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("failed to parse rate map: %w", err)
	}

	rates := make(map[CurrencyPair]decimal.Decimal, len(flat))
	for key, value := range flat {
		pair, err := ParsePairKey(key)
		if err != nil {
			return err
		}
		rate, err := decimal.NewFromString(value.String())
		if err != nil {
			return fmt.Errorf("invalid rate for %s: %w", key, err)
		}
		rates[pair] = rate
	}

	rm.Rates = rates
	return nil
}
