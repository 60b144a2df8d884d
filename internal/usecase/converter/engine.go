package converter

import (
	"github.com/shopspring/decimal"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// Path identifies how a conversion was resolved
type Path string

const (
	PathSame         Path = "SAME"
	PathDirect       Path = "DIRECT"
	PathInverse      Path = "INVERSE"
	PathTriangulated Path = "TRIANGULATED"
	PathNone         Path = "NONE"
)

// Result carries a converted amount together with how it was resolved
// A PathNone result is the conversion-miss signal: the amount passed through
// unchanged and the caller decides how to surface the degraded precision
type Result struct {
	Amount decimal.Decimal
	Path   Path
	From   domain.CurrencyCode
	To     domain.CurrencyCode
}

// Missed reports whether the conversion found no rate path
func (r Result) Missed() bool {
	return r.Path == PathNone
}

// Engine converts amounts between currencies using a rate map
// The intermediary is the currency triangulation routes through when neither
// a direct nor an inverse rate exists. It is explicit configuration rather
// than a hard-coded reference currency.
type Engine struct {
	Intermediary domain.CurrencyCode
}

// NewEngine creates an Engine triangulating through the given intermediary
func NewEngine(intermediary domain.CurrencyCode) Engine {
	return Engine{Intermediary: intermediary}
}

// Convert resolves amount from → to against rates
// Resolution order, first match wins:
//  1. Identical currencies: the amount passes through untouched (no
//     multiply/divide round trip)
//  2. Direct (from, to) rate: amount * rate
//  3. Inverse (to, from) rate: amount / rate
//  4. Triangulation via the intermediary: amount * rate(from, intermediary) * rate(intermediary, to)
//  5. No path: the amount passes through unchanged, Result reports PathNone
//
// Quoted rates win over derived ones: a map carrying both (USD, CAD) and
// (CAD, USD) uses each directly, never inverting one to second-guess the
// other. A miss never fails aggregation; it degrades to "already in the
// target currency" and stays observable through the Result.
func (e Engine) Convert(amount decimal.Decimal, from, to domain.CurrencyCode, rates domain.RateMap) Result {
	result := Result{Amount: amount, From: from, To: to}

	if from == to {
		result.Path = PathSame
		return result
	}

	if rate, ok := rates.Rate(from, to); ok {
		result.Amount = amount.Mul(rate)
		result.Path = PathDirect
		return result
	}

	if rate, ok := rates.Rate(to, from); ok {
		result.Amount = amount.Div(rate)
		result.Path = PathInverse
		return result
	}

	fromLeg, okFrom := rates.Rate(from, e.Intermediary)
	toLeg, okTo := rates.Rate(e.Intermediary, to)
	if okFrom && okTo {
		result.Amount = amount.Mul(fromLeg).Mul(toLeg)
		result.Path = PathTriangulated
		return result
	}

	result.Path = PathNone
	return result
}
