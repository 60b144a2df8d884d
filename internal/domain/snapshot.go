package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is one account's recorded amount inside a snapshot
// Amounts display with 2 fractional digits but keep full precision internally
type Balance struct {
	AccountID uuid.UUID
	Currency  CurrencyCode
	Amount    decimal.Decimal
}

// Validate ensures the balance adheres to domain rules
// Returns an error if validation fails
func (b *Balance) Validate() error {
	if b.AccountID == uuid.Nil {
		return errors.New("balance must reference an account")
	}

	if !b.Currency.Valid() {
		return errors.New("balance currency must be three uppercase letters")
	}

	if b.Amount.IsNegative() {
		return errors.New("balance amount cannot be negative")
	}

	return nil
}

// Snapshot is the immutable record of one month: every account balance plus
// the exchange-rate table pinned at creation time
//
// Once stored, a snapshot's rate map never changes, even if corrected rates
// for that historical date become available later. Replacing a month is a
// whole-snapshot delete and recreate, never an in-place edit.
type Snapshot struct {
	ID        uuid.UUID
	Month     Month
	Balances  []Balance
	Rates     RateMap
	CreatedAt time.Time
}

// Validate ensures the snapshot adheres to domain rules
// Returns an error if validation fails
func (s *Snapshot) Validate() error {
	if s.Month.IsZero() {
		return errors.New("snapshot must have a month")
	}

	if len(s.Balances) == 0 {
		return errors.New("snapshot must contain at least one balance")
	}

	for i := range s.Balances {
		if err := s.Balances[i].Validate(); err != nil {
			return err
		}
	}

	// A malformed pinned map would corrupt every future recomputation
	return s.Rates.Validate()
}
