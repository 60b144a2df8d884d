package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CurrencyCode identifies a currency by its 3-letter code (e.g. "USD")
type CurrencyCode string

// Valid reports whether the code is exactly three uppercase ASCII letters
func (c CurrencyCode) Valid() bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Currency represents an enabled currency in the registry
// Carries the display metadata the dashboard needs (flag, color, ordering)
type Currency struct {
	ID           uuid.UUID
	Code         CurrencyCode
	FlagEmoji    string
	Color        string // hex color used for this currency's chart series
	DisplayOrder int
	CreatedAt    time.Time
}

// Validate ensures the currency adheres to domain rules
// Returns an error if validation fails
func (c *Currency) Validate() error {
	if !c.Code.Valid() {
		return errors.New("currency code must be three uppercase letters")
	}

	if c.FlagEmoji == "" {
		return errors.New("currency flag emoji cannot be empty")
	}

	if c.Color == "" {
		return errors.New("currency color cannot be empty")
	}

	if c.DisplayOrder <= 0 {
		return errors.New("currency display order must be positive")
	}

	return nil
}
