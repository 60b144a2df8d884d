package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OwnerType represents the kind of owner
type OwnerType string

const (
	OwnerTypeIndividual OwnerType = "Individual"
	OwnerTypeJoint      OwnerType = "Joint"
)

// AccountType represents the kind of account
type AccountType string

const (
	AccountTypeBank       AccountType = "Bank"
	AccountTypeInvestment AccountType = "Investment"
)

// Owner represents a person whose accounts are tracked
type Owner struct {
	ID        uuid.UUID
	Name      string
	OwnerType OwnerType
	CreatedAt time.Time
}

// Validate ensures the owner adheres to domain rules
// Returns an error if validation fails
func (o *Owner) Validate() error {
	if o.Name == "" {
		return errors.New("owner name cannot be empty")
	}

	if o.OwnerType != OwnerTypeIndividual && o.OwnerType != OwnerTypeJoint {
		return errors.New("owner type must be Individual or Joint")
	}

	return nil
}

// Account represents a financial account holding balances in one currency
// Snapshot balances are recorded in the currency the account had at pin time
type Account struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	AccountType AccountType
	Currency    CurrencyCode
	CreatedAt   time.Time
}

// Validate ensures the account adheres to domain rules
// Returns an error if validation fails
func (a *Account) Validate() error {
	if a.Name == "" {
		return errors.New("account name cannot be empty")
	}

	if a.OwnerID == uuid.Nil {
		return errors.New("account must have an owner")
	}

	if a.AccountType != AccountTypeBank && a.AccountType != AccountTypeInvestment {
		return errors.New("account type must be Bank or Investment")
	}

	if !a.Currency.Valid() {
		return errors.New("account currency must be three uppercase letters")
	}

	return nil
}
