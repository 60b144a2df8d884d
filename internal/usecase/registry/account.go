package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// AccountService manages the tracked accounts
type AccountService struct {
	AccountRepo  domain.AccountRepository
	OwnerRepo    domain.OwnerRepository
	CurrencyRepo domain.CurrencyRepository
}

// NewAccountService creates a new AccountService instance
func NewAccountService(
	accountRepo domain.AccountRepository,
	ownerRepo domain.OwnerRepository,
	currencyRepo domain.CurrencyRepository,
) *AccountService {
	return &AccountService{
		AccountRepo:  accountRepo,
		OwnerRepo:    ownerRepo,
		CurrencyRepo: currencyRepo,
	}
}

// List retrieves all accounts ordered by owner name, then account name
func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.AccountRepo.List(ctx)
}

// Get retrieves one account by ID
func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.AccountRepo.GetByID(ctx, id)
}

// Add registers a new account for an owner
// The owner must exist and the currency must be enabled in the registry
func (s *AccountService) Add(ctx context.Context, ownerID uuid.UUID, name string, accountType domain.AccountType, currency domain.CurrencyCode) (*domain.Account, error) {
	if _, err := s.OwnerRepo.GetByID(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("owner %s: %w", ownerID, err)
	}
	if _, err := s.CurrencyRepo.GetByCode(ctx, currency); err != nil {
		return nil, fmt.Errorf("currency %s: %w", currency, err)
	}

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
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// Update rewrites an account's attributes
// Changing the currency only affects future snapshots; stored balances keep
// the currency they were pinned with
func (s *AccountService) Update(ctx context.Context, account *domain.Account) error {
	if _, err := s.AccountRepo.GetByID(ctx, account.ID); err != nil {
		return err
	}
	if _, err := s.OwnerRepo.GetByID(ctx, account.OwnerID); err != nil {
		return fmt.Errorf("owner %s: %w", account.OwnerID, err)
	}
	if _, err := s.CurrencyRepo.GetByCode(ctx, account.Currency); err != nil {
		return fmt.Errorf("currency %s: %w", account.Currency, err)
	}
	if err := account.Validate(); err != nil {
		return err
	}

	return s.AccountRepo.Update(ctx, account)
}

// Remove deletes an account and its snapshot balances
func (s *AccountService) Remove(ctx context.Context, id uuid.UUID) error {
	if _, err := s.AccountRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.AccountRepo.Delete(ctx, id)
}
