package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// CurrencyService manages the enabled-currency registry
type CurrencyService struct {
	CurrencyRepo domain.CurrencyRepository
	AccountRepo  domain.AccountRepository
}

// NewCurrencyService creates a new CurrencyService instance
func NewCurrencyService(currencyRepo domain.CurrencyRepository, accountRepo domain.AccountRepository) *CurrencyService {
	return &CurrencyService{
		CurrencyRepo: currencyRepo,
		AccountRepo:  accountRepo,
	}
}

// List retrieves all enabled currencies ordered by display order
func (s *CurrencyService) List(ctx context.Context) ([]*domain.Currency, error) {
	return s.CurrencyRepo.List(ctx)
}

// Codes retrieves the enabled currency codes in display order
func (s *CurrencyService) Codes(ctx context.Context) ([]domain.CurrencyCode, error) {
	currencies, err := s.CurrencyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	codes := make([]domain.CurrencyCode, 0, len(currencies))
	for _, c := range currencies {
		codes = append(codes, c.Code)
	}
	return codes, nil
}

// Add enables a new currency at the end of the display order
func (s *CurrencyService) Add(ctx context.Context, code domain.CurrencyCode, flagEmoji, color string) (*domain.Currency, error) {
	existing, err := s.CurrencyRepo.GetByCode(ctx, code)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check currency %s: %w", code, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("currency %s: %w", code, domain.ErrDuplicate)
	}

	maxOrder, err := s.CurrencyRepo.MaxDisplayOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to determine display order: %w", err)
	}

	currency := &domain.Currency{
		ID:           uuid.New(),
		Code:         code,
		FlagEmoji:    flagEmoji,
		Color:        color,
		DisplayOrder: maxOrder + 1,
		CreatedAt:    time.Now(),
	}
	if err := currency.Validate(); err != nil {
		return nil, err
	}

	if err := s.CurrencyRepo.Create(ctx, currency); err != nil {
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}

	return currency, nil
}

// Remove disables a currency
// Refused while any account is denominated in it; existing snapshots keep
// their stored currencies either way.
func (s *CurrencyService) Remove(ctx context.Context, code domain.CurrencyCode) error {
	if _, err := s.CurrencyRepo.GetByCode(ctx, code); err != nil {
		return err
	}

	accounts, err := s.AccountRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	for _, account := range accounts {
		if account.Currency == code {
			return fmt.Errorf("currency %s is used by account %q: %w", code, account.Name, domain.ErrInUse)
		}
	}

	return s.CurrencyRepo.Delete(ctx, code)
}
