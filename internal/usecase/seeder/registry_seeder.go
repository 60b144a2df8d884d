package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// Default registry rows created on first boot
var (
	defaultOwners = []struct {
		Name      string
		OwnerType domain.OwnerType
	}{
		{"Me", domain.OwnerTypeIndividual},
		{"Wife", domain.OwnerTypeIndividual},
	}

	defaultCurrencies = []struct {
		Code         domain.CurrencyCode
		FlagEmoji    string
		Color        string
		DisplayOrder int
	}{
		{"CAD", "🇨🇦", "#DC143C", 1},
		{"USD", "🇺🇸", "#003366", 2},
		{"INR", "🇮🇳", "#FF8C00", 3},
	}
)

// RegistrySeeder ensures the default owners and currencies exist
type RegistrySeeder struct {
	OwnerRepo    domain.OwnerRepository
	CurrencyRepo domain.CurrencyRepository
}

// NewRegistrySeeder creates a new RegistrySeeder instance
func NewRegistrySeeder(ownerRepo domain.OwnerRepository, currencyRepo domain.CurrencyRepository) *RegistrySeeder {
	return &RegistrySeeder{
		OwnerRepo:    ownerRepo,
		CurrencyRepo: currencyRepo,
	}
}

// SeedDefaults creates any default owner or currency that is missing
// Existing rows are left untouched, so edits survive restarts
func (s *RegistrySeeder) SeedDefaults(ctx context.Context) error {
	for _, d := range defaultOwners {
		_, err := s.OwnerRepo.GetByName(ctx, d.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to check owner %q: %w", d.Name, err)
		}

		owner := &domain.Owner{
			ID:        uuid.New(),
			Name:      d.Name,
			OwnerType: d.OwnerType,
			CreatedAt: time.Now(),
		}
		if err := owner.Validate(); err != nil {
			return err
		}
		if err := s.OwnerRepo.Create(ctx, owner); err != nil {
			return fmt.Errorf("failed to seed owner %q: %w", d.Name, err)
		}
	}

	for _, d := range defaultCurrencies {
		_, err := s.CurrencyRepo.GetByCode(ctx, d.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to check currency %s: %w", d.Code, err)
		}

		currency := &domain.Currency{
			ID:           uuid.New(),
			Code:         d.Code,
			FlagEmoji:    d.FlagEmoji,
			Color:        d.Color,
			DisplayOrder: d.DisplayOrder,
			CreatedAt:    time.Now(),
		}
		if err := currency.Validate(); err != nil {
			return err
		}
		if err := s.CurrencyRepo.Create(ctx, currency); err != nil {
			return fmt.Errorf("failed to seed currency %s: %w", d.Code, err)
		}
	}

	return nil
}
