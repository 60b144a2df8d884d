package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// OwnerService manages the people whose accounts are tracked
type OwnerService struct {
	OwnerRepo domain.OwnerRepository
}

// NewOwnerService creates a new OwnerService instance
func NewOwnerService(ownerRepo domain.OwnerRepository) *OwnerService {
	return &OwnerService{OwnerRepo: ownerRepo}
}

// List retrieves all owners ordered by name
func (s *OwnerService) List(ctx context.Context) ([]*domain.Owner, error) {
	return s.OwnerRepo.List(ctx)
}

// Add registers a new owner; names are unique
func (s *OwnerService) Add(ctx context.Context, name string, ownerType domain.OwnerType) (*domain.Owner, error) {
	existing, err := s.OwnerRepo.GetByName(ctx, name)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check owner %q: %w", name, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("owner %q: %w", name, domain.ErrDuplicate)
	}

	owner := &domain.Owner{
		ID:        uuid.New(),
		Name:      name,
		OwnerType: ownerType,
		CreatedAt: time.Now(),
	}
	if err := owner.Validate(); err != nil {
		return nil, err
	}

	if err := s.OwnerRepo.Create(ctx, owner); err != nil {
		return nil, fmt.Errorf("failed to create owner: %w", err)
	}

	return owner, nil
}
