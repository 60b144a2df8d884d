package registry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// MockOwnerRepository is a mock implementation of OwnerRepository for testing
type MockOwnerRepository struct {
	mock.Mock
}

func (m *MockOwnerRepository) List(ctx context.Context) ([]*domain.Owner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Owner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) GetByName(ctx context.Context, name string) (*domain.Owner, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) Create(ctx context.Context, owner *domain.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func TestOwnerAdd_Success(t *testing.T) {
	ctx := context.Background()
	mockOwnerRepo := new(MockOwnerRepository)
	service := NewOwnerService(mockOwnerRepo)

	mockOwnerRepo.On("GetByName", ctx, "Me").Return(nil, domain.ErrNotFound)
	mockOwnerRepo.On("Create", ctx, mock.MatchedBy(func(o *domain.Owner) bool {
		return o.Name == "Me" && o.OwnerType == domain.OwnerTypeIndividual
	})).Return(nil)

	// Execute
	owner, err := service.Add(ctx, "Me", domain.OwnerTypeIndividual)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Me", owner.Name)
	assert.NotEqual(t, uuid.Nil, owner.ID)
	mockOwnerRepo.AssertExpectations(t)
}

func TestOwnerAdd_DuplicateName(t *testing.T) {
	ctx := context.Background()
	mockOwnerRepo := new(MockOwnerRepository)
	service := NewOwnerService(mockOwnerRepo)

	existing := &domain.Owner{ID: uuid.New(), Name: "Wife", OwnerType: domain.OwnerTypeIndividual}
	mockOwnerRepo.On("GetByName", ctx, "Wife").Return(existing, nil)

	// Execute
	_, err := service.Add(ctx, "Wife", domain.OwnerTypeIndividual)

	// Assert
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	mockOwnerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOwnerAdd_InvalidType(t *testing.T) {
	ctx := context.Background()
	mockOwnerRepo := new(MockOwnerRepository)
	service := NewOwnerService(mockOwnerRepo)

	mockOwnerRepo.On("GetByName", ctx, "Me").Return(nil, domain.ErrNotFound)

	// Execute
	_, err := service.Add(ctx, "Me", domain.OwnerType("Corporation"))

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "owner type must be Individual or Joint")
	mockOwnerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
