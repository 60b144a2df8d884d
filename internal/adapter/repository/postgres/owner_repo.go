package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Rushit-Mehta/kuyan/internal/domain"
)

// ownerRepository implements domain.OwnerRepository
type ownerRepository struct {
	db *DB
}

// NewOwnerRepository creates a new owner repository
func NewOwnerRepository(db *DB) domain.OwnerRepository {
	return &ownerRepository{db: db}
}

// List retrieves all owners ordered by name
func (r *ownerRepository) List(ctx context.Context) ([]*domain.Owner, error) {
	query := `
		SELECT id, name, owner_type, created_at
		FROM owners
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	var owners []*domain.Owner
	for rows.Next() {
		var owner domain.Owner
		if err := rows.Scan(
			&owner.ID,
			&owner.Name,
			&owner.OwnerType,
			&owner.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, &owner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owners: %w", err)
	}

	return owners, nil
}

// GetByID retrieves an owner by ID
func (r *ownerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Owner, error) {
	query := `
		SELECT id, name, owner_type, created_at
		FROM owners
		WHERE id = $1
	`

	var owner domain.Owner
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&owner.ID,
		&owner.Name,
		&owner.OwnerType,
		&owner.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("owner %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get owner by ID: %w", err)
	}

	return &owner, nil
}

// GetByName retrieves an owner by its unique name
func (r *ownerRepository) GetByName(ctx context.Context, name string) (*domain.Owner, error) {
	query := `
		SELECT id, name, owner_type, created_at
		FROM owners
		WHERE name = $1
	`

	var owner domain.Owner
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&owner.ID,
		&owner.Name,
		&owner.OwnerType,
		&owner.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("owner %q: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get owner by name: %w", err)
	}

	return &owner, nil
}

// Create creates a new owner
func (r *ownerRepository) Create(ctx context.Context, owner *domain.Owner) error {
	query := `
		INSERT INTO owners (id, name, owner_type, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query,
		owner.ID,
		owner.Name,
		string(owner.OwnerType),
		owner.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("owner %q: %w", owner.Name, domain.ErrDuplicate)
		}
		return fmt.Errorf("failed to create owner: %w", err)
	}

	return nil
}
