package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/DevWeb31/phuong-long-sub002/pkg/apperrors"
	"github.com/DevWeb31/phuong-long-sub002/pkg/database"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
)

// RoleRepository defines the interface for role reference data access.
// Roles are static seed data; there is no write side.
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*models.Role, error)
}

// roleRepository implements RoleRepository using PostgreSQL.
type roleRepository struct {
	db *database.DB
}

// NewRoleRepository creates a new role repository.
func NewRoleRepository(db *database.DB) RoleRepository {
	return &roleRepository{db: db}
}

// GetByName retrieves a role by its unique name.
func (r *roleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	query := `
		SELECT id, name, level, created_at
		FROM roles
		WHERE name = $1`

	var role models.Role
	err := r.db.QueryRow(ctx, query, name).Scan(
		&role.ID,
		&role.Name,
		&role.Level,
		&role.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("role %q: %w", name, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return &role, nil
}

// Ensure roleRepository implements RoleRepository at compile time.
var _ RoleRepository = (*roleRepository)(nil)
