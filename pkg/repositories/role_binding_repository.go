package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DevWeb31/phuong-long-sub002/pkg/database"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
)

// RoleBindingRepository defines the interface for (user, role, club) grants.
type RoleBindingRepository interface {
	// FindByUser returns all bindings held by the user across all scopes,
	// joined with the role's name and level.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*models.RoleBinding, error)

	// Upsert grants a role, keyed on (user, role, club). An existing binding
	// is refreshed (granted_by, granted_at) rather than duplicated. Safety
	// under concurrent grants comes from the storage-level unique index, not
	// an application check.
	Upsert(ctx context.Context, userID, roleID uuid.UUID, clubID *uuid.UUID, grantedBy uuid.UUID) error
}

// roleBindingRepository implements RoleBindingRepository using PostgreSQL.
type roleBindingRepository struct {
	db *database.DB
}

// NewRoleBindingRepository creates a new role binding repository.
func NewRoleBindingRepository(db *database.DB) RoleBindingRepository {
	return &roleBindingRepository{db: db}
}

// FindByUser returns all bindings for a user, most privileged first.
func (r *roleBindingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*models.RoleBinding, error) {
	query := `
		SELECT ur.id, ur.user_id, ur.role_id, ro.name, ro.level,
		       ur.club_id, ur.granted_by, ur.granted_at, ur.expires_at
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY ro.level, ur.granted_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get role bindings: %w", err)
	}
	defer rows.Close()

	var bindings []*models.RoleBinding
	for rows.Next() {
		var b models.RoleBinding
		err := rows.Scan(
			&b.ID,
			&b.UserID,
			&b.RoleID,
			&b.RoleName,
			&b.RoleLevel,
			&b.ClubID,
			&b.GrantedBy,
			&b.GrantedAt,
			&b.ExpiresAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role binding: %w", err)
		}
		bindings = append(bindings, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating role bindings: %w", err)
	}

	return bindings, nil
}

// Upsert grants a role idempotently. The conflict target matches the
// expression index on (user_id, role_id, COALESCE(club_id, nil-uuid)) so
// club-scoped and unscoped bindings dedupe the same way.
func (r *roleBindingRepository) Upsert(ctx context.Context, userID, roleID uuid.UUID, clubID *uuid.UUID, grantedBy uuid.UUID) error {
	query := `
		INSERT INTO user_roles (id, user_id, role_id, club_id, granted_by, granted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, role_id, COALESCE(club_id, '00000000-0000-0000-0000-000000000000'::uuid))
		DO UPDATE SET granted_by = EXCLUDED.granted_by,
		              granted_at = EXCLUDED.granted_at`

	_, err := r.db.Exec(ctx, query,
		uuid.New(),
		userID,
		roleID,
		clubID,
		grantedBy,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert role binding: %w", err)
	}

	return nil
}

// Ensure roleBindingRepository implements RoleBindingRepository at compile time.
var _ RoleBindingRepository = (*roleBindingRepository)(nil)
