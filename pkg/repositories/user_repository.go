package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DevWeb31/phuong-long-sub002/pkg/apperrors"
	"github.com/DevWeb31/phuong-long-sub002/pkg/database"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
)

// UserRepository defines the interface for local user profile data.
// Identity is owned by the external provider; this table mirrors the
// profile fields the authorization core reads and writes.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// Upsert mirrors a provider identity into the local profile table.
	// Called when a session is established so profile-based fallbacks
	// (preferred club, staff-name lookup) have data to work with.
	Upsert(ctx context.Context, user *models.User) error

	// UpdatePreferredClub sets the user's preferred-club reference.
	UpdatePreferredClub(ctx context.Context, userID, clubID uuid.UUID) error
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user profile.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, email, full_name, username, preferred_club_id, created_at, updated_at
		FROM profiles
		WHERE id = $1`

	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Username,
		&user.PreferredClubID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Upsert creates or refreshes a profile row from provider identity data.
func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	now := time.Now()

	query := `
		INSERT INTO profiles (id, email, full_name, username, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    full_name = COALESCE(NULLIF(EXCLUDED.full_name, ''), profiles.full_name),
		    username = COALESCE(NULLIF(EXCLUDED.username, ''), profiles.username),
		    updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		user.Username,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// UpdatePreferredClub sets the preferred-club reference.
func (r *userRepository) UpdatePreferredClub(ctx context.Context, userID, clubID uuid.UUID) error {
	query := `
		UPDATE profiles
		SET preferred_club_id = $2, updated_at = $3
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, userID, clubID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update preferred club: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}

	return nil
}

// Ensure userRepository implements UserRepository at compile time.
var _ UserRepository = (*userRepository)(nil)
