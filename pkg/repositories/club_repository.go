package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DevWeb31/phuong-long-sub002/pkg/apperrors"
	"github.com/DevWeb31/phuong-long-sub002/pkg/database"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
)

// ClubRepository defines the interface for club data access.
type ClubRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Club, error)

	// FindByStaffName performs a best-effort name-similarity lookup against
	// operational staff records and returns the club the matching staff
	// member belongs to. Returns (nil, nil) on no match.
	// TODO: replace with an explicit coach->club foreign key once staff data
	// is migrated; this fuzzy lookup exists to cover incomplete records.
	FindByStaffName(ctx context.Context, fullName string) (*uuid.UUID, error)
}

// clubRepository implements ClubRepository using PostgreSQL.
type clubRepository struct {
	db *database.DB
}

// NewClubRepository creates a new club repository.
func NewClubRepository(db *database.DB) ClubRepository {
	return &clubRepository{db: db}
}

// GetByID retrieves a club.
func (r *clubRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Club, error) {
	query := `
		SELECT id, name, city, active, created_at, updated_at
		FROM clubs
		WHERE id = $1`

	var club models.Club
	err := r.db.QueryRow(ctx, query, id).Scan(
		&club.ID,
		&club.Name,
		&club.City,
		&club.Active,
		&club.CreatedAt,
		&club.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("club %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get club: %w", err)
	}

	return &club, nil
}

// FindByStaffName looks up a club through its staff roster by name.
func (r *clubRepository) FindByStaffName(ctx context.Context, fullName string) (*uuid.UUID, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, nil
	}

	query := `
		SELECT club_id
		FROM club_staff
		WHERE full_name ILIKE '%' || $1 || '%'
		ORDER BY full_name
		LIMIT 1`

	var clubID uuid.UUID
	err := r.db.QueryRow(ctx, query, fullName).Scan(&clubID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up staff name: %w", err)
	}

	return &clubID, nil
}

// Ensure clubRepository implements ClubRepository at compile time.
var _ ClubRepository = (*clubRepository)(nil)
