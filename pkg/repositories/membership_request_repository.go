package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/DevWeb31/phuong-long-sub002/pkg/apperrors"
	"github.com/DevWeb31/phuong-long-sub002/pkg/database"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
)

// MembershipRequestRepository defines the interface for club-join requests.
type MembershipRequestRepository interface {
	// Create inserts a new pending request. Returns ErrConflict when the
	// user already has an outstanding pending request for the same club.
	Create(ctx context.Context, req *models.MembershipRequest) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.MembershipRequest, error)

	// ListPending returns requests awaiting review, oldest first. A non-nil
	// clubID restricts the listing to one club (coach view).
	ListPending(ctx context.Context, clubID *uuid.UUID) ([]*models.MembershipRequest, error)

	// UpdateStatusIfPending transitions the request out of pending as a
	// conditional update. Returns false when the request was not pending,
	// so two concurrent reviews resolve to exactly one winner.
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, newStatus models.MembershipRequestStatus, reviewerID uuid.UUID, reviewedAt time.Time) (bool, error)

	// LatestApprovedClub returns the club of the user's most recent approved
	// request, or (nil, nil) when none exists.
	LatestApprovedClub(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
}

// membershipRequestRepository implements MembershipRequestRepository using PostgreSQL.
type membershipRequestRepository struct {
	db *database.DB
}

// NewMembershipRequestRepository creates a new membership request repository.
func NewMembershipRequestRepository(db *database.DB) MembershipRequestRepository {
	return &membershipRequestRepository{db: db}
}

// Create inserts a pending request.
func (r *membershipRequestRepository) Create(ctx context.Context, req *models.MembershipRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Status = models.MembershipPending
	req.RequestedAt = time.Now()

	query := `
		INSERT INTO membership_requests (id, user_id, club_id, status, requested_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		req.ID,
		req.UserID,
		req.ClubID,
		req.Status,
		req.RequestedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("pending request already exists: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create membership request: %w", err)
	}

	return nil
}

// GetByID retrieves a request by id.
func (r *membershipRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MembershipRequest, error) {
	query := `
		SELECT id, user_id, club_id, status, requested_at, reviewed_at, reviewed_by
		FROM membership_requests
		WHERE id = $1`

	var req models.MembershipRequest
	err := r.db.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.UserID,
		&req.ClubID,
		&req.Status,
		&req.RequestedAt,
		&req.ReviewedAt,
		&req.ReviewedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("membership request %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get membership request: %w", err)
	}

	return &req, nil
}

// ListPending returns pending requests, optionally scoped to one club.
func (r *membershipRequestRepository) ListPending(ctx context.Context, clubID *uuid.UUID) ([]*models.MembershipRequest, error) {
	query := `
		SELECT id, user_id, club_id, status, requested_at, reviewed_at, reviewed_by
		FROM membership_requests
		WHERE status = 'pending'
		  AND ($1::uuid IS NULL OR club_id = $1)
		ORDER BY requested_at`

	rows, err := r.db.Query(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.MembershipRequest
	for rows.Next() {
		var req models.MembershipRequest
		err := rows.Scan(
			&req.ID,
			&req.UserID,
			&req.ClubID,
			&req.Status,
			&req.RequestedAt,
			&req.ReviewedAt,
			&req.ReviewedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership request: %w", err)
		}
		requests = append(requests, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership requests: %w", err)
	}

	return requests, nil
}

// UpdateStatusIfPending performs the guarded pending -> terminal transition.
func (r *membershipRequestRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, newStatus models.MembershipRequestStatus, reviewerID uuid.UUID, reviewedAt time.Time) (bool, error) {
	query := `
		UPDATE membership_requests
		SET status = $2, reviewed_at = $3, reviewed_by = $4
		WHERE id = $1 AND status = 'pending'`

	result, err := r.db.Exec(ctx, query, id, newStatus, reviewedAt, reviewerID)
	if err != nil {
		return false, fmt.Errorf("failed to update membership request status: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// LatestApprovedClub returns the club of the most recent approved request.
func (r *membershipRequestRepository) LatestApprovedClub(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	query := `
		SELECT club_id
		FROM membership_requests
		WHERE user_id = $1 AND status = 'approved'
		ORDER BY reviewed_at DESC
		LIMIT 1`

	var clubID uuid.UUID
	err := r.db.QueryRow(ctx, query, userID).Scan(&clubID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest approved club: %w", err)
	}

	return &clubID, nil
}

// Ensure membershipRequestRepository implements MembershipRequestRepository at compile time.
var _ MembershipRequestRepository = (*membershipRequestRepository)(nil)
