// Package services holds the business operations above the repositories:
// the membership approval workflow and the site-wide flag accessor.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DevWeb31/phuong-long-sub002/pkg/apperrors"
	"github.com/DevWeb31/phuong-long-sub002/pkg/auth"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
	"github.com/DevWeb31/phuong-long-sub002/pkg/repositories"
)

// MembershipService is the club-join request workflow.
type MembershipService interface {
	// Apply creates a pending request for the user to join the club.
	// Returns ErrConflict when a pending request already exists and
	// ErrInactiveClub when the club is closed.
	Apply(ctx context.Context, userID, clubID uuid.UUID) (*models.MembershipRequest, error)

	// Review transitions a pending request to approved or rejected.
	// The reviewer must be an admin/developer or the coach scoped to the
	// request's club. Returns ErrAlreadyReviewed when the request has left
	// the pending state, including losing a concurrent review race.
	Review(ctx context.Context, requestID, reviewerID uuid.UUID, action models.ReviewAction) (*models.MembershipRequest, error)

	// ListPending returns the requests the reviewer may act on: all of them
	// for an admin, the coach's club only otherwise.
	ListPending(ctx context.Context, reviewerID uuid.UUID) ([]*models.MembershipRequest, error)
}

// membershipService implements MembershipService.
type membershipService struct {
	requests repositories.MembershipRequestRepository
	users    repositories.UserRepository
	clubs    repositories.ClubRepository
	resolver auth.RoleResolver
	logger   *zap.Logger
}

// NewMembershipService creates the membership workflow service.
func NewMembershipService(
	requests repositories.MembershipRequestRepository,
	users repositories.UserRepository,
	clubs repositories.ClubRepository,
	resolver auth.RoleResolver,
	logger *zap.Logger,
) MembershipService {
	return &membershipService{
		requests: requests,
		users:    users,
		clubs:    clubs,
		resolver: resolver,
		logger:   logger,
	}
}

// Apply creates a pending join request after validating the club.
func (s *membershipService) Apply(ctx context.Context, userID, clubID uuid.UUID) (*models.MembershipRequest, error) {
	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if !club.Active {
		return nil, fmt.Errorf("club %s: %w", clubID, apperrors.ErrInactiveClub)
	}

	req := &models.MembershipRequest{
		UserID: userID,
		ClubID: clubID,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("Membership request submitted",
		zap.String("request_id", req.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("club_id", clubID.String()))

	return req, nil
}

// Review applies a reviewer's decision to a pending request.
//
// The pending guard is a conditional update at the storage layer, so two
// concurrent reviews resolve to one winner and one ErrAlreadyReviewed. The
// approve side effects run after the status commit and are deliberately
// best-effort: each is idempotent and independently retryable, and the
// request's own status column is the canonical state. A failed side effect
// is logged, never rolled back into the approval.
func (s *membershipService) Review(ctx context.Context, requestID, reviewerID uuid.UUID, action models.ReviewAction) (*models.MembershipRequest, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("unknown review action %q", action)
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeReviewer(ctx, reviewerID, req.ClubID); err != nil {
		return nil, err
	}

	now := time.Now()
	updated, err := s.requests.UpdateStatusIfPending(ctx, req.ID, action.Status(), reviewerID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record review: %w", err)
	}
	if !updated {
		return nil, fmt.Errorf("request %s: %w", requestID, apperrors.ErrAlreadyReviewed)
	}

	req.Status = action.Status()
	req.ReviewedAt = &now
	req.ReviewedBy = &reviewerID

	s.logger.Info("Membership request reviewed",
		zap.String("request_id", req.ID.String()),
		zap.String("reviewer_id", reviewerID.String()),
		zap.String("status", string(req.Status)))

	if action == models.ReviewApprove {
		s.applyApprovalSideEffects(ctx, req, reviewerID)
	}

	return req, nil
}

// applyApprovalSideEffects runs the post-approval writes: preferred club,
// then the student role grant.
func (s *membershipService) applyApprovalSideEffects(ctx context.Context, req *models.MembershipRequest, reviewerID uuid.UUID) {
	if err := s.users.UpdatePreferredClub(ctx, req.UserID, req.ClubID); err != nil {
		s.logger.Error("Approved request: preferred club update failed",
			zap.String("request_id", req.ID.String()),
			zap.String("user_id", req.UserID.String()),
			zap.Error(err))
	}

	clubID := req.ClubID
	if err := s.resolver.GrantRole(ctx, req.UserID, models.RoleStudent, &clubID, reviewerID); err != nil {
		s.logger.Error("Approved request: student role grant failed",
			zap.String("request_id", req.ID.String()),
			zap.String("user_id", req.UserID.String()),
			zap.Error(err))
	}
}

// ListPending returns reviewable requests scoped to the reviewer's reach.
func (s *membershipService) ListPending(ctx context.Context, reviewerID uuid.UUID) ([]*models.MembershipRequest, error) {
	if s.resolver.IsAdminOrDeveloper(ctx, reviewerID) {
		return s.requests.ListPending(ctx, nil)
	}

	coachClub := s.resolver.ClubScopeFor(ctx, reviewerID, models.RoleCoach)
	if coachClub == nil {
		return nil, fmt.Errorf("reviewer %s: %w", reviewerID, apperrors.ErrForbidden)
	}
	return s.requests.ListPending(ctx, coachClub)
}

// authorizeReviewer checks the reviewer against the request's club.
func (s *membershipService) authorizeReviewer(ctx context.Context, reviewerID uuid.UUID, clubID uuid.UUID) error {
	if s.resolver.IsAdminOrDeveloper(ctx, reviewerID) {
		return nil
	}

	coachClub := s.resolver.ClubScopeFor(ctx, reviewerID, models.RoleCoach)
	if coachClub != nil && *coachClub == clubID {
		return nil
	}

	return fmt.Errorf("reviewer %s not authorized for club %s: %w", reviewerID, clubID, apperrors.ErrForbidden)
}

// Ensure membershipService implements MembershipService at compile time.
var _ MembershipService = (*membershipService)(nil)
