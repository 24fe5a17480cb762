package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DevWeb31/phuong-long-sub002/pkg/apperrors"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
	"github.com/DevWeb31/phuong-long-sub002/pkg/repositories"
)

// RoleResolver computes the effective (role, club-scope) set for a principal
// and owns the write side of role grants.
//
// Read methods fail closed: any persistence error is logged and treated as
// "no roles", so a storage outage can never escalate privileges. GrantRole
// surfaces errors to the caller so the membership workflow can report
// partial failure instead of fabricating success.
type RoleResolver interface {
	// ListRoleNames returns all role names held by the principal across all
	// scopes, deduplicated, most privileged first.
	ListRoleNames(ctx context.Context, userID uuid.UUID) []string

	// HasAnyRoleAtLevelOrBelow reports whether at least one bound role has
	// level <= maxLevel.
	HasAnyRoleAtLevelOrBelow(ctx context.Context, userID uuid.UUID, maxLevel int) bool

	// IsAdminOrDeveloper reports whether the principal holds the admin or
	// developer role.
	IsAdminOrDeveloper(ctx context.Context, userID uuid.UUID) bool

	// ClubScopeFor resolves the club a principal's specific role is scoped
	// to. Resolution order: explicit club scope on the binding, then the
	// profile's preferred club, then a best-effort staff-name lookup, then
	// nil.
	ClubScopeFor(ctx context.Context, userID uuid.UUID, roleName string) *uuid.UUID

	// EffectiveClubID resolves the principal's home club for display:
	// an active student binding's club, then the profile's preferred club,
	// then the most recent approved membership request's club, then nil.
	EffectiveClubID(ctx context.Context, userID uuid.UUID) *uuid.UUID

	// GrantRole grants a role as an idempotent upsert keyed on
	// (user, role, club).
	GrantRole(ctx context.Context, userID uuid.UUID, roleName string, clubID *uuid.UUID, grantedBy uuid.UUID) error
}

// roleResolver implements RoleResolver over the persistence repositories.
type roleResolver struct {
	bindings repositories.RoleBindingRepository
	roles    repositories.RoleRepository
	users    repositories.UserRepository
	clubs    repositories.ClubRepository
	requests repositories.MembershipRequestRepository
	logger   *zap.Logger
}

// NewRoleResolver creates a RoleResolver backed by the given repositories.
func NewRoleResolver(
	bindings repositories.RoleBindingRepository,
	roles repositories.RoleRepository,
	users repositories.UserRepository,
	clubs repositories.ClubRepository,
	requests repositories.MembershipRequestRepository,
	logger *zap.Logger,
) RoleResolver {
	return &roleResolver{
		bindings: bindings,
		roles:    roles,
		users:    users,
		clubs:    clubs,
		requests: requests,
		logger:   logger,
	}
}

// activeBindings loads the principal's bindings, dropping expired ones.
// Errors default to the empty set.
func (r *roleResolver) activeBindings(ctx context.Context, userID uuid.UUID) []*models.RoleBinding {
	bindings, err := r.bindings.FindByUser(ctx, userID)
	if err != nil {
		r.logger.Warn("Role binding lookup failed, treating as no roles",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil
	}

	now := time.Now()
	active := bindings[:0]
	for _, b := range bindings {
		if !b.Expired(now) {
			active = append(active, b)
		}
	}
	return active
}

// ListRoleNames returns the deduplicated role names for a principal.
func (r *roleResolver) ListRoleNames(ctx context.Context, userID uuid.UUID) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, b := range r.activeBindings(ctx, userID) {
		if _, ok := seen[b.RoleName]; ok {
			continue
		}
		seen[b.RoleName] = struct{}{}
		names = append(names, b.RoleName)
	}
	return names
}

// HasAnyRoleAtLevelOrBelow reports whether any binding sits at or below the
// given level.
func (r *roleResolver) HasAnyRoleAtLevelOrBelow(ctx context.Context, userID uuid.UUID, maxLevel int) bool {
	for _, b := range r.activeBindings(ctx, userID) {
		if b.RoleLevel <= maxLevel {
			return true
		}
	}
	return false
}

// IsAdminOrDeveloper reports whether the principal is elevated.
func (r *roleResolver) IsAdminOrDeveloper(ctx context.Context, userID uuid.UUID) bool {
	for _, name := range r.ListRoleNames(ctx, userID) {
		if name == models.RoleAdmin || name == models.RoleDeveloper {
			return true
		}
	}
	return false
}

// ClubScopeFor resolves the club scope of a specific role.
func (r *roleResolver) ClubScopeFor(ctx context.Context, userID uuid.UUID, roleName string) *uuid.UUID {
	var holdsRole bool
	for _, b := range r.activeBindings(ctx, userID) {
		if b.RoleName != roleName {
			continue
		}
		holdsRole = true
		if b.ClubID != nil {
			return b.ClubID
		}
	}
	if !holdsRole {
		return nil
	}

	// The binding exists but carries no scope; fall back to profile data.
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		r.logger.Warn("Profile lookup failed during club scope resolution",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil
	}
	if user.PreferredClubID != nil {
		return user.PreferredClubID
	}

	// Last resort: fuzzy match against the staff roster.
	clubID, err := r.clubs.FindByStaffName(ctx, user.FullName)
	if err != nil {
		r.logger.Warn("Staff-name club lookup failed",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil
	}
	return clubID
}

// EffectiveClubID resolves the principal's home club for display purposes.
func (r *roleResolver) EffectiveClubID(ctx context.Context, userID uuid.UUID) *uuid.UUID {
	for _, b := range r.activeBindings(ctx, userID) {
		if b.RoleName == models.RoleStudent && b.ClubID != nil {
			return b.ClubID
		}
	}

	user, err := r.users.GetByID(ctx, userID)
	if err == nil && user.PreferredClubID != nil {
		return user.PreferredClubID
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		r.logger.Warn("Profile lookup failed during home club resolution",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	clubID, err := r.requests.LatestApprovedClub(ctx, userID)
	if err != nil {
		r.logger.Warn("Approved request lookup failed during home club resolution",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil
	}
	return clubID
}

// GrantRole grants a role to a principal as an idempotent upsert.
func (r *roleResolver) GrantRole(ctx context.Context, userID uuid.UUID, roleName string, clubID *uuid.UUID, grantedBy uuid.UUID) error {
	role, err := r.roles.GetByName(ctx, roleName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: %s", apperrors.ErrInvalidRole, roleName)
		}
		return fmt.Errorf("failed to resolve role %q: %w", roleName, err)
	}

	if err := r.bindings.Upsert(ctx, userID, role.ID, clubID, grantedBy); err != nil {
		return fmt.Errorf("failed to grant role %q: %w", roleName, err)
	}

	return nil
}

// Ensure roleResolver implements RoleResolver at compile time.
var _ RoleResolver = (*roleResolver)(nil)
