package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/DevWeb31/phuong-long-sub002/pkg/apperrors"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
)

// errNotFoundFor builds a wrapped not-found error the way repositories do.
func errNotFoundFor(what string) error {
	return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
}

// mockBindingRepo is a configurable RoleBindingRepository for tests.
type mockBindingRepo struct {
	bindings  []*models.RoleBinding
	findErr   error
	upsertErr error
	upserts   []upsertCall
}

type upsertCall struct {
	userID    uuid.UUID
	roleID    uuid.UUID
	clubID    *uuid.UUID
	grantedBy uuid.UUID
}

func (m *mockBindingRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*models.RoleBinding, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.bindings, nil
}

func (m *mockBindingRepo) Upsert(ctx context.Context, userID, roleID uuid.UUID, clubID *uuid.UUID, grantedBy uuid.UUID) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts = append(m.upserts, upsertCall{userID: userID, roleID: roleID, clubID: clubID, grantedBy: grantedBy})
	return nil
}

// mockRoleRepo resolves role names from a fixed table.
type mockRoleRepo struct {
	roles map[string]*models.Role
	err   error
}

func (m *mockRoleRepo) GetByName(ctx context.Context, name string) (*models.Role, error) {
	if m.err != nil {
		return nil, m.err
	}
	role, ok := m.roles[name]
	if !ok {
		return nil, errNotFoundFor("role")
	}
	return role, nil
}

// mockUserRepo serves a single profile.
type mockUserRepo struct {
	user             *models.User
	getErr           error
	updateErr        error
	preferredUpdates []uuid.UUID
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.user == nil {
		return nil, errNotFoundFor("user")
	}
	return m.user, nil
}

func (m *mockUserRepo) Upsert(ctx context.Context, user *models.User) error {
	return nil
}

func (m *mockUserRepo) UpdatePreferredClub(ctx context.Context, userID, clubID uuid.UUID) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.preferredUpdates = append(m.preferredUpdates, clubID)
	if m.user != nil {
		m.user.PreferredClubID = &clubID
	}
	return nil
}

// mockClubRepo serves clubs and the staff-name lookup.
type mockClubRepo struct {
	club        *models.Club
	getErr      error
	staffClubID *uuid.UUID
	staffErr    error
}

func (m *mockClubRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Club, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.club == nil {
		return nil, errNotFoundFor("club")
	}
	return m.club, nil
}

func (m *mockClubRepo) FindByStaffName(ctx context.Context, fullName string) (*uuid.UUID, error) {
	if m.staffErr != nil {
		return nil, m.staffErr
	}
	return m.staffClubID, nil
}

// mockRequestRepo serves membership request reads.
type mockRequestRepo struct {
	request          *models.MembershipRequest
	getErr           error
	latestApproved   *uuid.UUID
	latestErr        error
	updateMatched    bool
	updateErr        error
	updatedStatus    models.MembershipRequestStatus
	updatedReviewer  uuid.UUID
	pendingRequests  []*models.MembershipRequest
	listPendingErr   error
	listPendingClubs []*uuid.UUID
}

func (m *mockRequestRepo) Create(ctx context.Context, req *models.MembershipRequest) error {
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MembershipRequest, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.request == nil {
		return nil, errNotFoundFor("membership request")
	}
	return m.request, nil
}

func (m *mockRequestRepo) ListPending(ctx context.Context, clubID *uuid.UUID) ([]*models.MembershipRequest, error) {
	if m.listPendingErr != nil {
		return nil, m.listPendingErr
	}
	m.listPendingClubs = append(m.listPendingClubs, clubID)
	return m.pendingRequests, nil
}

func (m *mockRequestRepo) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, newStatus models.MembershipRequestStatus, reviewerID uuid.UUID, reviewedAt time.Time) (bool, error) {
	if m.updateErr != nil {
		return false, m.updateErr
	}
	if !m.updateMatched {
		return false, nil
	}
	m.updatedStatus = newStatus
	m.updatedReviewer = reviewerID
	return true, nil
}

func (m *mockRequestRepo) LatestApprovedClub(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	return m.latestApproved, nil
}

// mockResolver is a canned RoleResolver for gate tests.
type mockResolver struct {
	roleNames []string
	minLevel  int // lowest level held; 99 means no roles
	grantErr  error
}

func newMockResolver(minLevel int, names ...string) *mockResolver {
	return &mockResolver{roleNames: names, minLevel: minLevel}
}

func (m *mockResolver) ListRoleNames(ctx context.Context, userID uuid.UUID) []string {
	return m.roleNames
}

func (m *mockResolver) HasAnyRoleAtLevelOrBelow(ctx context.Context, userID uuid.UUID, maxLevel int) bool {
	return len(m.roleNames) > 0 && m.minLevel <= maxLevel
}

func (m *mockResolver) IsAdminOrDeveloper(ctx context.Context, userID uuid.UUID) bool {
	for _, name := range m.roleNames {
		if name == models.RoleAdmin || name == models.RoleDeveloper {
			return true
		}
	}
	return false
}

func (m *mockResolver) ClubScopeFor(ctx context.Context, userID uuid.UUID, roleName string) *uuid.UUID {
	return nil
}

func (m *mockResolver) EffectiveClubID(ctx context.Context, userID uuid.UUID) *uuid.UUID {
	return nil
}

func (m *mockResolver) GrantRole(ctx context.Context, userID uuid.UUID, roleName string, clubID *uuid.UUID, grantedBy uuid.UUID) error {
	return m.grantErr
}

// mockFlags is a fixed FlagSource.
type mockFlags struct {
	maintenance bool
	shopHidden  bool
}

func (m *mockFlags) MaintenanceEnabled(ctx context.Context) bool { return m.maintenance }
func (m *mockFlags) ShopHidden(ctx context.Context) bool         { return m.shopHidden }
