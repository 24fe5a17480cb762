package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DevWeb31/phuong-long-sub002/pkg/apperrors"
	"github.com/DevWeb31/phuong-long-sub002/pkg/identity"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
)

// mockMembershipService records calls and returns scripted results.
type mockMembershipService struct {
	applyResult *models.MembershipRequest
	applyErr    error
	reviewFn    func(requestID, reviewerID uuid.UUID, action models.ReviewAction) (*models.MembershipRequest, error)
	pending     []*models.MembershipRequest
	pendingErr  error

	appliedUser uuid.UUID
	appliedClub uuid.UUID
}

func (m *mockMembershipService) Apply(ctx context.Context, userID, clubID uuid.UUID) (*models.MembershipRequest, error) {
	m.appliedUser = userID
	m.appliedClub = clubID
	if m.applyErr != nil {
		return nil, m.applyErr
	}
	return m.applyResult, nil
}

func (m *mockMembershipService) Review(ctx context.Context, requestID, reviewerID uuid.UUID, action models.ReviewAction) (*models.MembershipRequest, error) {
	return m.reviewFn(requestID, reviewerID, action)
}

func (m *mockMembershipService) ListPending(ctx context.Context, reviewerID uuid.UUID) ([]*models.MembershipRequest, error) {
	if m.pendingErr != nil {
		return nil, m.pendingErr
	}
	return m.pending, nil
}

// mockVerifier returns scripted claims without touching JWKS.
type mockVerifier struct {
	claims *identity.Claims
	err    error
}

func (m *mockVerifier) VerifyAccessToken(tokenString string) (*identity.Claims, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

type mockUserRepo struct {
	users     map[uuid.UUID]*models.User
	upserted  []*models.User
	upsertErr error
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) Upsert(ctx context.Context, user *models.User) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted = append(m.upserted, user)
	return nil
}

func (m *mockUserRepo) UpdatePreferredClub(ctx context.Context, userID, clubID uuid.UUID) error {
	return nil
}

type mockResolver struct {
	roles     map[uuid.UUID][]string
	homeClubs map[uuid.UUID]*uuid.UUID
}

func (m *mockResolver) ListRoleNames(ctx context.Context, userID uuid.UUID) []string {
	return m.roles[userID]
}

func (m *mockResolver) HasAnyRoleAtLevelOrBelow(ctx context.Context, userID uuid.UUID, maxLevel int) bool {
	return false
}

func (m *mockResolver) IsAdminOrDeveloper(ctx context.Context, userID uuid.UUID) bool {
	return false
}

func (m *mockResolver) ClubScopeFor(ctx context.Context, userID uuid.UUID, roleName string) *uuid.UUID {
	return nil
}

func (m *mockResolver) EffectiveClubID(ctx context.Context, userID uuid.UUID) *uuid.UUID {
	return m.homeClubs[userID]
}

func (m *mockResolver) GrantRole(ctx context.Context, userID uuid.UUID, roleName string, clubID *uuid.UUID, grantedBy uuid.UUID) error {
	return nil
}

type mockSiteConfigRepo struct {
	flags  map[string]bool
	getErr error
	setErr error
}

func (m *mockSiteConfigRepo) GetFlag(ctx context.Context, key string) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	return m.flags[key], nil
}

func (m *mockSiteConfigRepo) SetFlag(ctx context.Context, key string, value bool) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.flags == nil {
		m.flags = make(map[string]bool)
	}
	m.flags[key] = value
	return nil
}

func pendingFixture() *models.MembershipRequest {
	return &models.MembershipRequest{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		ClubID:      uuid.New(),
		Status:      models.MembershipPending,
		RequestedAt: time.Now(),
	}
}
