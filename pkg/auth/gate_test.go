package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DevWeb31/phuong-long-sub002/pkg/config"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
)

func testRoutes() config.RoutesConfig {
	return config.RoutesConfig{
		AdminPrefix:     "/admin",
		DashboardPrefix: "/dashboard",
		APIPrefix:       "/api",
		ShopPrefix:      "/shop",
		SignInPath:      "/signin",
		SignUpPath:      "/signup",
		MaintenancePath: "/maintenance",
	}
}

func validSession() *models.Session {
	return &models.Session{
		UserID:      uuid.New(),
		AccessToken: "token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func newTestGate(resolver RoleResolver, flags FlagSource) *RouteGate {
	if resolver == nil {
		resolver = newMockResolver(99)
	}
	if flags == nil {
		flags = &mockFlags{}
	}
	return NewRouteGate(resolver, flags, testRoutes(), zap.NewNop())
}

func TestGate_NoSession_DashboardRedirectsToSignIn(t *testing.T) {
	gate := newTestGate(nil, nil)

	decision := gate.Decide(context.Background(), "/dashboard/profile", nil, nil)

	require.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, "/signin", decision.Path)
	assert.Equal(t, "/dashboard/profile", decision.Query.Get("redirect"))
}

func TestGate_CoachOnAdminPage_UnauthorizedRedirect(t *testing.T) {
	resolver := newMockResolver(2, models.RoleCoach)
	gate := newTestGate(resolver, nil)

	decision := gate.Decide(context.Background(), "/admin/clubs", validSession(), nil)

	require.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, "/dashboard", decision.Path)
	assert.Equal(t, "unauthorized", decision.Query.Get("error"))
}

func TestGate_AdminOnAdminPage_Allowed(t *testing.T) {
	resolver := newMockResolver(1, models.RoleAdmin)
	gate := newTestGate(resolver, nil)

	decision := gate.Decide(context.Background(), "/admin/clubs", validSession(), nil)

	assert.Equal(t, DecisionAllow, decision.Kind)
}

func TestGate_SignedInPrincipalBouncedFromSignIn(t *testing.T) {
	resolver := newMockResolver(1, models.RoleAdmin)
	gate := newTestGate(resolver, nil)

	decision := gate.Decide(context.Background(), "/signin", validSession(), nil)

	require.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, "/dashboard", decision.Path)
}

func TestGate_AmbiguousSessionStillReachesSignIn(t *testing.T) {
	gate := newTestGate(nil, nil)

	// Provider error: the user must still be able to re-authenticate.
	decision := gate.Decide(context.Background(), "/signin", validSession(), errors.New("provider down"))
	assert.Equal(t, DecisionAllow, decision.Kind)

	// Expired session: same.
	expired := validSession()
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	decision = gate.Decide(context.Background(), "/signin", expired, nil)
	assert.Equal(t, DecisionAllow, decision.Kind)
}

func TestGate_MaintenanceDominatesAdminUnauthorized(t *testing.T) {
	// Level-2 principal on an admin path during maintenance: rule 1 wins,
	// the maintenance redirect fires instead of the admin unauthorized one.
	resolver := newMockResolver(2, models.RoleCoach)
	flags := &mockFlags{maintenance: true}
	gate := newTestGate(resolver, flags)

	decision := gate.Decide(context.Background(), "/admin/clubs", validSession(), nil)

	require.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, "/maintenance", decision.Path)
}

func TestGate_MaintenanceRedirectsAnonymous(t *testing.T) {
	gate := newTestGate(nil, &mockFlags{maintenance: true})

	decision := gate.Decide(context.Background(), "/blog/article", nil, nil)

	require.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, "/maintenance", decision.Path)
}

func TestGate_MaintenanceLetsElevatedThrough(t *testing.T) {
	resolver := newMockResolver(1, models.RoleAdmin)
	gate := newTestGate(resolver, &mockFlags{maintenance: true})

	decision := gate.Decide(context.Background(), "/blog/article", validSession(), nil)

	assert.Equal(t, DecisionAllow, decision.Kind)
}

func TestGate_MaintenanceExemptPaths(t *testing.T) {
	gate := newTestGate(nil, &mockFlags{maintenance: true})
	ctx := context.Background()

	// The maintenance page and sign-in page stay reachable so the lockout
	// can be ended; the maintenance rule itself does not fire for them.
	assert.Equal(t, DecisionAllow, gate.Decide(ctx, "/maintenance", nil, nil).Kind)
	assert.Equal(t, DecisionAllow, gate.Decide(ctx, "/signin", nil, nil).Kind)
}

func TestGate_ShopHidden(t *testing.T) {
	flags := &mockFlags{shopHidden: true}
	ctx := context.Background()

	// Anonymous visitor: bounced to the site root.
	gate := newTestGate(nil, flags)
	decision := gate.Decide(ctx, "/shop/items", nil, nil)
	require.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, "/", decision.Path)

	// Developer: allowed unconditionally.
	gate = newTestGate(newMockResolver(0, models.RoleDeveloper), flags)
	decision = gate.Decide(ctx, "/shop/items", validSession(), nil)
	assert.Equal(t, DecisionAllow, decision.Kind)

	// Student: hidden means hidden.
	gate = newTestGate(newMockResolver(3, models.RoleStudent), flags)
	decision = gate.Decide(ctx, "/shop/items", validSession(), nil)
	require.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, "/", decision.Path)
}

func TestGate_ShopVisibleWhenFlagOff(t *testing.T) {
	gate := newTestGate(nil, nil)
	decision := gate.Decide(context.Background(), "/shop/items", nil, nil)
	assert.Equal(t, DecisionAllow, decision.Kind)
}

func TestGate_APIDeniesInsteadOfRedirecting(t *testing.T) {
	ctx := context.Background()

	// Anonymous caller on a member API path.
	gate := newTestGate(nil, nil)
	decision := gate.Decide(ctx, "/api/memberships", nil, nil)
	require.Equal(t, DecisionDeny, decision.Kind)
	assert.Equal(t, http.StatusUnauthorized, decision.Status)

	// Non-admin on an admin API path.
	gate = newTestGate(newMockResolver(3, models.RoleStudent), nil)
	decision = gate.Decide(ctx, "/api/admin/config/flags", validSession(), nil)
	require.Equal(t, DecisionDeny, decision.Kind)
	assert.Equal(t, http.StatusForbidden, decision.Status)

	// Admin on an admin API path.
	gate = newTestGate(newMockResolver(1, models.RoleAdmin), nil)
	decision = gate.Decide(ctx, "/api/admin/config/flags", validSession(), nil)
	assert.Equal(t, DecisionAllow, decision.Kind)
}

func TestGate_APIPathsExemptFromMaintenance(t *testing.T) {
	gate := newTestGate(newMockResolver(1, models.RoleAdmin), &mockFlags{maintenance: true})

	decision := gate.Decide(context.Background(), "/api/admin/config/flags", validSession(), nil)
	assert.Equal(t, DecisionAllow, decision.Kind)
}

func TestGate_ResolverFailureNeverEscalates(t *testing.T) {
	// A resolver that sees no roles (e.g. storage outage absorbed upstream)
	// must not let a session through the admin gate.
	gate := newTestGate(newMockResolver(99), nil)

	decision := gate.Decide(context.Background(), "/admin/clubs", validSession(), nil)

	require.Equal(t, DecisionRedirect, decision.Kind)
	assert.Equal(t, "/dashboard", decision.Path)
	assert.Equal(t, "unauthorized", decision.Query.Get("error"))
}

func TestGate_DefaultAllow(t *testing.T) {
	gate := newTestGate(nil, nil)

	assert.Equal(t, DecisionAllow, gate.Decide(context.Background(), "/", nil, nil).Kind)
	assert.Equal(t, DecisionAllow, gate.Decide(context.Background(), "/blog", nil, nil).Kind)
}
