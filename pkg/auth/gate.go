package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DevWeb31/phuong-long-sub002/pkg/config"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
)

// DecisionKind is the terminal outcome of a gating decision.
type DecisionKind int

const (
	DecisionAllow DecisionKind = iota
	DecisionRedirect
	DecisionDeny
)

// Decision is the route gate's verdict for one request.
type Decision struct {
	Kind DecisionKind
	// Path and Query describe the redirect target when Kind is
	// DecisionRedirect.
	Path  string
	Query url.Values
	// Status and Reason describe the denial when Kind is DecisionDeny.
	Status int
	Reason string
}

// Allow is the pass-through decision.
func Allow() Decision {
	return Decision{Kind: DecisionAllow}
}

// RedirectTo builds a redirect decision.
func RedirectTo(path string, query url.Values) Decision {
	return Decision{Kind: DecisionRedirect, Path: path, Query: query}
}

// DenyWith builds a deny decision for machine clients.
func DenyWith(status int, reason string) Decision {
	return Decision{Kind: DecisionDeny, Status: status, Reason: reason}
}

// FlagSource reads the site-wide flags. Implementations must re-read from
// configuration storage on every call; the flags can change at runtime and
// a stale read is acceptable for at most one read cycle.
type FlagSource interface {
	MaintenanceEnabled(ctx context.Context) bool
	ShopHidden(ctx context.Context) bool
}

// RouteGate is the per-request policy decision point. It combines the
// session verdict, resolver queries, route classification and the global
// flags into a single decision, evaluated in a fixed precedence order.
type RouteGate struct {
	resolver RoleResolver
	flags    FlagSource
	routes   config.RoutesConfig
	logger   *zap.Logger
}

// NewRouteGate creates a RouteGate.
func NewRouteGate(resolver RoleResolver, flags FlagSource, routes config.RoutesConfig, logger *zap.Logger) *RouteGate {
	return &RouteGate{
		resolver: resolver,
		flags:    flags,
		routes:   routes,
		logger:   logger,
	}
}

// Decide evaluates the gating rules for a request path, first match wins:
//
//  1. Maintenance kill-switch: during maintenance only elevated principals
//     (level <= staff) pass; everyone else is sent to the maintenance page.
//     The maintenance page, the sign-in page and the API surface stay
//     reachable so the lockout can be administered and ended.
//  2. Dashboard pages require a usable session.
//  3. Admin pages additionally require the admin or developer role; a
//     failed role check redirects to the dashboard with an "unauthorized"
//     marker so the client renders a distinct message.
//  4. Shop pages are hidden behind the shop flag, except for developers.
//  5. Sign-in/sign-up redirect already-authenticated principals to the
//     dashboard; ambiguous session state falls through to Allow so a user
//     with a broken session can always reach the login form.
//  6. Everything else is allowed.
//
// API paths get DENY instead of REDIRECT: machine clients need status
// codes, not login pages.
func (g *RouteGate) Decide(ctx context.Context, path string, session *models.Session, providerErr error) Decision {
	usable := SessionUsable(session, providerErr)
	var userID uuid.UUID
	if session != nil {
		userID = session.UserID
	}

	// Rule 1: maintenance dominates everything, including admin pages; an
	// admin passes on role, not on path.
	if !underPrefix(path, g.routes.APIPrefix) &&
		path != g.routes.MaintenancePath &&
		path != g.routes.SignInPath &&
		g.flags.MaintenanceEnabled(ctx) {

		elevated := usable && g.resolver.HasAnyRoleAtLevelOrBelow(ctx, userID, models.LevelStaff)
		if !elevated {
			return RedirectTo(g.routes.MaintenancePath, nil)
		}
	}

	// Rules 2+3: authenticated and administrative page areas.
	if underPrefix(path, g.routes.AdminPrefix) {
		if !usable {
			return g.signInRedirect(path)
		}
		if !g.resolver.IsAdminOrDeveloper(ctx, userID) {
			g.logger.Debug("Admin area refused",
				zap.String("path", path),
				zap.String("user_id", userID.String()))
			return RedirectTo(g.routes.DashboardPrefix, url.Values{"error": {"unauthorized"}})
		}
		return Allow()
	}
	if underPrefix(path, g.routes.DashboardPrefix) {
		if !usable {
			return g.signInRedirect(path)
		}
	}

	// API areas mirror the page gates with DENY outcomes.
	if decision, matched := g.decideAPI(ctx, path, usable, userID); matched {
		return decision
	}

	// Rule 4: hidden shop, developers excepted.
	if underPrefix(path, g.routes.ShopPrefix) && g.flags.ShopHidden(ctx) {
		if !usable || !g.holdsRole(ctx, userID, models.RoleDeveloper) {
			return RedirectTo("/", nil)
		}
		return Allow()
	}

	// Rule 5: reverse-auth gate. Only a cleanly usable session bounces to
	// the dashboard; anything ambiguous must still reach the login form.
	if path == g.routes.SignInPath || path == g.routes.SignUpPath {
		if usable && providerErr == nil {
			return RedirectTo(g.routes.DashboardPrefix, nil)
		}
		return Allow()
	}

	return Allow()
}

// decideAPI gates the API surface. The second return value reports whether
// an API rule matched the path.
func (g *RouteGate) decideAPI(ctx context.Context, path string, usable bool, userID uuid.UUID) (Decision, bool) {
	adminAPI := g.routes.APIPrefix + g.routes.AdminPrefix
	if underPrefix(path, adminAPI) {
		if !usable {
			return DenyWith(http.StatusUnauthorized, "not_authenticated"), true
		}
		if !g.resolver.IsAdminOrDeveloper(ctx, userID) {
			return DenyWith(http.StatusForbidden, "forbidden"), true
		}
		return Allow(), true
	}

	memberAPI := g.routes.APIPrefix + "/memberships"
	if underPrefix(path, memberAPI) {
		if !usable {
			return DenyWith(http.StatusUnauthorized, "not_authenticated"), true
		}
		return Allow(), true
	}

	return Decision{}, false
}

// signInRedirect preserves the original path as a return target.
func (g *RouteGate) signInRedirect(path string) Decision {
	return RedirectTo(g.routes.SignInPath, url.Values{"redirect": {path}})
}

// holdsRole reports whether the principal holds the named role in any scope.
func (g *RouteGate) holdsRole(ctx context.Context, userID uuid.UUID, roleName string) bool {
	for _, name := range g.resolver.ListRoleNames(ctx, userID) {
		if name == roleName {
			return true
		}
	}
	return false
}

// underPrefix reports whether path is the prefix itself or nested below it.
func underPrefix(path, prefix string) bool {
	if prefix == "" {
		return false
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
