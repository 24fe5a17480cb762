package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/DevWeb31/phuong-long-sub002/pkg/identity"
)

// Middleware runs the route gate in front of every handler. It is thin and
// delegates the session fetch to the identity provider and the decision to
// the RouteGate.
type Middleware struct {
	provider identity.Provider
	gate     *RouteGate
	logger   *zap.Logger
}

// NewMiddleware creates the gate middleware.
func NewMiddleware(provider identity.Provider, gate *RouteGate, logger *zap.Logger) *Middleware {
	return &Middleware{
		provider: provider,
		gate:     gate,
		logger:   logger,
	}
}

// Gate wraps a handler with the per-request decision. Sessions are fetched
// fresh on every request; nothing is cached across requests. On ALLOW the
// principal and session are placed in the context for downstream handlers.
func (m *Middleware) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.provider.CurrentSession(r)

		decision := m.gate.Decide(r.Context(), r.URL.Path, session, err)

		switch decision.Kind {
		case DecisionRedirect:
			target := decision.Path
			if len(decision.Query) > 0 {
				target += "?" + decision.Query.Encode()
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return

		case DecisionDeny:
			m.deny(w, decision)
			return
		}

		ctx := r.Context()
		if SessionUsable(session, err) {
			ctx = WithPrincipal(ctx, session.UserID)
			ctx = WithSession(ctx, session)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// deny writes the JSON error body for machine clients.
func (m *Middleware) deny(w http.ResponseWriter, decision Decision) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(decision.Status)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": decision.Reason,
	}); err != nil {
		m.logger.Error("Failed to write deny response", zap.Error(err))
	}
}
