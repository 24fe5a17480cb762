// Package auth is the per-request authorization core: the session usability
// predicate, the role resolver, and the route gate that combines them with
// the site-wide flags into an allow/redirect/deny decision.
package auth

import (
	"time"

	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
)

// SessionUsable reports whether a presented session is currently usable.
// providerErr is the error, if any, from fetching the session. Any
// ambiguity (absent session, empty credential, missing or past expiry,
// provider error) evaluates to not usable.
//
// The predicate is pure and must be re-evaluated on every gating decision;
// expiry is time-dependent and sessions are never cached across requests.
func SessionUsable(session *models.Session, providerErr error) bool {
	return SessionUsableAt(session, providerErr, time.Now())
}

// SessionUsableAt is SessionUsable evaluated against an explicit clock.
func SessionUsableAt(session *models.Session, providerErr error, now time.Time) bool {
	if providerErr != nil {
		return false
	}
	if session == nil {
		return false
	}
	if session.AccessToken == "" {
		return false
	}
	if session.ExpiresAt.IsZero() {
		return false
	}
	return session.ExpiresAt.After(now)
}
