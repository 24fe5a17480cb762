package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// principalKey is the context key for the authenticated principal id.
	principalKey contextKey = "principal"
	// sessionKey is the context key for the request's session record.
	sessionKey contextKey = "session"
)

// WithPrincipal stores the authenticated principal id in the context.
func WithPrincipal(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, principalKey, userID)
}

// GetPrincipal retrieves the authenticated principal id from the context.
// Returns uuid.Nil and false if no principal is present.
func GetPrincipal(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(principalKey).(uuid.UUID)
	return id, ok
}

// WithSession stores the request's session record in the context.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSession retrieves the request's session record from the context.
func GetSession(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*models.Session)
	return session, ok
}
