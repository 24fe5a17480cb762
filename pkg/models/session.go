package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the provider-issued proof that a principal is currently
// authenticated. It is fetched fresh on every request; expiry is evaluated
// against the wall clock at decision time, never cached.
type Session struct {
	UserID      uuid.UUID `json:"user_id"`
	AccessToken string    `json:"access_token"`
	// ExpiresAt is the credential expiry. The zero value means the provider
	// did not report one, which makes the session unusable.
	ExpiresAt time.Time `json:"expires_at"`
}
