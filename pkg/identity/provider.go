package identity

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DevWeb31/phuong-long-sub002/pkg/apperrors"
	"github.com/DevWeb31/phuong-long-sub002/pkg/logging"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
)

// Provider fetches the current session for an incoming request.
// The (nil, nil) return means "no session presented"; a non-nil error means
// the provider or the presented material failed, which downstream treats as
// an unusable session.
type Provider interface {
	CurrentSession(r *http.Request) (*models.Session, error)
}

// cookieProvider resolves sessions from the session-reference cookie and
// verifies the access credential against the provider keys on every call.
type cookieProvider struct {
	cookies  *CookieStore
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewProvider creates a Provider backed by the cookie store and verifier.
func NewProvider(cookies *CookieStore, verifier TokenVerifier, logger *zap.Logger) Provider {
	return &cookieProvider{
		cookies:  cookies,
		verifier: verifier,
		logger:   logger,
	}
}

// CurrentSession reads the session reference cookie, verifies the access
// token, and materializes the session record.
func (p *cookieProvider) CurrentSession(r *http.Request) (*models.Session, error) {
	ref, err := p.cookies.Read(r)
	if err != nil {
		p.logger.Debug("Session cookie rejected",
			zap.String("path", r.URL.Path),
			zap.String("reason", logging.SanitizeError(err)))
		return nil, fmt.Errorf("read session cookie: %v: %w", err, apperrors.ErrNotAuthenticated)
	}
	if ref == nil {
		return nil, nil
	}

	claims, err := p.verifier.VerifyAccessToken(ref.AccessToken)
	if err != nil {
		p.logger.Debug("Access token verification failed",
			zap.String("path", r.URL.Path),
			zap.String("reason", logging.SanitizeError(err)))
		return nil, fmt.Errorf("verify access token: %v: %w", err, apperrors.ErrNotAuthenticated)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject in access token: %v: %w", err, apperrors.ErrNotAuthenticated)
	}

	session := &models.Session{
		UserID:      userID,
		AccessToken: ref.AccessToken,
		ExpiresAt:   ref.ExpiresAt,
	}
	// The cookie expiry is the provider's word; fall back to the token's own
	// exp claim when the cookie predates the expires_at field.
	if session.ExpiresAt.IsZero() && claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session, nil
}

var _ Provider = (*cookieProvider)(nil)
