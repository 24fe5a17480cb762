package identity

import (
	"crypto/sha256"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/sessions"
)

// SessionCookieName is the name of the session-reference cookie.
const SessionCookieName = "pl_session"

// Session cookie value keys.
const (
	cookieKeyAccessToken  = "access_token"
	cookieKeyRefreshToken = "refresh_token"
	cookieKeyExpiresAt    = "expires_at"
)

// CookieStore holds the provider session reference between requests.
// The cookie carries the access credential, not the authentication decision;
// every request re-verifies the credential against the provider keys.
type CookieStore struct {
	store *sessions.CookieStore
}

// NewCookieStore builds the cookie store. The secret can be any passphrase;
// it is SHA-256 hashed to derive a 32-byte signing key and must be
// consistent across restarts and replicas. Secure is derived from the base
// URL scheme so local HTTP development works.
func NewCookieStore(secret, baseURL, cookieDomain string) *CookieStore {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   cookieDomain,
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   isHTTPS(baseURL),
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: store}
}

// SessionReference is the raw credential material read from the cookie.
type SessionReference struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Read extracts the session reference from the request cookie.
// A missing or empty cookie yields (nil, nil): no session, no error.
// A cookie that fails signature validation is an error.
func (c *CookieStore) Read(r *http.Request) (*SessionReference, error) {
	sess, err := c.store.Get(r, SessionCookieName)
	if err != nil {
		return nil, err
	}

	token, _ := sess.Values[cookieKeyAccessToken].(string)
	if token == "" {
		return nil, nil
	}

	ref := &SessionReference{AccessToken: token}
	ref.RefreshToken, _ = sess.Values[cookieKeyRefreshToken].(string)
	if unix, ok := sess.Values[cookieKeyExpiresAt].(int64); ok {
		ref.ExpiresAt = time.Unix(unix, 0)
	}
	return ref, nil
}

// Write stores the session reference in the response cookie.
func (c *CookieStore) Write(w http.ResponseWriter, r *http.Request, ref *SessionReference) error {
	sess, _ := c.store.Get(r, SessionCookieName)
	sess.Values[cookieKeyAccessToken] = ref.AccessToken
	sess.Values[cookieKeyRefreshToken] = ref.RefreshToken
	if !ref.ExpiresAt.IsZero() {
		sess.Values[cookieKeyExpiresAt] = ref.ExpiresAt.Unix()
	}
	return sess.Save(r, w)
}

// Clear removes the session cookie. Called at sign-out.
func (c *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := c.store.Get(r, SessionCookieName)
	sess.Values = make(map[interface{}]interface{})
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// isHTTPS reports whether the base URL uses HTTPS. Empty or invalid URLs
// default to true (secure).
func isHTTPS(baseURL string) bool {
	if baseURL == "" {
		return true
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return true
	}
	return parsed.Scheme != "http"
}
