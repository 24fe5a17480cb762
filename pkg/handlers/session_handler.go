package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DevWeb31/phuong-long-sub002/pkg/auth"
	"github.com/DevWeb31/phuong-long-sub002/pkg/identity"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
	"github.com/DevWeb31/phuong-long-sub002/pkg/repositories"
)

// EstablishSessionRequest for POST /api/auth/session. The frontend obtains
// tokens from the identity provider and hands them over so the backend can
// set the HTTP-only session cookie.
type EstablishSessionRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
}

// SessionResponse for GET and POST /api/auth/session. ClubID is the
// principal's home club for display, resolved from scoped bindings,
// preferred club or the latest approved membership.
type SessionResponse struct {
	UserID    string     `json:"user_id"`
	Email     string     `json:"email,omitempty"`
	Roles     []string   `json:"roles"`
	ClubID    *uuid.UUID `json:"club_id,omitempty"`
	ExpiresAt int64      `json:"expires_at"`
}

// SessionHandler establishes and tears down the session cookie.
type SessionHandler struct {
	cookies  *identity.CookieStore
	verifier identity.TokenVerifier
	users    repositories.UserRepository
	resolver auth.RoleResolver
	logger   *zap.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(
	cookies *identity.CookieStore,
	verifier identity.TokenVerifier,
	users repositories.UserRepository,
	resolver auth.RoleResolver,
	logger *zap.Logger,
) *SessionHandler {
	return &SessionHandler{
		cookies:  cookies,
		verifier: verifier,
		users:    users,
		resolver: resolver,
		logger:   logger,
	}
}

// RegisterRoutes registers the session handler's routes on the given mux.
func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/session", h.Establish)
	mux.HandleFunc("GET /api/auth/session", h.Current)
	mux.HandleFunc("DELETE /api/auth/session", h.Destroy)
}

// Establish handles POST /api/auth/session.
// Verifies the provided access token, mirrors the identity into the local
// profile table and sets the session cookie.
func (h *SessionHandler) Establish(w http.ResponseWriter, r *http.Request) {
	var req EstablishSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if req.AccessToken == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "missing_token", "access_token is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	claims, err := h.verifier.VerifyAccessToken(req.AccessToken)
	if err != nil {
		h.logger.Warn("Session establishment with invalid token", zap.Error(err))
		if err := ErrorResponse(w, http.StatusUnauthorized, "invalid_token", "Access token verification failed"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		if err := ErrorResponse(w, http.StatusUnauthorized, "invalid_token", "Token subject is not a valid user ID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	expiresAt := time.Unix(req.ExpiresAt, 0)
	if req.ExpiresAt == 0 && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	// Best effort: a failed profile mirror must not block sign-in, it only
	// degrades profile-based fallbacks until the next session.
	profile := &models.User{ID: userID, Email: claims.Email, FullName: claims.FullName}
	if err := h.users.Upsert(r.Context(), profile); err != nil {
		h.logger.Error("Failed to mirror profile on sign-in",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	ref := &identity.SessionReference{
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		ExpiresAt:    expiresAt,
	}
	if err := h.cookies.Write(w, r, ref); err != nil {
		h.logger.Error("Failed to write session cookie", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "session_write_failed", "Could not establish session"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := SessionResponse{
		UserID:    userID.String(),
		Email:     claims.Email,
		Roles:     h.resolver.ListRoleNames(r.Context(), userID),
		ClubID:    h.resolver.EffectiveClubID(r.Context(), userID),
		ExpiresAt: expiresAt.Unix(),
	}
	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Current handles GET /api/auth/session.
// Returns the signed-in principal and their roles, or 401.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetPrincipal(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "not_authenticated", "No active session"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := SessionResponse{
		UserID: userID.String(),
		Roles:  h.resolver.ListRoleNames(r.Context(), userID),
		ClubID: h.resolver.EffectiveClubID(r.Context(), userID),
	}
	if session, ok := auth.GetSession(r.Context()); ok {
		response.ExpiresAt = session.ExpiresAt.Unix()
	}
	if user, err := h.users.GetByID(r.Context(), userID); err == nil {
		response.Email = user.Email
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Destroy handles DELETE /api/auth/session.
// Clearing is idempotent: signing out without a session still succeeds.
func (h *SessionHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := h.cookies.Clear(w, r); err != nil {
		h.logger.Error("Failed to clear session cookie", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "session_clear_failed", "Could not clear session"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "signed_out"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
