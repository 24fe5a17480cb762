package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DevWeb31/phuong-long-sub002/pkg/apperrors"
	"github.com/DevWeb31/phuong-long-sub002/pkg/auth"
	"github.com/DevWeb31/phuong-long-sub002/pkg/models"
	"github.com/DevWeb31/phuong-long-sub002/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// ApplyRequest for POST /api/memberships
type ApplyRequest struct {
	ClubID string `json:"club_id"`
}

// ReviewRequest for POST /api/memberships/{id}/review
type ReviewRequest struct {
	Action string `json:"action"`
}

// PendingListResponse for GET /api/memberships/pending
type PendingListResponse struct {
	Requests []*models.MembershipRequest `json:"requests"`
	Total    int                         `json:"total"`
}

// ============================================================================
// Handler
// ============================================================================

// MembershipHandler handles membership request HTTP endpoints.
type MembershipHandler struct {
	membershipService services.MembershipService
	logger            *zap.Logger
}

// NewMembershipHandler creates a new membership handler.
func NewMembershipHandler(
	membershipService services.MembershipService,
	logger *zap.Logger,
) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		logger:            logger,
	}
}

// RegisterRoutes registers the membership handler's routes on the given mux.
// The review and listing endpoints sit outside the admin path prefix because
// coaches review their own club's requests; the service layer enforces who
// may review what.
func (h *MembershipHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/memberships", h.Apply)
	mux.HandleFunc("GET /api/memberships/pending", h.ListPending)
	mux.HandleFunc("POST /api/memberships/{id}/review", h.Review)
}

// Apply handles POST /api/memberships
func (h *MembershipHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetPrincipal(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "not_authenticated", "Sign in to apply for membership"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	clubID, err := uuid.Parse(req.ClubID)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_club_id", "club_id must be a valid UUID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	created, err := h.membershipService.Apply(r.Context(), userID, clubID)
	if err != nil {
		h.writeMembershipError(w, err, "apply_failed")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: created}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListPending handles GET /api/memberships/pending
func (h *MembershipHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetPrincipal(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "not_authenticated", "Authentication required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	requests, err := h.membershipService.ListPending(r.Context(), userID)
	if err != nil {
		h.writeMembershipError(w, err, "list_pending_failed")
		return
	}

	response := PendingListResponse{
		Requests: requests,
		Total:    len(requests),
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Review handles POST /api/memberships/{id}/review
func (h *MembershipHandler) Review(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetPrincipal(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "not_authenticated", "Authentication required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	requestID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request_id", "Request ID must be a valid UUID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	action := models.ReviewAction(req.Action)
	if !action.Valid() {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_action", "Action must be approve or reject"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	reviewed, err := h.membershipService.Review(r.Context(), requestID, userID, action)
	if err != nil {
		h.writeMembershipError(w, err, "review_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: reviewed}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeMembershipError maps service errors to HTTP responses.
func (h *MembershipHandler) writeMembershipError(w http.ResponseWriter, err error, fallbackCode string) {
	var writeErr error
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		writeErr = ErrorResponse(w, http.StatusNotFound, "request_not_found", "Membership request not found")
	case errors.Is(err, apperrors.ErrForbidden):
		writeErr = ErrorResponse(w, http.StatusForbidden, "forbidden", "You are not allowed to perform this action")
	case errors.Is(err, apperrors.ErrAlreadyReviewed):
		writeErr = ErrorResponse(w, http.StatusConflict, "already_reviewed", "This request has already been reviewed")
	case errors.Is(err, apperrors.ErrConflict):
		writeErr = ErrorResponse(w, http.StatusConflict, "duplicate_request", "A pending request for this club already exists")
	case errors.Is(err, apperrors.ErrInactiveClub):
		writeErr = ErrorResponse(w, http.StatusUnprocessableEntity, "club_inactive", "This club is not accepting members")
	default:
		h.logger.Error("Membership operation failed", zap.Error(err))
		writeErr = ErrorResponse(w, http.StatusInternalServerError, fallbackCode, err.Error())
	}
	if writeErr != nil {
		h.logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}
