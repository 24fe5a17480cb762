package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/DevWeb31/phuong-long-sub002/pkg/services"
)

// SiteFlagsResponse for GET /api/admin/config/flags
type SiteFlagsResponse struct {
	MaintenanceMode bool `json:"maintenance_mode"`
	ShopHidden      bool `json:"shop_hidden"`
}

// UpdateSiteFlagsRequest for PUT /api/admin/config/flags. Omitted fields
// are left unchanged.
type UpdateSiteFlagsRequest struct {
	MaintenanceMode *bool `json:"maintenance_mode,omitempty"`
	ShopHidden      *bool `json:"shop_hidden,omitempty"`
}

// SiteConfigHandler handles site-wide flag administration. Access control
// lives in the route gate: these endpoints sit under the admin API prefix.
type SiteConfigHandler struct {
	flags  *services.SiteFlags
	logger *zap.Logger
}

// NewSiteConfigHandler creates a new site config handler.
func NewSiteConfigHandler(flags *services.SiteFlags, logger *zap.Logger) *SiteConfigHandler {
	return &SiteConfigHandler{flags: flags, logger: logger}
}

// RegisterRoutes registers the site config handler's routes on the given mux.
func (h *SiteConfigHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/admin/config/flags", h.GetFlags)
	mux.HandleFunc("PUT /api/admin/config/flags", h.UpdateFlags)
}

// GetFlags handles GET /api/admin/config/flags
func (h *SiteConfigHandler) GetFlags(w http.ResponseWriter, r *http.Request) {
	maintenance, shopHidden, err := h.flags.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("Failed to read site flags", zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "read_flags_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := SiteFlagsResponse{
		MaintenanceMode: maintenance,
		ShopHidden:      shopHidden,
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateFlags handles PUT /api/admin/config/flags
func (h *SiteConfigHandler) UpdateFlags(w http.ResponseWriter, r *http.Request) {
	var req UpdateSiteFlagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if req.MaintenanceMode != nil {
		if err := h.flags.SetMaintenance(r.Context(), *req.MaintenanceMode); err != nil {
			h.logger.Error("Failed to update maintenance flag", zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "update_flags_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
	}

	if req.ShopHidden != nil {
		if err := h.flags.SetShopHidden(r.Context(), *req.ShopHidden); err != nil {
			h.logger.Error("Failed to update shop flag", zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "update_flags_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
	}

	h.GetFlags(w, r)
}
