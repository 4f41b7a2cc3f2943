package handlers

import (
	"io"
	"net/http"

	"github.com/AnshRaj112/journal-backend/internal/models"
)

// AdminStats handles GET /api/admin/stats
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.admin.Stats(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// AdminDashboard handles GET /api/admin/dashboard
func (h *Handler) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.admin.Dashboard(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// AdminUsers handles GET /api/admin/users
func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.Users(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type MaintenanceRequest struct {
	MaintenanceMode bool `json:"maintenance_mode"`
}

type MaintenanceResponse struct {
	Success         bool   `json:"success"`
	MaintenanceMode bool   `json:"maintenance_mode"`
	Message         string `json:"message"`
}

// ToggleMaintenance handles POST /api/admin/maintenance. A missing flag
// turns maintenance off.
func (h *Handler) ToggleMaintenance(w http.ResponseWriter, r *http.Request) {
	var req MaintenanceRequest
	if err := decodeJSON(w, r, &req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, MaintenanceResponse{Success: false, Message: err.Error()})
		return
	}
	cfg, err := h.siteConfig.SetMaintenance(r.Context(), req.MaintenanceMode)
	if err != nil {
		h.log.Sugar().Errorw("toggle maintenance", "error", err)
		writeJSON(w, http.StatusInternalServerError, MaintenanceResponse{Success: false, Message: "Failed to update maintenance mode"})
		return
	}

	msg := "Maintenance mode disabled"
	if cfg.MaintenanceMode {
		msg = "Maintenance mode enabled"
	}
	writeJSON(w, http.StatusOK, MaintenanceResponse{
		Success:         true,
		MaintenanceMode: cfg.MaintenanceMode,
		Message:         msg,
	})
}

// GetSiteConfig handles GET /api/admin/config
func (h *Handler) GetSiteConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.siteConfig.Load(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// UpdateSiteConfig handles PUT /api/admin/config. Any id in the body is
// ignored.
func (h *Handler) UpdateSiteConfig(w http.ResponseWriter, r *http.Request) {
	var upd models.SiteConfigurationUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeStatusError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg, err := h.siteConfig.Update(r.Context(), upd)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// DeleteSiteConfig handles DELETE /api/admin/config. It never removes the
// configuration.
func (h *Handler) DeleteSiteConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.siteConfig.Delete(r.Context()); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok", Message: "Site configuration cannot be deleted"})
}
