package handlers

import (
	"net/http"
	"strconv"

	"github.com/AnshRaj112/journal-backend/internal/services"
)

// ExportZip handles GET /export/zip
func (h *Handler) ExportZip(w http.ResponseWriter, r *http.Request) {
	archive, err := h.exporter.Archive(r.Context(), identity(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+services.ArchiveName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	w.WriteHeader(http.StatusOK)
	w.Write(archive)
}

type BackupResponse struct {
	Status string `json:"status"`
	URL    string `json:"url"`
}

// ExportBackup handles POST /export/backup
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	if h.backup == nil {
		writeStatusError(w, http.StatusServiceUnavailable, "Cloud backup is not configured")
		return
	}
	url, err := h.backup.Backup(r.Context(), identity(r))
	if err != nil {
		h.log.Sugar().Errorw("backup upload failed", "error", err)
		writeStatusError(w, http.StatusBadGateway, "Backup upload failed")
		return
	}
	writeJSON(w, http.StatusOK, BackupResponse{Status: "ok", URL: url})
}
