package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/AnshRaj112/journal-backend/internal/middleware"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// MaintenanceBody is served with 503 while maintenance mode is on
const MaintenanceBody = "<h1>Maintenance Mode</h1><p>We are currently upgrading the system. Please try again later.</p>"

type indexData struct {
	SiteName       string
	WelcomeMessage string
	Email          string
}

// Index handles GET /. Non-staff callers get 503 during maintenance.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.siteConfig.Load(r.Context())
	if err != nil {
		h.log.Sugar().Errorw("load site configuration", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	id, authed := middleware.IdentityFrom(r.Context())
	if cfg.MaintenanceMode && !(authed && id.IsStaff) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Retry-After", "3600")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(MaintenanceBody))
		return
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, indexData{
		SiteName:       cfg.SiteName,
		WelcomeMessage: cfg.WelcomeMessage,
		Email:          id.Email,
	}); err != nil {
		h.log.Sugar().Errorw("render index", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
