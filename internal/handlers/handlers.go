// Package handlers holds the HTTP handlers of the journal service. Handlers
// take the caller's identity from the request context once and pass it
// explicitly to the services.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/middleware"
	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository"
	"github.com/AnshRaj112/journal-backend/internal/services"
	"github.com/AnshRaj112/journal-backend/pkg/utils"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 5 << 20

// Translator proxies text translation
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// GrammarChecker proxies grammar correction
type GrammarChecker interface {
	Check(ctx context.Context, text string) (string, error)
}

// Backuper uploads a user's export archive and returns its URL
type Backuper interface {
	Backup(ctx context.Context, owner models.Identity) (string, error)
}

// Deps are the collaborators of Handler. Backup may be nil when cloud
// backup is not configured.
type Deps struct {
	Entries    *services.EntryService
	Exporter   *services.Exporter
	Backup     Backuper
	SiteConfig *services.SiteConfigService
	Auth       *services.AuthService
	Admin      *services.AdminService
	Translator Translator
	Grammar    GrammarChecker
	Log        *zap.Logger

	SessionTTL   time.Duration
	SecureCookie bool
}

type Handler struct {
	entries    *services.EntryService
	exporter   *services.Exporter
	backup     Backuper
	siteConfig *services.SiteConfigService
	auth       *services.AuthService
	admin      *services.AdminService
	translator Translator
	grammar    GrammarChecker
	log        *zap.Logger

	sessionTTL   time.Duration
	secureCookie bool
}

func New(d Deps) *Handler {
	return &Handler{
		entries:      d.Entries,
		exporter:     d.Exporter,
		backup:       d.Backup,
		siteConfig:   d.SiteConfig,
		auth:         d.Auth,
		admin:        d.Admin,
		translator:   d.Translator,
		grammar:      d.Grammar,
		log:          d.Log,
		sessionTTL:   d.SessionTTL,
		secureCookie: d.SecureCookie,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StatusResponse is the {status, message} envelope used by the entry, auth
// and config endpoints.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func writeStatusError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, StatusResponse{Status: "error", Message: message})
}

// decodeJSON reads a bounded JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// identity returns the caller resolved by the auth middleware. Routes that
// call it are mounted behind RequireAuth.
func identity(r *http.Request) models.Identity {
	id, _ := middleware.IdentityFrom(r.Context())
	return id
}

// writeServiceError maps service errors onto the status codes of the API and
// logs anything unexpected.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *utils.ValidationError
	switch {
	case errors.As(err, &verr):
		writeStatusError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, repository.ErrNotFound):
		writeStatusError(w, http.StatusNotFound, "not found or no permission")
	case errors.Is(err, repository.ErrEmailTaken):
		writeStatusError(w, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeStatusError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrInactiveAccount):
		writeStatusError(w, http.StatusForbidden, "This account has been disabled")
	case errors.Is(err, services.ErrRegistrationClosed):
		writeStatusError(w, http.StatusForbidden, "Registration is currently closed")
	case errors.Is(err, services.ErrInvalidToken):
		writeStatusError(w, http.StatusBadRequest, "Reset link is invalid or has expired")
	case errors.Is(err, services.ErrResetBusy):
		writeStatusError(w, http.StatusConflict, "A reset request for this email is already being processed")
	default:
		h.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeStatusError(w, http.StatusInternalServerError, "Internal server error")
	}
}
