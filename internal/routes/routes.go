package routes

import (
	"net/http"

	"github.com/AnshRaj112/journal-backend/internal/handlers"
	"github.com/AnshRaj112/journal-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RouterConfig carries what the router needs beyond the handlers
type RouterConfig struct {
	Handler        *handlers.Handler
	Resolver       middleware.IdentityResolver
	Redis          *redis.Client // nil disables the proxy rate limit
	Log            *zap.Logger
	AllowedOrigins []string
	Production     bool
	AllowedHost    string
}

// NewRouter builds the chi router with global middleware and all routes.
func NewRouter(c RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(c.Log))
	r.Use(middleware.CORS(c.AllowedOrigins))
	if c.Production {
		for _, mw := range middleware.ProductionSecurity(c.AllowedHost) {
			r.Use(mw)
		}
	}
	r.Use(middleware.Authenticate(c.Resolver, c.Log))

	r.Get("/health", handlers.Health)
	SetupRoutes(r, c)
	return r
}

func SetupRoutes(r chi.Router, c RouterConfig) {
	h := c.Handler

	// Front door
	r.Get("/", h.Index)

	// Auth routes
	r.Post("/api/auth/signup", h.Signup)
	r.Post("/api/auth/signin", h.Signin)
	r.Post("/api/auth/signout", h.Signout)
	r.With(middleware.RequireAuth).Get("/api/auth/me", h.Me)
	r.Post("/api/auth/password-reset", h.RequestPasswordReset)
	r.Post("/api/auth/password-reset/confirm", h.ConfirmPasswordReset)

	// Journal routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/api/entries", h.ListEntries)
		r.Post("/api/entries", h.SaveEntry)
		r.Delete("/api/entries/{id}", h.DeleteEntry)
		r.Post("/api/entries/{id}/delete", h.DeleteEntry)
		r.Get("/export/zip", h.ExportZip)
		r.Post("/export/backup", h.ExportBackup)
	})

	// Proxy routes
	r.Group(func(r chi.Router) {
		if c.Redis != nil {
			r.Use(middleware.RedisRateLimit(c.Redis, "proxy",
				middleware.ProxyRateLimitMaxRequests, middleware.ProxyRateLimitWindow, c.Log))
		}
		r.Get("/api/translate", h.Translate)
		r.Post("/api/ai/grammar", h.Grammar)
	})

	// Admin routes
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.RequireStaff)
		r.Get("/stats", h.AdminStats)
		r.Get("/dashboard", h.AdminDashboard)
		r.Get("/users", h.AdminUsers)
		r.Post("/maintenance", h.ToggleMaintenance)
		r.Get("/config", h.GetSiteConfig)
		r.Put("/config", h.UpdateSiteConfig)
		r.Delete("/config", h.DeleteSiteConfig)
	})
}
