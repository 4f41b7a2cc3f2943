package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/handlers"
	"github.com/AnshRaj112/journal-backend/internal/routes"
	"github.com/AnshRaj112/journal-backend/internal/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	handler, auth, err := buildHandler(ctx, st)
	if err != nil {
		return err
	}

	if cfg.AdminPassword != "" {
		created, err := auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Warn("Failed to ensure admin account", zap.Error(err))
		} else if created {
			log.Info("Created admin account", zap.String("email", cfg.AdminEmail))
		}
	}

	router := routes.NewRouter(routes.RouterConfig{
		Handler:        handler,
		Resolver:       auth,
		Redis:          st.Redis,
		Log:            log,
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
		AllowedHost:    allowedHost(cfg.PublicURL),
	})
	if cfg.IsProduction() {
		log.Info("Production security enabled (security headers, host check, per-IP and login rate limiting)")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Journal backend running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// buildHandler wires services onto the opened stores
func buildHandler(ctx context.Context, st *stores) (*handlers.Handler, *services.AuthService, error) {
	formatter, err := services.NewFormatter(cfg.ExportFormat)
	if err != nil {
		return nil, nil, err
	}

	siteConfig := services.NewSiteConfigService(st.SiteConfig, services.NewCacheService(st.Redis), log)
	auth := services.NewAuthService(services.AuthDeps{
		Users:      st.Users,
		Sessions:   services.NewSessionStore(st.Redis, cfg.SessionTTL),
		SiteConfig: siteConfig,
		Limiter:    services.NewPasswordResetLimiter(st.ResetLog, st.Redis, log),
		Mailer:     services.NewLogMailer(log),
		Redis:      st.Redis,
		PublicURL:  cfg.PublicURL,
		Log:        log,
	})
	exporter := services.NewExporter(st.Entries, formatter)

	grammar, err := services.NewGrammarChecker(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ProxyTimeout)
	if err != nil {
		return nil, nil, err
	}
	if !grammar.Configured() {
		log.Warn("GEMINI_API_KEY not set. Grammar check will not be available")
	}

	deps := handlers.Deps{
		Entries:      services.NewEntryService(st.Entries, log),
		Exporter:     exporter,
		SiteConfig:   siteConfig,
		Auth:         auth,
		Admin:        services.NewAdminService(st.Users, st.Entries, siteConfig),
		Translator:   services.NewTranslator(cfg.TranslateURL, cfg.ProxyTimeout),
		Grammar:      grammar,
		Log:          log,
		SessionTTL:   cfg.SessionTTL,
		SecureCookie: cfg.IsProduction(),
	}

	if cfg.CloudinaryEnabled() {
		backup, err := services.NewBackupService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, exporter)
		if err != nil {
			log.Warn("Failed to initialize Cloudinary. Cloud backup will not be available", zap.Error(err))
		} else {
			deps.Backup = backup
			log.Info("Cloudinary backup enabled")
		}
	} else {
		log.Warn("Cloudinary credentials not found. Cloud backup will not be available")
	}

	return handlers.New(deps), auth, nil
}

// allowedHost is the host the production host check accepts
func allowedHost(publicURL string) string {
	u, err := url.Parse(publicURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
