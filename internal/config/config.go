package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EntryStorePostgres = "postgres"
	EntryStoreMongo    = "mongo"
	EntryStoreMemory   = "memory"

	ExportFormatText = "text"
	ExportFormatHTML = "html"
)

type Config struct {
	Environment         string   // ENV: production, development, etc.
	Port                string
	PublicURL           string   // Base URL used in password reset links
	PostgresURI         string
	RedisURI            string
	MongoURI            string
	EntryStore          string   // postgres, mongo or memory
	ExportFormat        string   // text or html
	AllowedOrigins      []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	SessionTTL          time.Duration
	ProxyTimeout        time.Duration
	TranslateURL        string
	GeminiAPIKey        string
	GeminiModel         string
	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	AdminEmail          string
	AdminPassword       string
}

// fileConfig is the optional YAML overlay. Every field maps onto an env key;
// values from the environment always win.
type fileConfig map[string]string

// Load reads configuration from the environment, falling back to the YAML
// file named by CONFIG_FILE and then to built-in defaults.
func Load() (*Config, error) {
	overlay, err := loadOverlay(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}
	get := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		if v, ok := overlay[key]; ok && v != "" {
			return v
		}
		return def
	}

	sessionTTL, err := time.ParseDuration(get("SESSION_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	proxyTimeout, err := time.ParseDuration(get("PROXY_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROXY_TIMEOUT: %w", err)
	}

	allowedOrigins := parseOrigins(get("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{get("FRONTEND_URL", "http://localhost:3000")}
	}

	cfg := &Config{
		Environment:         strings.ToLower(strings.TrimSpace(get("ENV", "development"))),
		Port:                get("PORT", "8080"),
		PublicURL:           strings.TrimRight(get("PUBLIC_URL", "http://localhost:8080"), "/"),
		PostgresURI:         get("POSTGRES_URI", "postgres://localhost:5432/journal?sslmode=disable"),
		RedisURI:            get("REDIS_URI", "redis://localhost:6379/0"),
		MongoURI:            get("MONGODB_URI", get("MONGO_URI", "mongodb://localhost:27017/journal")),
		EntryStore:          strings.ToLower(get("ENTRY_STORE", EntryStorePostgres)),
		ExportFormat:        strings.ToLower(get("EXPORT_FORMAT", ExportFormatText)),
		AllowedOrigins:      allowedOrigins,
		SessionTTL:          sessionTTL,
		ProxyTimeout:        proxyTimeout,
		TranslateURL:        get("TRANSLATE_URL", "https://translate.googleapis.com/translate_a/single"),
		GeminiAPIKey:        get("GEMINI_API_KEY", ""),
		GeminiModel:         get("GEMINI_MODEL", "gemini-2.0-flash"),
		CloudinaryName:      get("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    get("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: get("CLOUDINARY_API_SECRET", ""),
		AdminEmail:          get("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:       get("ADMIN_PASSWORD", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.EntryStore {
	case EntryStorePostgres, EntryStoreMongo, EntryStoreMemory:
	default:
		return fmt.Errorf("unknown ENTRY_STORE %q", c.EntryStore)
	}
	switch c.ExportFormat {
	case ExportFormatText, ExportFormatHTML:
	default:
		return fmt.Errorf("unknown EXPORT_FORMAT %q", c.ExportFormat)
	}
	if c.ProxyTimeout <= 0 {
		return fmt.Errorf("PROXY_TIMEOUT must be positive")
	}
	return nil
}

func loadOverlay(path string) (fileConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CloudinaryEnabled reports whether all Cloudinary credentials are present.
func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}
