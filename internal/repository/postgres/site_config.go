package postgres

import (
	"context"
	"database/sql"

	"github.com/AnshRaj112/journal-backend/internal/models"
)

type SiteConfigRepository struct {
	db *sql.DB
}

func NewSiteConfigRepository(db *sql.DB) *SiteConfigRepository {
	return &SiteConfigRepository{db: db}
}

func (r *SiteConfigRepository) GetOrCreate(ctx context.Context, defaults models.SiteConfiguration) (models.SiteConfiguration, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO site_configuration (id, site_name, maintenance_mode, allow_registration, welcome_message, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO NOTHING
	`, models.SiteConfigurationID, defaults.SiteName, defaults.MaintenanceMode, defaults.AllowRegistration, defaults.WelcomeMessage)
	if err != nil {
		return models.SiteConfiguration{}, err
	}

	var cfg models.SiteConfiguration
	err = r.db.QueryRowContext(ctx, `
		SELECT id, site_name, maintenance_mode, allow_registration, welcome_message, updated_at
		FROM site_configuration
		WHERE id = $1
	`, models.SiteConfigurationID).Scan(&cfg.ID, &cfg.SiteName, &cfg.MaintenanceMode, &cfg.AllowRegistration, &cfg.WelcomeMessage, &cfg.UpdatedAt)
	return cfg, err
}

func (r *SiteConfigRepository) Save(ctx context.Context, cfg models.SiteConfiguration) (models.SiteConfiguration, error) {
	cfg.ID = models.SiteConfigurationID
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO site_configuration (id, site_name, maintenance_mode, allow_registration, welcome_message, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			site_name = EXCLUDED.site_name,
			maintenance_mode = EXCLUDED.maintenance_mode,
			allow_registration = EXCLUDED.allow_registration,
			welcome_message = EXCLUDED.welcome_message,
			updated_at = NOW()
		RETURNING updated_at
	`, cfg.ID, cfg.SiteName, cfg.MaintenanceMode, cfg.AllowRegistration, cfg.WelcomeMessage).Scan(&cfg.UpdatedAt)
	if err != nil {
		return models.SiteConfiguration{}, err
	}
	return cfg, nil
}

func (r *SiteConfigRepository) Count(ctx context.Context) (int64, error) {
	return countQuery(ctx, r.db, `SELECT COUNT(*) FROM site_configuration`)
}
