package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteConfigRepository_GetOrCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSiteConfigRepository(db)
	defaults := models.DefaultSiteConfiguration()
	now := time.Now().UTC()

	mock.ExpectExec(`INSERT INTO site_configuration .* ON CONFLICT \(id\) DO NOTHING`).
		WithArgs(1, defaults.SiteName, false, true, defaults.WelcomeMessage).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM site_configuration\s+WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "site_name", "maintenance_mode", "allow_registration", "welcome_message", "updated_at"}).
			AddRow(1, defaults.SiteName, false, true, defaults.WelcomeMessage, now))

	cfg, err := repo.GetOrCreate(context.Background(), defaults)
	require.NoError(t, err)
	assert.Equal(t, models.SiteConfigurationID, cfg.ID)
	assert.Equal(t, defaults.SiteName, cfg.SiteName)
}

func TestSiteConfigRepository_Save_ForcesSingletonID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSiteConfigRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO site_configuration .* ON CONFLICT \(id\) DO UPDATE SET .* RETURNING updated_at`).
		WithArgs(1, "Diary", true, false, "hi").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	cfg, err := repo.Save(context.Background(), models.SiteConfiguration{ID: 42, SiteName: "Diary", MaintenanceMode: true, WelcomeMessage: "hi"})
	require.NoError(t, err)
	assert.Equal(t, models.SiteConfigurationID, cfg.ID)
	assert.Equal(t, now, cfg.UpdatedAt)
}
