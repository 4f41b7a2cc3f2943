package services

import (
	"context"
	"testing"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdminService_StatsAndDashboard(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	users := memory.NewUserRepository()
	entries := memory.NewEntryRepository()
	siteConfig := NewSiteConfigService(memory.NewSiteConfigRepository(), NewCacheService(nil), zap.NewNop())

	alice := models.User{ID: uuid.New(), Email: "alice@example.com", Provider: models.ProviderEmail, DateJoined: yesterday}
	bob := models.User{ID: uuid.New(), Email: "bob@example.com", Provider: models.ProviderGoogle, DateJoined: now.Add(-time.Hour)}
	require.NoError(t, users.Create(ctx, &alice))
	require.NoError(t, users.Create(ctx, &bob))

	ip := "10.0.0.5"
	for i, e := range []models.Entry{
		{UserID: alice.ID, Title: "old", CreatedAt: yesterday},
		{UserID: alice.ID, Title: "a1", CreatedAt: now.Add(-3 * time.Hour)},
		{UserID: alice.ID, Title: "a2", CreatedAt: now.Add(-2 * time.Hour)},
		{UserID: bob.ID, Title: "b1", CreatedAt: now.Add(-time.Hour), IPAddress: &ip},
	} {
		e := e
		require.NoError(t, entries.Create(ctx, &e), "entry %d", i)
	}

	svc := NewAdminService(users, entries, siteConfig)
	svc.now = fixedClock(now)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DashboardStats{
		TotalUsers:       2,
		TotalEntries:     4,
		GoogleUsers:      1,
		NewUsersToday:    1,
		EntriesToday:     3,
		ActiveUsersToday: 2,
	}, st)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, st, dash.Stats)
	assert.Equal(t, models.SiteConfigurationID, dash.SiteConfig.ID)
	require.Len(t, dash.RecentEntries, 4)
	assert.Equal(t, "b1", dash.RecentEntries[0].Title)
	assert.Equal(t, "bob@example.com", dash.RecentEntries[0].OwnerEmail)
	require.NotNil(t, dash.RecentEntries[0].IPAddress)
	assert.Equal(t, "alice@example.com", dash.RecentEntries[3].OwnerEmail)
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	got := startOfDay(time.Date(2024, 6, 10, 2, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), got)
}

func TestAdminService_Users(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	entries := memory.NewEntryRepository()
	siteConfig := NewSiteConfigService(memory.NewSiteConfigRepository(), NewCacheService(nil), zap.NewNop())
	joined := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	writer := models.User{ID: uuid.New(), Email: "writer@example.com", Provider: models.ProviderGoogle, IsActive: true, DateJoined: joined}
	idle := models.User{ID: uuid.New(), Email: "idle@example.com", Provider: models.ProviderEmail, IsStaff: true, IsActive: true, DateJoined: joined.Add(time.Hour)}
	require.NoError(t, users.Create(ctx, &writer))
	require.NoError(t, users.Create(ctx, &idle))
	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, entries.Create(ctx, &models.Entry{UserID: writer.ID, Title: title, CreatedAt: joined}))
	}

	list, err := NewAdminService(users, entries, siteConfig).Users(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, models.UserSummary{
		ID: idle.ID, Email: "idle@example.com", Provider: models.ProviderEmail,
		IsStaff: true, IsActive: true, DateJoined: idle.DateJoined, EntryCount: 0,
	}, list[0])
	assert.Equal(t, "writer@example.com", list[1].Email)
	assert.Equal(t, models.ProviderGoogle, list[1].Provider)
	assert.Equal(t, int64(3), list[1].EntryCount)
}
