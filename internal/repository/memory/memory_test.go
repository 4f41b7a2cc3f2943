package memory

import (
	"context"
	"testing"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryRepository_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository()
	alice, bob := uuid.New(), uuid.New()
	now := time.Now()

	e := &models.Entry{UserID: alice, Title: "a", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, e))

	_, err := repo.GetOwned(ctx, bob, e.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &models.Entry{ID: e.ID, UserID: bob, Title: "x"}), repository.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteOwned(ctx, bob, e.ID), repository.ErrNotFound)

	list, err := repo.ListByOwner(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := repo.GetOwned(ctx, alice, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)
}

func TestEntryRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewEntryRepository()
	owner := uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	offsets := map[string]time.Duration{"old": 0, "mid": time.Hour, "new": 2 * time.Hour}
	for _, title := range []string{"old", "new", "mid"} {
		require.NoError(t, repo.Create(ctx, &models.Entry{UserID: owner, Title: title, CreatedAt: base.Add(offsets[title])}))
	}

	list, err := repo.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{list[0].Title, list[1].Title, list[2].Title})

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
	assert.Equal(t, "new", recent[0].Title)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.Create(ctx, &models.User{ID: uuid.New(), Email: "a@example.com"}))
	err := repo.Create(ctx, &models.User{ID: uuid.New(), Email: "a@example.com"})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestSiteConfigRepository_Singleton(t *testing.T) {
	ctx := context.Background()
	repo := NewSiteConfigRepository()

	n, _ := repo.Count(ctx)
	assert.Zero(t, n)

	cfg, err := repo.GetOrCreate(ctx, models.DefaultSiteConfiguration())
	require.NoError(t, err)
	assert.Equal(t, models.SiteConfigurationID, cfg.ID)

	saved, err := repo.Save(ctx, models.SiteConfiguration{ID: 9, SiteName: "Other"})
	require.NoError(t, err)
	assert.Equal(t, models.SiteConfigurationID, saved.ID)

	n, _ = repo.Count(ctx)
	assert.Equal(t, int64(1), n)
}

func TestPasswordResetRepository_Latest(t *testing.T) {
	ctx := context.Background()
	repo := NewPasswordResetRepository()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Insert(ctx, &models.PasswordResetRequest{Email: "a@example.com", RequestedAt: t0.Add(time.Hour)}))
	require.NoError(t, repo.Insert(ctx, &models.PasswordResetRequest{Email: "a@example.com", RequestedAt: t0}))
	require.NoError(t, repo.Insert(ctx, &models.PasswordResetRequest{Email: "b@example.com", RequestedAt: t0.Add(5 * time.Hour)}))

	latest, err := repo.Latest(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, t0.Add(time.Hour), latest.RequestedAt)

	_, err = repo.Latest(ctx, "c@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	n, _ := repo.CountByEmail(ctx, "a@example.com")
	assert.Equal(t, int64(2), n)
}

func TestUserRepository_ListAndEntryCounts(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	entries := NewEntryRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	old := models.User{ID: uuid.New(), Email: "old@example.com", DateJoined: base}
	recent := models.User{ID: uuid.New(), Email: "new@example.com", DateJoined: base.Add(time.Hour)}
	require.NoError(t, users.Create(ctx, &old))
	require.NoError(t, users.Create(ctx, &recent))
	for i := 0; i < 2; i++ {
		require.NoError(t, entries.Create(ctx, &models.Entry{UserID: old.ID, CreatedAt: base}))
	}

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new@example.com", list[0].Email)

	counts, err := entries.CountByOwner(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int64{old.ID: 2}, counts)
}
