package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// RecentEntriesLimit is how many entries the dashboard lists
const RecentEntriesLimit = 10

// AdminService is a read-only reporting facade over users and entries.
type AdminService struct {
	users      repository.UserRepository
	entries    repository.EntryRepository
	siteConfig *SiteConfigService
	now        func() time.Time
}

func NewAdminService(users repository.UserRepository, entries repository.EntryRepository, siteConfig *SiteConfigService) *AdminService {
	return &AdminService{users: users, entries: entries, siteConfig: siteConfig, now: time.Now}
}

// startOfDay returns UTC midnight of t's day
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Stats runs the dashboard counters concurrently.
func (s *AdminService) Stats(ctx context.Context) (models.DashboardStats, error) {
	var st models.DashboardStats
	today := startOfDay(s.now())

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, name string, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = n
			return nil
		})
	}
	count(&st.TotalUsers, "count users", s.users.Count)
	count(&st.TotalEntries, "count entries", s.entries.Count)
	count(&st.GoogleUsers, "count google users", func(ctx context.Context) (int64, error) {
		return s.users.CountByProvider(ctx, models.ProviderGoogle)
	})
	count(&st.NewUsersToday, "count new users", func(ctx context.Context) (int64, error) {
		return s.users.CountSince(ctx, today)
	})
	count(&st.EntriesToday, "count entries today", func(ctx context.Context) (int64, error) {
		return s.entries.CountSince(ctx, today)
	})
	count(&st.ActiveUsersToday, "count active users", func(ctx context.Context) (int64, error) {
		return s.entries.CountOwnersSince(ctx, today)
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, err
	}
	return st, nil
}

// Users lists every account with its entry count and sign-in provider.
func (s *AdminService) Users(ctx context.Context) ([]models.UserSummary, error) {
	var (
		users  []models.User
		counts map[uuid.UUID]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if users, err = s.users.List(gctx); err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if counts, err = s.entries.CountByOwner(gctx); err != nil {
			return fmt.Errorf("count entries by owner: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, models.UserSummary{
			ID:         u.ID,
			Email:      u.Email,
			Provider:   u.Provider,
			IsStaff:    u.IsStaff,
			IsActive:   u.IsActive,
			DateJoined: u.DateJoined,
			EntryCount: counts[u.ID],
		})
	}
	return out, nil
}

// Dashboard returns stats, the site configuration and the latest entries
// across all users.
func (s *AdminService) Dashboard(ctx context.Context) (models.Dashboard, error) {
	var (
		dash   models.Dashboard
		recent []models.Entry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := s.Stats(gctx)
		dash.Stats = st
		return err
	})
	g.Go(func() error {
		cfg, err := s.siteConfig.Load(gctx)
		dash.SiteConfig = cfg
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.entries.Recent(gctx, RecentEntriesLimit)
		if err != nil {
			return fmt.Errorf("recent entries: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.Dashboard{}, err
	}

	ids := make([]uuid.UUID, 0, len(recent))
	for _, e := range recent {
		ids = append(ids, e.UserID)
	}
	emails, err := s.users.EmailsByIDs(ctx, ids)
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("owner emails: %w", err)
	}

	dash.RecentEntries = make([]models.RecentEntry, 0, len(recent))
	for _, e := range recent {
		dash.RecentEntries = append(dash.RecentEntries, models.RecentEntry{
			ID:         e.ID,
			Title:      e.Title,
			OwnerEmail: emails[e.UserID],
			CreatedAt:  e.CreatedAt,
			IPAddress:  e.IPAddress,
		})
	}
	return dash, nil
}
