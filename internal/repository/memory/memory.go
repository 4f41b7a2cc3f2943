// Package memory keeps repository data in-process. It backs the
// ENTRY_STORE=memory development mode and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository"
	"github.com/google/uuid"
)

// EntryRepository keeps entries in a map keyed by id.
type EntryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[int64]models.Entry
}

func NewEntryRepository() *EntryRepository {
	return &EntryRepository{entries: make(map[int64]models.Entry)}
}

// sortNewestFirst orders by created_at desc, then id desc for equal timestamps.
func sortNewestFirst(list []models.Entry) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}

func (r *EntryRepository) ListByOwner(_ context.Context, userID uuid.UUID) ([]models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Entry{}
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *EntryRepository) GetOwned(_ context.Context, userID uuid.UUID, id int64) (models.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return models.Entry{}, repository.ErrNotFound
	}
	return e, nil
}

func (r *EntryRepository) Create(_ context.Context, e *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	e.ID = r.nextID
	r.entries[e.ID] = *e
	return nil
}

func (r *EntryRepository) Update(_ context.Context, e *models.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.entries[e.ID]
	if !ok || cur.UserID != e.UserID {
		return repository.ErrNotFound
	}
	cur.Title = e.Title
	cur.Content = e.Content
	cur.Duration = e.Duration
	cur.IPAddress = e.IPAddress
	cur.UpdatedAt = e.UpdatedAt
	r.entries[e.ID] = cur
	return nil
}

func (r *EntryRepository) DeleteOwned(_ context.Context, userID uuid.UUID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || e.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *EntryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.entries)), nil
}

func (r *EntryRepository) CountSince(_ context.Context, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, e := range r.entries {
		if !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *EntryRepository) CountOwnersSince(_ context.Context, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owners := make(map[uuid.UUID]struct{})
	for _, e := range r.entries {
		if !e.CreatedAt.Before(since) {
			owners[e.UserID] = struct{}{}
		}
	}
	return int64(len(owners)), nil
}

func (r *EntryRepository) Recent(_ context.Context, limit int) ([]models.Entry, error) {
	r.mu.RLock()
	all := make([]models.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		all = append(all, e)
	}
	r.mu.RUnlock()
	sortNewestFirst(all)
	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *EntryRepository) CountByOwner(_ context.Context) (map[uuid.UUID]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uuid.UUID]int64)
	for _, e := range r.entries {
		out[e.UserID]++
	}
	return out, nil
}

// UserRepository keeps accounts keyed by id with an email index.
type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
	email map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[uuid.UUID]models.User),
		email: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.email[u.Email]; exists {
		return repository.ErrEmailTaken
	}
	r.users[u.ID] = *u
	r.email[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.email[email]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return r.users[id], nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

func (r *UserRepository) EmailsByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u.Email
		}
	}
	return out, nil
}

func (r *UserRepository) List(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	list := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		list = append(list, u)
	}
	r.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if !list[i].DateJoined.Equal(list[j].DateJoined) {
			return list[i].DateJoined.After(list[j].DateJoined)
		}
		return list[i].Email < list[j].Email
	})
	return list, nil
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *UserRepository) CountSince(_ context.Context, since time.Time) (int64, error) {
	return r.countWhere(func(u models.User) bool { return !u.DateJoined.Before(since) }), nil
}

func (r *UserRepository) CountByProvider(_ context.Context, provider string) (int64, error) {
	return r.countWhere(func(u models.User) bool { return u.Provider == provider }), nil
}

func (r *UserRepository) countWhere(pred func(models.User) bool) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, u := range r.users {
		if pred(u) {
			n++
		}
	}
	return n
}

// SiteConfigRepository holds at most one configuration row.
type SiteConfigRepository struct {
	mu  sync.Mutex
	cfg *models.SiteConfiguration
}

func NewSiteConfigRepository() *SiteConfigRepository {
	return &SiteConfigRepository{}
}

func (r *SiteConfigRepository) GetOrCreate(_ context.Context, defaults models.SiteConfiguration) (models.SiteConfiguration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg == nil {
		cfg := defaults
		cfg.ID = models.SiteConfigurationID
		cfg.UpdatedAt = time.Now().UTC()
		r.cfg = &cfg
	}
	return *r.cfg, nil
}

func (r *SiteConfigRepository) Save(_ context.Context, cfg models.SiteConfiguration) (models.SiteConfiguration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg.ID = models.SiteConfigurationID
	cfg.UpdatedAt = time.Now().UTC()
	r.cfg = &cfg
	return cfg, nil
}

func (r *SiteConfigRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg == nil {
		return 0, nil
	}
	return 1, nil
}

// PasswordResetRepository is an append-only slice of requests.
type PasswordResetRepository struct {
	mu       sync.RWMutex
	nextID   int64
	requests []models.PasswordResetRequest
}

func NewPasswordResetRepository() *PasswordResetRepository {
	return &PasswordResetRepository{}
}

func (r *PasswordResetRepository) Latest(_ context.Context, email string) (models.PasswordResetRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *models.PasswordResetRequest
	for i := range r.requests {
		req := &r.requests[i]
		if req.Email != email {
			continue
		}
		if latest == nil || req.RequestedAt.After(latest.RequestedAt) {
			latest = req
		}
	}
	if latest == nil {
		return models.PasswordResetRequest{}, repository.ErrNotFound
	}
	return *latest, nil
}

func (r *PasswordResetRepository) Insert(_ context.Context, req *models.PasswordResetRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	req.ID = r.nextID
	r.requests = append(r.requests, *req)
	return nil
}

func (r *PasswordResetRepository) CountByEmail(_ context.Context, email string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, req := range r.requests {
		if req.Email == email {
			n++
		}
	}
	return n, nil
}

var (
	_ repository.EntryRepository         = (*EntryRepository)(nil)
	_ repository.UserRepository          = (*UserRepository)(nil)
	_ repository.SiteConfigRepository    = (*SiteConfigRepository)(nil)
	_ repository.PasswordResetRepository = (*PasswordResetRepository)(nil)
)
