package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository"
	"go.uber.org/zap"
)

// siteConfigCacheKey is the fixed name the singleton is cached under
var siteConfigCacheKey = CacheKey("site_config", "singleton")

// DefaultSiteConfigMemoryTTL bounds how long another process's write can go
// unseen by this one.
const DefaultSiteConfigMemoryTTL = 30 * time.Second

// SiteConfigService owns the site configuration singleton. Reads go memory,
// then Redis, then storage. Writes go to storage first and then refresh both
// caches, so a process always reads its own last write.
type SiteConfigService struct {
	repo  repository.SiteConfigRepository
	cache *CacheService
	log   *zap.Logger

	memoryTTL time.Duration
	now       func() time.Time

	writeMu   sync.Mutex
	mu        sync.RWMutex
	current   *models.SiteConfiguration
	loadedAt  time.Time
	gen       uint64
	lastSaved time.Time // UpdatedAt of this process's latest write
}

func NewSiteConfigService(repo repository.SiteConfigRepository, cache *CacheService, log *zap.Logger) *SiteConfigService {
	return &SiteConfigService{
		repo:      repo,
		cache:     cache,
		log:       log,
		memoryTTL: DefaultSiteConfigMemoryTTL,
		now:       time.Now,
	}
}

// Load returns the singleton, creating it with defaults when absent.
func (s *SiteConfigService) Load(ctx context.Context) (models.SiteConfiguration, error) {
	s.mu.RLock()
	if s.current != nil && s.now().Sub(s.loadedAt) < s.memoryTTL {
		cfg := *s.current
		s.mu.RUnlock()
		return cfg, nil
	}
	gen, lastSaved := s.gen, s.lastSaved
	s.mu.RUnlock()

	var cached models.SiteConfiguration
	hit, err := s.cache.Get(ctx, siteConfigCacheKey, &cached)
	if err != nil {
		s.log.Warn("site config cache read failed", zap.Error(err))
	}
	// A cached row older than our own last write is stale.
	if hit && cached.UpdatedAt.Before(lastSaved) {
		hit = false
	}
	if hit {
		s.remember(cached, gen)
		return cached, nil
	}

	cfg, err := s.repo.GetOrCreate(ctx, models.DefaultSiteConfiguration())
	if err != nil {
		return models.SiteConfiguration{}, fmt.Errorf("load site configuration: %w", err)
	}
	if s.remember(cfg, gen) {
		s.storeCache(ctx, cfg)
	}
	return cfg, nil
}

// Update applies the present fields and persists them into the singleton
// slot. The stored id is always the singleton id.
func (s *SiteConfigService) Update(ctx context.Context, upd models.SiteConfigurationUpdate) (models.SiteConfiguration, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	cfg, err := s.repo.GetOrCreate(ctx, models.DefaultSiteConfiguration())
	if err != nil {
		return models.SiteConfiguration{}, fmt.Errorf("load site configuration: %w", err)
	}
	upd.Apply(&cfg)
	return s.save(ctx, cfg)
}

// Replace stores cfg as the singleton whatever id it carries.
func (s *SiteConfigService) Replace(ctx context.Context, cfg models.SiteConfiguration) (models.SiteConfiguration, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.save(ctx, cfg)
}

// SetMaintenance toggles maintenance mode.
func (s *SiteConfigService) SetMaintenance(ctx context.Context, on bool) (models.SiteConfiguration, error) {
	return s.Update(ctx, models.SiteConfigurationUpdate{MaintenanceMode: &on})
}

// Delete is a no-op. The singleton is never removed.
func (s *SiteConfigService) Delete(ctx context.Context) error {
	s.log.Info("ignoring request to delete site configuration")
	return nil
}

func (s *SiteConfigService) save(ctx context.Context, cfg models.SiteConfiguration) (models.SiteConfiguration, error) {
	cfg.ID = models.SiteConfigurationID
	cfg.UpdatedAt = s.now().UTC()
	saved, err := s.repo.Save(ctx, cfg)
	if err != nil {
		return models.SiteConfiguration{}, fmt.Errorf("save site configuration: %w", err)
	}

	s.mu.Lock()
	s.gen++
	s.current = &saved
	s.loadedAt = s.now()
	s.lastSaved = saved.UpdatedAt
	s.mu.Unlock()

	s.storeCache(ctx, saved)
	return saved, nil
}

// remember stores cfg in memory unless a write landed after the read began.
func (s *SiteConfigService) remember(cfg models.SiteConfiguration, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.current = &cfg
	s.loadedAt = s.now()
	return true
}

func (s *SiteConfigService) storeCache(ctx context.Context, cfg models.SiteConfiguration) {
	if err := s.cache.Set(ctx, siteConfigCacheKey, cfg); err != nil {
		s.log.Warn("site config cache write failed", zap.Error(err))
		if err := s.cache.Delete(ctx, siteConfigCacheKey); err != nil {
			s.log.Warn("site config cache evict failed", zap.Error(err))
		}
	}
}
