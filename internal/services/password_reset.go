package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository"
	"github.com/AnshRaj112/journal-backend/pkg/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// PasswordResetWindow is the rolling window in which one reset request is granted per email
	PasswordResetWindow = 24 * time.Hour
	// ResetLockKeyPrefix is the Redis key prefix for the per-email check-and-record lock
	ResetLockKeyPrefix = "reset_lock:"
	resetLockTTL       = 10 * time.Second
)

// ErrResetBusy is returned when another request for the same email holds the lock
var ErrResetBusy = errors.New("password reset already in progress")

// ResetDecision is the outcome of a throttle check. Remaining is zero when
// the request is eligible.
type ResetDecision struct {
	Eligible  bool
	Remaining time.Duration
}

// RemainingParts splits Remaining into whole hours and leftover minutes.
func (d ResetDecision) RemainingParts() (hours, minutes int) {
	hours = int(d.Remaining / time.Hour)
	minutes = int((d.Remaining % time.Hour) / time.Minute)
	return hours, minutes
}

// Message is the user-facing explanation of a throttled decision.
func (d ResetDecision) Message() string {
	if d.Eligible {
		return ""
	}
	h, m := d.RemainingParts()
	return fmt.Sprintf("A password reset was already requested for this email. Please try again in %d hours and %d minutes.", h, m)
}

// PasswordResetLimiter grants at most one reset request per email in any
// rolling PasswordResetWindow. The email is the throttle key, whether or not
// an account exists for it.
type PasswordResetLimiter struct {
	repo   repository.PasswordResetRepository
	redis  *redis.Client
	log    *zap.Logger
	window time.Duration
}

// NewPasswordResetLimiter builds a limiter. rdb may be nil, in which case
// Attempt does not lock and two concurrent requests may both be granted.
func NewPasswordResetLimiter(repo repository.PasswordResetRepository, rdb *redis.Client, log *zap.Logger) *PasswordResetLimiter {
	return &PasswordResetLimiter{repo: repo, redis: rdb, log: log, window: PasswordResetWindow}
}

// CanRequest reports whether email may request a reset at now.
func (l *PasswordResetLimiter) CanRequest(ctx context.Context, email string, now time.Time) (ResetDecision, error) {
	latest, err := l.repo.Latest(ctx, utils.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return ResetDecision{Eligible: true}, nil
	}
	if err != nil {
		return ResetDecision{}, fmt.Errorf("latest reset request: %w", err)
	}

	age := now.Sub(latest.RequestedAt)
	if age >= l.window {
		return ResetDecision{Eligible: true}, nil
	}
	if age < 0 {
		age = 0
	}
	return ResetDecision{Remaining: l.window - age}, nil
}

// Record appends a request row. Earlier rows are never touched.
func (l *PasswordResetLimiter) Record(ctx context.Context, email, ip string, now time.Time) error {
	req := &models.PasswordResetRequest{
		Email:       utils.NormalizeEmail(email),
		RequestedAt: now.UTC(),
		IPAddress:   optionalIP(ip),
	}
	if err := l.repo.Insert(ctx, req); err != nil {
		return fmt.Errorf("record reset request: %w", err)
	}
	return nil
}

// Attempt checks the throttle and, when eligible, runs grant and then
// records the request. A failed grant is not recorded, so the email stays
// eligible. With Redis configured all three steps run under a per-email lock.
// grant may be nil.
func (l *PasswordResetLimiter) Attempt(ctx context.Context, email, ip string, now time.Time, grant func(context.Context) error) (ResetDecision, error) {
	release, err := l.lock(ctx, email)
	if err != nil {
		return ResetDecision{}, err
	}
	defer release()

	decision, err := l.CanRequest(ctx, email, now)
	if err != nil || !decision.Eligible {
		return decision, err
	}
	if grant != nil {
		if err := grant(ctx); err != nil {
			return ResetDecision{}, err
		}
	}
	if err := l.Record(ctx, email, ip, now); err != nil {
		return ResetDecision{}, err
	}
	return decision, nil
}

func (l *PasswordResetLimiter) lock(ctx context.Context, email string) (func(), error) {
	if l.redis == nil {
		return func() {}, nil
	}
	key := ResetLockKeyPrefix + utils.NormalizeEmail(email)
	ok, err := l.redis.SetNX(ctx, key, "1", resetLockTTL).Result()
	if err != nil {
		// Redis down: proceed without the lock rather than block resets
		l.log.Warn("reset lock unavailable", zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, ErrResetBusy
	}
	return func() {
		if err := l.redis.Del(context.WithoutCancel(ctx), key).Err(); err != nil {
			l.log.Warn("reset lock release failed", zap.Error(err))
		}
	}, nil
}
