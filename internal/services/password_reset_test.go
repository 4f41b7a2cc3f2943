package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPasswordResetLimiter_Window(t *testing.T) {
	ctx := context.Background()
	l := NewPasswordResetLimiter(memory.NewPasswordResetRepository(), nil, zap.NewNop())
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	d, err := l.CanRequest(ctx, "a@example.com", t0)
	require.NoError(t, err)
	assert.True(t, d.Eligible)

	require.NoError(t, l.Record(ctx, "a@example.com", "10.0.0.1", t0))

	d, err = l.CanRequest(ctx, "a@example.com", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, d.Eligible)
	assert.Equal(t, 23*time.Hour, d.Remaining)
	h, m := d.RemainingParts()
	assert.Equal(t, 23, h)
	assert.Equal(t, 0, m)
	assert.Contains(t, d.Message(), "23 hours and 0 minutes")

	d, err = l.CanRequest(ctx, "a@example.com", t0.Add(24*time.Hour))
	require.NoError(t, err)
	assert.True(t, d.Eligible)

	d, err = l.CanRequest(ctx, "a@example.com", t0.Add(25*time.Hour))
	require.NoError(t, err)
	assert.True(t, d.Eligible)

	d, err = l.CanRequest(ctx, "b@example.com", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, d.Eligible)
}

func TestResetDecision_RemainingParts(t *testing.T) {
	d := ResetDecision{Remaining: 5*time.Hour + 42*time.Minute + 30*time.Second}
	h, m := d.RemainingParts()
	assert.Equal(t, 5, h)
	assert.Equal(t, 42, m)
	assert.Empty(t, ResetDecision{Eligible: true}.Message())
}

func TestPasswordResetLimiter_AttemptRecordsOnlyWhenEligible(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestRedis(t)
	repo := memory.NewPasswordResetRepository()
	l := NewPasswordResetLimiter(repo, client, zap.NewNop())
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	d, err := l.Attempt(ctx, "A@Example.com", "10.0.0.1", t0, nil)
	require.NoError(t, err)
	assert.True(t, d.Eligible)

	d, err = l.Attempt(ctx, "a@example.com", "10.0.0.1", t0.Add(30*time.Minute), nil)
	require.NoError(t, err)
	assert.False(t, d.Eligible)
	h, m := d.RemainingParts()
	assert.Equal(t, 23, h)
	assert.Equal(t, 30, m)

	n, err := repo.CountByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.False(t, mr.Exists(ResetLockKeyPrefix+"a@example.com"))
}

func TestPasswordResetLimiter_LockHeld(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestRedis(t)
	repo := memory.NewPasswordResetRepository()
	l := NewPasswordResetLimiter(repo, client, zap.NewNop())

	require.NoError(t, mr.Set(ResetLockKeyPrefix+"a@example.com", "1"))

	_, err := l.Attempt(ctx, "a@example.com", "", time.Now(), nil)
	assert.ErrorIs(t, err, ErrResetBusy)

	n, _ := repo.CountByEmail(ctx, "a@example.com")
	assert.Zero(t, n)
}

func TestPasswordResetLimiter_RedisDownFailsOpen(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestRedis(t)
	mr.Close()
	l := NewPasswordResetLimiter(memory.NewPasswordResetRepository(), client, zap.NewNop())

	d, err := l.Attempt(ctx, "a@example.com", "", time.Now(), nil)
	require.NoError(t, err)
	assert.True(t, d.Eligible)
}

func TestPasswordResetLimiter_FailedGrantKeepsEligible(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestRedis(t)
	repo := memory.NewPasswordResetRepository()
	l := NewPasswordResetLimiter(repo, client, zap.NewNop())
	now := time.Now()

	_, err := l.Attempt(ctx, "a@example.com", "", now, func(context.Context) error {
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")

	d, err := l.CanRequest(ctx, "a@example.com", now)
	require.NoError(t, err)
	assert.True(t, d.Eligible)
}
