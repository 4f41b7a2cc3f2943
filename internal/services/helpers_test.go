package services

import (
	"testing"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func newIdentity() models.Identity {
	return models.Identity{UserID: uuid.New(), Email: uuid.NewString() + "@example.com"}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }
