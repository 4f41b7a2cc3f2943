// Package repository declares the persistence contracts of the journal
// service. Implementations live in the postgres, mongo and memory
// subpackages.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a row does not exist or is not visible to the caller
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when a user with the same email already exists
	ErrEmailTaken = errors.New("email already registered")
)

// EntryRepository stores journal entries. Every per-entry operation is
// scoped by owner; an entry owned by someone else is reported as ErrNotFound.
type EntryRepository interface {
	// ListByOwner returns the owner's entries, newest first.
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Entry, error)
	GetOwned(ctx context.Context, userID uuid.UUID, id int64) (models.Entry, error)
	// Create inserts e and assigns e.ID.
	Create(ctx context.Context, e *models.Entry) error
	// Update overwrites title, content, duration, ip and updated_at of an owned entry.
	Update(ctx context.Context, e *models.Entry) error
	DeleteOwned(ctx context.Context, userID uuid.UUID, id int64) error

	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountOwnersSince(ctx context.Context, since time.Time) (int64, error)
	// Recent returns the latest entries across all users.
	Recent(ctx context.Context, limit int) ([]models.Entry, error)
	// CountByOwner returns the number of entries per owner. Owners without
	// entries are absent from the map.
	CountByOwner(ctx context.Context) (map[uuid.UUID]int64, error)
}

// UserRepository stores accounts known to the identity layer.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	EmailsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	// List returns every account, newest first.
	List(ctx context.Context) ([]models.User, error)

	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByProvider(ctx context.Context, provider string) (int64, error)
}

// SiteConfigRepository persists the single site configuration row.
type SiteConfigRepository interface {
	// GetOrCreate returns the row, inserting defaults when it does not exist.
	GetOrCreate(ctx context.Context, defaults models.SiteConfiguration) (models.SiteConfiguration, error)
	// Save upserts cfg into the singleton slot and returns the stored row.
	Save(ctx context.Context, cfg models.SiteConfiguration) (models.SiteConfiguration, error)
	Count(ctx context.Context) (int64, error)
}

// PasswordResetRepository is the append-only log of granted reset requests.
type PasswordResetRepository interface {
	// Latest returns the newest request for email or ErrNotFound.
	Latest(ctx context.Context, email string) (models.PasswordResetRequest, error)
	Insert(ctx context.Context, req *models.PasswordResetRequest) error
	CountByEmail(ctx context.Context, email string) (int64, error)
}
