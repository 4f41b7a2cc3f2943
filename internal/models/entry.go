package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultEntryTitle is used when a new entry is saved without a title
	DefaultEntryTitle = "Untitled"
	// DefaultDuration is used when a new entry is saved without a duration label
	DefaultDuration = "0s"
	// MaxTitleLength mirrors the entries.title column width
	MaxTitleLength = 255
	// MaxDurationLength mirrors the entries.duration_str column width
	MaxDurationLength = 50
)

// Entry represents a private journal entry owned by exactly one user
type Entry struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"date"`
	UpdatedAt time.Time `json:"updated_at"`
	IPAddress *string   `json:"-"`
	Duration  string    `json:"durationStr"`
}

// EntryDraft is the client-supplied payload of a save. Nil fields are absent.
type EntryDraft struct {
	ID        *int64
	Title     *string
	Content   *string
	Duration  *string
	IPAddress string
}

// RecentEntry is an entry row enriched with its owner's email for the admin dashboard
type RecentEntry struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	OwnerEmail string    `json:"user_email"`
	CreatedAt  time.Time `json:"created_at"`
	IPAddress  *string   `json:"ip_address,omitempty"`
}
