package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// ProviderEmail marks accounts created with email and password
	ProviderEmail = "email"
	// ProviderGoogle marks accounts linked through Google sign-in
	ProviderGoogle = "google"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	Provider     string    `json:"provider"`
	IsStaff      bool      `json:"is_staff"`
	IsActive     bool      `json:"is_active"`
	DateJoined   time.Time `json:"date_joined"`
}

// Identity is the authenticated caller resolved from a session.
type Identity struct {
	UserID  uuid.UUID
	Email   string
	IsStaff bool
}
