package models

import (
	"time"

	"github.com/google/uuid"
)

// DashboardStats are the usage counters shown on the admin dashboard
type DashboardStats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalEntries     int64 `json:"total_entries"`
	GoogleUsers      int64 `json:"google_users"`
	NewUsersToday    int64 `json:"new_users_today"`
	EntriesToday     int64 `json:"entries_today"`
	ActiveUsersToday int64 `json:"active_users_today"`
}

// UserSummary is one row of the admin user list
type UserSummary struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Provider   string    `json:"provider"`
	IsStaff    bool      `json:"is_staff"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
	EntryCount int64     `json:"entry_count"`
}

// Dashboard is the full admin dashboard payload
type Dashboard struct {
	Stats         DashboardStats    `json:"stats"`
	SiteConfig    SiteConfiguration `json:"site_config"`
	RecentEntries []RecentEntry     `json:"recent_entries"`
}
