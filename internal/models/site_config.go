package models

import "time"

// SiteConfigurationID is the only primary key the site_configuration table may hold
const SiteConfigurationID = 1

const (
	DefaultSiteName       = "Journal"
	DefaultWelcomeMessage = "Welcome to your journal."
)

// SiteConfiguration holds process-wide site settings. Exactly one row exists.
type SiteConfiguration struct {
	ID                int       `json:"id"`
	SiteName          string    `json:"site_name"`
	MaintenanceMode   bool      `json:"maintenance_mode"`
	AllowRegistration bool      `json:"allow_registration"`
	WelcomeMessage    string    `json:"welcome_message"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DefaultSiteConfiguration returns the settings used when the row is first created
func DefaultSiteConfiguration() SiteConfiguration {
	return SiteConfiguration{
		ID:                SiteConfigurationID,
		SiteName:          DefaultSiteName,
		MaintenanceMode:   false,
		AllowRegistration: true,
		WelcomeMessage:    DefaultWelcomeMessage,
	}
}

// SiteConfigurationUpdate carries optional field changes; nil fields are left as-is
type SiteConfigurationUpdate struct {
	SiteName          *string `json:"site_name"`
	MaintenanceMode   *bool   `json:"maintenance_mode"`
	AllowRegistration *bool   `json:"allow_registration"`
	WelcomeMessage    *string `json:"welcome_message"`
}

// Apply copies the present fields onto cfg
func (u SiteConfigurationUpdate) Apply(cfg *SiteConfiguration) {
	if u.SiteName != nil {
		cfg.SiteName = *u.SiteName
	}
	if u.MaintenanceMode != nil {
		cfg.MaintenanceMode = *u.MaintenanceMode
	}
	if u.AllowRegistration != nil {
		cfg.AllowRegistration = *u.AllowRegistration
	}
	if u.WelcomeMessage != nil {
		cfg.WelcomeMessage = *u.WelcomeMessage
	}
}
