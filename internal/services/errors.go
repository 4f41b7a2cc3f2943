package services

import "errors"

var (
	// ErrUpstream wraps failures of outbound provider calls
	ErrUpstream = errors.New("upstream provider failed")
	// ErrProviderNotConfigured is returned when an outbound provider has no credentials
	ErrProviderNotConfigured = errors.New("provider not configured")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrRegistrationClosed    = errors.New("registration is closed")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrInactiveAccount       = errors.New("account is disabled")
)
