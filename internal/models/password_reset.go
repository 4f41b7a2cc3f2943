package models

import "time"

// PasswordResetRequest is an append-only audit row, one per granted reset request
type PasswordResetRequest struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"requested_at"`
	IPAddress   *string   `json:"ip_address,omitempty"`
}
