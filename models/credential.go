package models

import "time"

// DeleteCredential is the single stored credential gating destructive
// operations. There is at most one row; it is created lazily on first use.
type DeleteCredential struct {
	ID             int        `json:"id"`
	PasswordHash   string     `json:"-"`
	ResetToken     *string    `json:"-"`
	ResetExpiresAt *time.Time `json:"-"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
