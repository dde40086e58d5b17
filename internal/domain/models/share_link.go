package models

import (
	"time"
)

// Share link access modes.
const (
	ShareModePublic = "public" // anyone with the slug
	ShareModePIN    = "pin"    // slug plus a PIN
	ShareModeOrg    = "org"    // restricted to identity-provider accounts
)

// ShareLink is the at-most-one public view of a project, addressed by a
// short slug that the client renders as a scannable code. PINHash is a
// bcrypt hash, set only for pin mode.
type ShareLink struct {
	ID        string     `json:"id" db:"id"`
	ProjectID string     `json:"project_id" db:"project_id"`
	Slug      string     `json:"slug" db:"slug"`
	Mode      string     `json:"mode" db:"mode"`
	PINHash   *string    `json:"-" db:"pin_hash"`
	Enabled   bool       `json:"enabled" db:"enabled"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// Expired reports whether the link has an expiry in the past relative to now.
func (s *ShareLink) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}
