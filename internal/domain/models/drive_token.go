package models

import (
	"time"
)

// DriveToken holds a user's credentials for the external drive provider.
// AccessToken is short-lived and refreshed via the OAuth refresh grant;
// RefreshToken is long-lived and only replaced when the provider rotates it.
type DriveToken struct {
	UserID       string    `json:"user_id" db:"user_id"`
	AccessToken  string    `json:"-" db:"access_token"`
	RefreshToken string    `json:"-" db:"refresh_token"`
	Expiry       time.Time `json:"expiry" db:"expiry"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ExpiredAt reports whether the access token is unusable at the given time.
// A small skew margin avoids presenting a token that dies mid-request.
func (t *DriveToken) ExpiredAt(now time.Time) bool {
	return !t.Expiry.IsZero() && now.After(t.Expiry.Add(-30*time.Second))
}
