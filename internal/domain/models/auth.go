package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims represents the bearer-token claims issued by the identity
// provider. Only the registered claims are relied on; the extra fields are
// carried through for logging.
type SessionClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email,omitempty"`
	Role                 string `json:"role,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
// This is the primary identifier for the authenticated caller.
func (c *SessionClaims) GetUserID() string {
	return c.Subject
}
