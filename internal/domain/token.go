package domain

import "time"

// TokenClaims is the decoded content of an identity token.
type TokenClaims struct {
	User      UserView  `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
	IssuedAt  time.Time `json:"issued_at"`
}

// IsExpired checks if the token claims are expired relative to now.
func (tc TokenClaims) IsExpired(now time.Time) bool {
	return !now.Before(tc.ExpiresAt)
}
