package models

import "time"

// RefreshToken is one issued refresh credential. A user may hold several
// (one per device); all of them are revoked on password change.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the token can no longer be redeemed at now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return t.Expires.Before(now)
}
