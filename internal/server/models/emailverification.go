package models

import "time"

// EmailVerification is a one-shot token mailed to the user after
// registration. A token is valid while it is unused and unexpired.
type EmailVerification struct {
	ID        string
	UserID    string
	Token     string
	Used      bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsValid reports whether the token can still be redeemed.
func (v *EmailVerification) IsValid(now time.Time) bool {
	return !v.Used && now.Before(v.ExpiresAt)
}
