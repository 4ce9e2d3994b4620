package models

import "time"

// Profile holds the extended per-user record. Exactly one row exists per
// user; it is created in the same transaction as the user itself.
type Profile struct {
	ID            string
	UserID        string
	Phone         *string
	AvatarKey     string
	Bio           string
	BirthDate     *time.Time
	Gender        string
	EmailVerified bool
	PhoneVerified bool
	LoginCount    int64
	LastLoginIP   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
