// Package models contains the persisted entities of the PawMate server.
package models

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsAdmin      bool
	IsActive     bool
	CreatedAt    time.Time
}
