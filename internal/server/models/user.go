// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. Email doubles as the login name.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
}
