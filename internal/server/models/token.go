package models

import "time"

// Token is the server-side record of a session token. A user holds at most
// one; deleting the row revokes the token.
type Token struct {
	ID        string
	UserID    string
	Key       string
	CreatedAt time.Time
	ExpiresAt *time.Time
}

// Expired reports whether the token has a deadline that lies before now.
func (t *Token) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}
