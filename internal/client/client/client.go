package client

import (
	"context"
)

// Session is what register and login return.
type Session struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

// Affiliation is one catalog entry.
type Affiliation struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
}

// Profile is the server's canonical profile. A profile that was never
// edited has an empty DisplayName.
type Profile struct {
	ID           int64         `json:"id"`
	DisplayName  string        `json:"display_name"`
	Affiliations []Affiliation `json:"affiliations"`
}

// Client is the PublicEye API as seen by the CLI. While a token is set
// every request carries it in the Authorization header.
type Client interface {
	SetToken(token string)
	Token() string

	Confirm(ctx context.Context) (string, error)
	Register(ctx context.Context, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context) error
	DeleteUser(ctx context.Context) error

	GetProfile(ctx context.Context) (*Profile, error)
	UpdateProfile(ctx context.Context, fields map[string]any) (*Profile, error)
	GetDisplayName(ctx context.Context) (string, error)

	GetAffiliations(ctx context.Context) ([]Affiliation, error)

	Ping(ctx context.Context) error
}
