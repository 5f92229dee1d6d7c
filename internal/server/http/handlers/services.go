// Package handlers implements the REST endpoints of the API server.
package handlers

import (
	"context"

	"github.com/publiceyeusa/publiceye/internal/server/models"
	"github.com/publiceyeusa/publiceye/internal/server/services"
)

type UserService interface {
	Register(ctx context.Context, email, password string) (*services.Session, error)
	RegisterAdmin(ctx context.Context, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Logout(ctx context.Context, userID string) error
	DeleteUser(ctx context.Context, userID string) error
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID string, upd services.ProfileUpdate) (*models.Profile, error)
	DisplayName(ctx context.Context, userID string) (*string, error)
}

type AffiliationService interface {
	List(ctx context.Context) ([]models.Affiliation, error)
	Get(ctx context.Context, category string) (*models.Affiliation, error)
	Create(ctx context.Context, category string) (*models.Affiliation, error)
}
