package profiles

import (
	"context"

	"github.com/publiceyeusa/publiceye/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string) (*models.Profile, error)
	GetByUser(ctx context.Context, userID string) (*models.Profile, error)
	UpdateDisplayName(ctx context.Context, profileID int64, name string) error
	ClearAffiliations(ctx context.Context, profileID int64) error
	AddAffiliation(ctx context.Context, profileID, affiliationID int64) error
	ListAffiliations(ctx context.Context, profileID int64) ([]models.Affiliation, error)
}
