package affiliations

import (
	"context"

	"github.com/publiceyeusa/publiceye/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Affiliation, error)
	GetByCategory(ctx context.Context, category string) (*models.Affiliation, error)
	Create(ctx context.Context, category string) (*models.Affiliation, error)
}
