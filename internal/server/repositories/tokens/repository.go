package tokens

import (
	"context"

	"github.com/publiceyeusa/publiceye/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, token *models.Token) error
	FindByKey(ctx context.Context, key string) (*models.Token, error)
	FindByUser(ctx context.Context, userID string) (*models.Token, error)
	DeleteByUser(ctx context.Context, userID string) error
}
