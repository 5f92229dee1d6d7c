package state

import (
	"context"

	"github.com/publiceyeusa/publiceye/internal/client/repositories/metadata"
	"github.com/publiceyeusa/publiceye/internal/common"
)

// TokenStore persists the session token between runs.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MetadataTokenStore keeps the token in the local metadata table under
// common.TokenStorageKey.
type MetadataTokenStore struct {
	repo metadata.Repository
}

func NewTokenStore(repo metadata.Repository) *MetadataTokenStore {
	return &MetadataTokenStore{repo: repo}
}

// Load returns "" when no token is stored.
func (s *MetadataTokenStore) Load(ctx context.Context) (string, error) {
	v, _, err := s.repo.Get(ctx, common.TokenStorageKey)
	return v, err
}

func (s *MetadataTokenStore) Save(ctx context.Context, token string) error {
	return s.repo.Set(ctx, common.TokenStorageKey, token)
}

func (s *MetadataTokenStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, common.TokenStorageKey)
}
