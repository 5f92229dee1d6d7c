// Package catalogcache caches the affiliation catalog in front of the
// database. The catalog is small and changes only when staff add an entry,
// so it is stored as a single JSON value.
package catalogcache

import (
	"context"

	"github.com/publiceyeusa/publiceye/internal/server/models"
)

// Cache stores the full catalog. Get reports a miss with ok=false and a nil
// error.
type Cache interface {
	Get(ctx context.Context) (affs []models.Affiliation, ok bool, err error)
	Set(ctx context.Context, affs []models.Affiliation) error
	Invalidate(ctx context.Context) error
}

// NopCache never holds anything. Used when no Redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context) ([]models.Affiliation, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, []models.Affiliation) error         { return nil }
func (NopCache) Invalidate(context.Context) error                        { return nil }
