package state

import (
	"context"
	"slices"
	"sync"

	"github.com/publiceyeusa/publiceye/internal/client/client"
)

type CatalogAPI interface {
	GetAffiliations(ctx context.Context) ([]client.Affiliation, error)
}

type AffiliationsSnapshot struct {
	Items   []client.Affiliation
	Loading bool
	Error   string
}

// Affiliations caches the read-only catalog.
type Affiliations struct {
	api CatalogAPI

	mu    sync.Mutex
	items []client.Affiliation
	err   string
	seq   tracker
}

func NewAffiliations(api CatalogAPI) *Affiliations {
	return &Affiliations{api: api}
}

func (a *Affiliations) Snapshot() AffiliationsSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AffiliationsSnapshot{Items: slices.Clone(a.items), Loading: a.seq.loading(), Error: a.err}
}

func (a *Affiliations) Fetch(ctx context.Context) error {
	a.mu.Lock()
	a.err = ""
	seq := a.seq.begin()
	a.mu.Unlock()

	items, err := a.api.GetAffiliations(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.seq.end(seq) {
		return err
	}
	if err != nil {
		a.err = ErrorMessage(err)
		return err
	}
	a.items = items
	return nil
}

// Lookup finds a catalog entry by id.
func (a *Affiliations) Lookup(id int64) (client.Affiliation, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := slices.IndexFunc(a.items, func(it client.Affiliation) bool { return it.ID == id })
	if i < 0 {
		return client.Affiliation{}, false
	}
	return a.items[i], true
}
