package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publiceyeusa/publiceye/internal/client/client"
)

var catalog = []client.Affiliation{
	{ID: 1, Category: "Democratic"},
	{ID: 2, Category: "Republican"},
	{ID: 3, Category: "Libertarian"},
}

func TestAffiliations_FetchAndLookup(t *testing.T) {
	a := NewAffiliations(&fakeAPI{catalog: func(context.Context) ([]client.Affiliation, error) {
		return catalog, nil
	}})

	_, ok := a.Lookup(1)
	assert.False(t, ok)

	require.NoError(t, a.Fetch(context.Background()))
	assert.Equal(t, catalog, a.Snapshot().Items)

	got, ok := a.Lookup(2)
	assert.True(t, ok)
	assert.Equal(t, "Republican", got.Category)

	_, ok = a.Lookup(99)
	assert.False(t, ok)
}

func TestAffiliations_FetchFailure(t *testing.T) {
	calls := 0
	a := NewAffiliations(&fakeAPI{catalog: func(context.Context) ([]client.Affiliation, error) {
		calls++
		if calls == 1 {
			return catalog, nil
		}
		return nil, client.ErrUnavailable
	}})
	ctx := context.Background()

	require.NoError(t, a.Fetch(ctx))
	require.ErrorIs(t, a.Fetch(ctx), client.ErrUnavailable)

	snap := a.Snapshot()
	assert.Equal(t, MsgUnavailable, snap.Error)
	assert.Len(t, snap.Items, 3)
}

func TestAffiliations_StaleFetchDropped(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	first := true
	api := &fakeAPI{}
	api.catalog = func(context.Context) ([]client.Affiliation, error) {
		api.mu.Lock()
		slow := first
		first = false
		api.mu.Unlock()
		if slow {
			close(started)
			<-release
			return catalog[:1], nil
		}
		return catalog, nil
	}
	a := NewAffiliations(api)
	ctx := context.Background()

	done := make(chan error)
	go func() { done <- a.Fetch(ctx) }()
	<-started

	require.NoError(t, a.Fetch(ctx))
	close(release)
	require.NoError(t, <-done)

	assert.Len(t, a.Snapshot().Items, 3)
}
