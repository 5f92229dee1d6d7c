package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publiceyeusa/publiceye/internal/client/client"
	"github.com/publiceyeusa/publiceye/internal/client/repositories/metadata"
)

func TestMetadataTokenStore(t *testing.T) {
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := metadata.NewSQLiteRepository(db)
	store := NewTokenStore(repo)

	tok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, store.Save(ctx, "abc"))
	tok, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	v, ok, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	tok, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{client.ErrInvalidCredentials, MsgInvalidCredentials},
		{client.ErrUnavailable, MsgUnavailable},
		{client.ErrUnauthorized, MsgSessionExpired},
		{ErrNotAuthenticated, MsgNotAuthenticated},
		{&client.APIError{Status: 400, Message: "bad"}, "bad"},
		{errors.New("other"), "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorMessage(tt.err))
	}
}
