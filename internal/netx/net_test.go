package netx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONRequest(t *testing.T) {
	t.Run("with body", func(t *testing.T) {
		req, err := NewJSONRequest(context.Background(), http.MethodPost, "http://h/x/", map[string]string{"email": "a@b.c"})
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", req.Header.Get("Accept"))

		b, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"email":"a@b.c"}`, string(b))
	})

	t.Run("without body", func(t *testing.T) {
		req, err := NewJSONRequest(context.Background(), http.MethodGet, "http://h/x/", nil)
		require.NoError(t, err)
		assert.Empty(t, req.Header.Get("Content-Type"))
		assert.Nil(t, req.Body)
	})

	t.Run("unencodable body", func(t *testing.T) {
		_, err := NewJSONRequest(context.Background(), http.MethodPost, "http://h/", func() {})
		require.ErrorContains(t, err, "encode request body")
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := NewJSONRequest(context.Background(), http.MethodGet, "://nope", nil)
		require.Error(t, err)
	})
}

func get(t *testing.T, body string) *http.Response {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	return resp
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, DecodeJSON(get(t, `{"name":"x"}`), &v))
	assert.Equal(t, "x", v.Name)

	v.Name = "keep"
	require.NoError(t, DecodeJSON(get(t, "  "), &v))
	assert.Equal(t, "keep", v.Name)

	err := DecodeJSON(get(t, "<html>"), &v)
	require.ErrorContains(t, err, "decode response")
}

func TestReadBody_Limited(t *testing.T) {
	b, err := ReadBody(get(t, strings.Repeat("a", MaxBodySize+10)))
	require.NoError(t, err)
	assert.Len(t, b, MaxBodySize)
}
