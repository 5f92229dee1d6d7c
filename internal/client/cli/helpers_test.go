package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/publiceyeusa/publiceye/internal/client/client"
	"github.com/publiceyeusa/publiceye/internal/client/config"
)

// fakeBackend is an in-memory PublicEye API.
type fakeBackend struct {
	mu       sync.Mutex
	users    map[string]string
	tokens   map[string]string
	profiles map[string]*client.Profile
	catalog  []client.Affiliation
	reqs     []string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	b := &fakeBackend{
		users:    map[string]string{},
		tokens:   map[string]string{},
		profiles: map[string]*client.Profile{},
		catalog: []client.Affiliation{
			{ID: 1, Category: "Democratic"},
			{ID: 2, Category: "Republican"},
			{ID: 3, Category: "Green"},
		},
	}
	ts := httptest.NewServer(b)
	t.Cleanup(ts.Close)
	return b, ts
}

// addUser creates an account with a live token and returns the token.
func (b *fakeBackend) addUser(email, password, displayName string, affIDs ...int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[email] = password
	p := &client.Profile{ID: int64(len(b.profiles) + 1), DisplayName: displayName, Affiliations: []client.Affiliation{}}
	for _, id := range affIDs {
		p.Affiliations = append(p.Affiliations, b.catalog[id-1])
	}
	b.profiles[email] = p
	token := "tok-" + email
	b.tokens[token] = email
	return token
}

func (b *fakeBackend) requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.reqs)
}

func (b *fakeBackend) profile(email string) client.Profile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *b.profiles[email]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	route := r.Method + " " + r.URL.Path
	b.reqs = append(b.reqs, route)
	email := b.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Token ")]

	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	switch route {
	case "GET /healthcheck":
		w.WriteHeader(http.StatusOK)
		return
	case "GET /api/v1/affiliations/":
		writeJSON(w, http.StatusOK, b.catalog)
		return
	case "POST /api/v1/users/register/":
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if _, ok := b.users[creds.Email]; ok {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"User with this email already exists."}})
			return
		}
		b.users[creds.Email] = creds.Password
		b.profiles[creds.Email] = &client.Profile{ID: int64(len(b.profiles) + 1), Affiliations: []client.Affiliation{}}
		b.tokens["tok-"+creds.Email] = creds.Email
		writeJSON(w, http.StatusCreated, client.Session{User: creds.Email, Token: "tok-" + creds.Email})
		return
	case "POST /api/v1/users/login/":
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if pw, ok := b.users[creds.Email]; !ok || pw != creds.Password {
			writeJSON(w, http.StatusNotFound, "Invalid credentials.")
			return
		}
		b.tokens["tok-"+creds.Email] = creds.Email
		writeJSON(w, http.StatusOK, client.Session{User: creds.Email, Token: "tok-" + creds.Email})
		return
	}

	if email == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
		return
	}

	switch route {
	case "GET /api/v1/users/":
		writeJSON(w, http.StatusOK, email)
	case "POST /api/v1/users/logout/":
		delete(b.tokens, "tok-"+email)
		w.WriteHeader(http.StatusNoContent)
	case "DELETE /api/v1/users/delete_user/":
		delete(b.tokens, "tok-"+email)
		delete(b.users, email)
		delete(b.profiles, email)
		w.WriteHeader(http.StatusNoContent)
	case "GET /api/v1/profile/":
		writeJSON(w, http.StatusOK, b.profiles[email])
	case "PUT /api/v1/profile/edit_profile/":
		var body struct {
			DisplayName  *string `json:"display_name"`
			Affiliations []int64 `json:"affiliations"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		p := b.profiles[email]
		if body.DisplayName != nil {
			p.DisplayName = strings.TrimSpace(*body.DisplayName)
		}
		if len(body.Affiliations) > 0 {
			p.Affiliations = []client.Affiliation{}
			for _, id := range body.Affiliations {
				p.Affiliations = append(p.Affiliations, b.catalog[id-1])
			}
		}
		writeJSON(w, http.StatusOK, p)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type memTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memTokens) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memTokens) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memTokens) Clear(context.Context) error {
	return m.Save(context.Background(), "")
}

func testConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BaseURL = baseURL + "/api/v1/"
	cfg.OnlineCheckInterval = time.Hour
	return cfg
}

// newTestApp builds an App against ts that reads input and writes to the
// returned buffer.
func newTestApp(t *testing.T, ts *httptest.Server, tokens *memTokens, input string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := testConfig(ts.URL)
	api, err := client.NewHTTPClient(cfg.BaseURL, time.Second, nil)
	require.NoError(t, err)

	var out bytes.Buffer
	return newApp(cfg, nil, api, tokens, strings.NewReader(input), &out), &out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}
