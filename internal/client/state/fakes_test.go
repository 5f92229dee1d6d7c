package state

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/publiceyeusa/publiceye/internal/client/client"
)

type memTokens struct {
	mu      sync.Mutex
	token   string
	loadErr error
	saveErr error

	// onSave runs before a save, outside the store lock.
	onSave func()
}

func (m *memTokens) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.loadErr
}

func (m *memTokens) Save(_ context.Context, token string) error {
	if m.onSave != nil {
		m.onSave()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.token = token
	return nil
}

func (m *memTokens) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

func (m *memTokens) get() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// fakeAPI is a scriptable AuthAPI/ProfileAPI/CatalogAPI. Unset hooks fail.
type fakeAPI struct {
	mu    sync.Mutex
	token string
	calls int

	confirm  func(ctx context.Context) (string, error)
	login    func(ctx context.Context, email, password string) (*client.Session, error)
	logout   func(ctx context.Context) error
	profile  func(ctx context.Context) (*client.Profile, error)
	update   func(ctx context.Context, fields map[string]any) (*client.Profile, error)
	catalog  func(ctx context.Context) ([]client.Affiliation, error)
	remove   func(ctx context.Context) error
	lastBody map[string]any
}

var errNoHook = errors.New("no hook")

func (f *fakeAPI) count() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

func (f *fakeAPI) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeAPI) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAPI) Confirm(ctx context.Context) (string, error) {
	f.count()
	if f.confirm == nil {
		return "", errNoHook
	}
	return f.confirm(ctx)
}

func (f *fakeAPI) Register(ctx context.Context, email, password string) (*client.Session, error) {
	return f.Login(ctx, email, password)
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*client.Session, error) {
	f.count()
	if f.login == nil {
		return nil, errNoHook
	}
	return f.login(ctx, email, password)
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.count()
	if f.logout == nil {
		return nil
	}
	return f.logout(ctx)
}

func (f *fakeAPI) DeleteUser(ctx context.Context) error {
	f.count()
	if f.remove == nil {
		return nil
	}
	return f.remove(ctx)
}

func (f *fakeAPI) GetProfile(ctx context.Context) (*client.Profile, error) {
	f.count()
	if f.profile == nil {
		return nil, errNoHook
	}
	return f.profile(ctx)
}

func (f *fakeAPI) UpdateProfile(ctx context.Context, fields map[string]any) (*client.Profile, error) {
	f.count()
	f.mu.Lock()
	f.lastBody = fields
	f.mu.Unlock()
	if f.update == nil {
		return nil, errNoHook
	}
	return f.update(ctx, fields)
}

func (f *fakeAPI) GetDisplayName(context.Context) (string, error) {
	f.count()
	return "Ann", nil
}

func (f *fakeAPI) GetAffiliations(ctx context.Context) ([]client.Affiliation, error) {
	f.count()
	if f.catalog == nil {
		return nil, errNoHook
	}
	return f.catalog(ctx)
}

// apiRequest is one request seen by newAPIServer.
type apiRequest struct {
	Method string
	Path   string
	Auth   string
}

type apiServer struct {
	mu   sync.Mutex
	reqs []apiRequest
}

func (s *apiServer) requests() []apiRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]apiRequest(nil), s.reqs...)
}

// newAPIServer runs handler behind a real HTTPClient and records requests.
func newAPIServer(t *testing.T, handler http.HandlerFunc) (*client.HTTPClient, *apiServer) {
	t.Helper()
	rec := &apiServer{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.reqs = append(rec.reqs, apiRequest{r.Method, r.URL.Path, r.Header.Get("Authorization")})
		rec.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	c, err := client.NewHTTPClient(ts.URL+"/api/v1/", time.Second, nil)
	require.NoError(t, err)
	return c, rec
}
