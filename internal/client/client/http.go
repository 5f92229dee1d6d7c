package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/publiceyeusa/publiceye/internal/common"
	"github.com/publiceyeusa/publiceye/internal/logging"
	"github.com/publiceyeusa/publiceye/internal/netx"
)

// HTTPClient talks to the REST API rooted at a base URL such as
// http://127.0.0.1:8000/api/v1/. It is safe for concurrent use.
type HTTPClient struct {
	base   *url.URL
	http   *http.Client
	logger logging.Logger

	mu    sync.RWMutex
	token string
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) (*HTTPClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &HTTPClient{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		logger: logger.With("module", "client"),
	}, nil
}

// SetToken attaches token to subsequent requests; "" detaches it.
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Confirm resolves the identity bound to the current token.
func (c *HTTPClient) Confirm(ctx context.Context) (string, error) {
	var email string
	if err := c.do(ctx, http.MethodGet, "users/", nil, &email); err != nil {
		return "", err
	}
	return email, nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	if err := c.do(ctx, http.MethodPost, "users/register/", credentials{email, password}, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.do(ctx, http.MethodPost, "users/login/", credentials{email, password}, &s)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "users/logout/", nil, nil)
}

func (c *HTTPClient) DeleteUser(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "users/delete_user/", nil, nil)
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "profile/", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile sends fields as is; callers filter out empty values first.
func (c *HTTPClient) UpdateProfile(ctx context.Context, fields map[string]any) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodPut, "profile/edit_profile/", fields, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) GetDisplayName(ctx context.Context) (string, error) {
	var out struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.do(ctx, http.MethodGet, "profile/display_name/", nil, &out); err != nil {
		return "", err
	}
	return out.DisplayName, nil
}

func (c *HTTPClient) GetAffiliations(ctx context.Context) ([]Affiliation, error) {
	var out []Affiliation
	if err := c.do(ctx, http.MethodGet, "affiliations/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping probes the server health endpoint, which lives outside the API root.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthcheck", nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	u := c.base.ResolveReference(&url.URL{Path: path})

	req, err := netx.NewJSONRequest(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if token := c.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.TokenScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug(ctx, "request failed", "method", method, "path", u.Path, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.logger.Debug(ctx, "request done", "method", method, "path", u.Path, "status", resp.StatusCode)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, err := netx.ReadBody(resp)
			return err
		}
		return netx.DecodeJSON(resp, out)
	}

	b, _ := netx.ReadBody(resp)
	return statusError(resp.StatusCode, errorMessage(b))
}

func statusError(status int, msg string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg == "" {
			return ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %d %s", ErrUnavailable, status, http.StatusText(status))
	}
	return &APIError{Status: status, Message: msg}
}

const maxMessageLen = 200

// errorMessage flattens an error body into one line. It understands a bare
// JSON string, {"detail": "..."} and {"field": ["msg", ...]}.
func errorMessage(body []byte) string {
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return s
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		var detail string
		if err := json.Unmarshal(obj["detail"], &detail); err == nil && detail != "" {
			return detail
		}

		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			var msgs []string
			if err := json.Unmarshal(obj[k], &msgs); err != nil {
				var one string
				if err := json.Unmarshal(obj[k], &one); err != nil {
					continue
				}
				msgs = []string{one}
			}
			parts = append(parts, k+": "+strings.Join(msgs, " "))
		}
		return strings.Join(parts, "; ")
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxMessageLen {
		n := maxMessageLen
		for n > 0 && !utf8.RuneStart(msg[n]) {
			n--
		}
		msg = msg[:n]
	}
	return msg
}
