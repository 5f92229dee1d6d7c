// Package state holds the client's state containers: auth, profile and the
// affiliation catalog. Each container owns its fields behind a mutex and
// drops responses that arrive after a later dispatch was already applied.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/publiceyeusa/publiceye/internal/client/client"
	"github.com/publiceyeusa/publiceye/internal/logging"
)

// AuthStatus is the session state machine:
//
//	anonymous -> confirming -> authenticated | anonymous
//	authenticated -> logging-out -> anonymous
type AuthStatus int

const (
	StatusAnonymous AuthStatus = iota
	StatusConfirming
	StatusAuthenticated
	StatusLoggingOut
)

func (s AuthStatus) String() string {
	switch s {
	case StatusAnonymous:
		return "anonymous"
	case StatusConfirming:
		return "confirming"
	case StatusAuthenticated:
		return "authenticated"
	case StatusLoggingOut:
		return "logging-out"
	}
	return fmt.Sprintf("AuthStatus(%d)", int(s))
}

// AuthAPI is the part of client.Client the auth container drives.
type AuthAPI interface {
	SetToken(token string)
	Token() string
	Confirm(ctx context.Context) (string, error)
	Register(ctx context.Context, email, password string) (*client.Session, error)
	Login(ctx context.Context, email, password string) (*client.Session, error)
	Logout(ctx context.Context) error
	DeleteUser(ctx context.Context) error
}

// AuthSnapshot is a copy of the auth container's fields.
type AuthSnapshot struct {
	User    string
	Status  AuthStatus
	Loading bool
	Error   string
}

func (s AuthSnapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

type Auth struct {
	api    AuthAPI
	tokens TokenStore
	logger logging.Logger

	mu     sync.Mutex
	user   string
	status AuthStatus
	err    string
	seq    tracker
}

func NewAuth(api AuthAPI, tokens TokenStore, logger logging.Logger) *Auth {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Auth{api: api, tokens: tokens, logger: logger.With("module", "auth")}
}

func (a *Auth) Snapshot() AuthSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AuthSnapshot{User: a.user, Status: a.status, Loading: a.seq.loading(), Error: a.err}
}

func (a *Auth) begin(status AuthStatus) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = status
	a.err = ""
	return a.seq.begin()
}

// finish applies fn under the lock unless dispatch seq went stale.
func (a *Auth) finish(seq uint64, fn func()) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.seq.end(seq) {
		return false
	}
	fn()
	return true
}

// signOut drops identity and the in-memory header. Callers hold the lock.
func (a *Auth) signOut() {
	a.user = ""
	a.status = StatusAnonymous
	a.api.SetToken("")
}

// Confirm resolves the session of the stored token. Without a stored token
// it settles on anonymous and makes no request. A rejected token is
// removed from storage; any other failure keeps it for the next attempt.
func (a *Auth) Confirm(ctx context.Context) error {
	token, err := a.tokens.Load(ctx)
	if err != nil {
		a.mu.Lock()
		a.signOut()
		a.err = ErrorMessage(err)
		a.mu.Unlock()
		return fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		a.mu.Lock()
		a.signOut()
		a.err = ""
		a.mu.Unlock()
		return nil
	}

	seq := a.begin(StatusConfirming)
	a.api.SetToken(token)
	email, err := a.api.Confirm(ctx)

	applied := a.finish(seq, func() {
		if err != nil {
			a.signOut()
			a.err = ErrorMessage(err)
			return
		}
		a.user = email
		a.status = StatusAuthenticated
	})
	if applied && errors.Is(err, client.ErrUnauthorized) {
		if cerr := a.tokens.Clear(ctx); cerr != nil {
			a.logger.Warn(ctx, "failed to remove stored token", "error", cerr)
		}
	}
	return err
}

func (a *Auth) Register(ctx context.Context, email, password string) error {
	return a.signIn(ctx, email, password, a.api.Register)
}

func (a *Auth) Login(ctx context.Context, email, password string) error {
	return a.signIn(ctx, email, password, a.api.Login)
}

func (a *Auth) signIn(ctx context.Context, email, password string,
	call func(ctx context.Context, email, password string) (*client.Session, error)) error {
	seq := a.begin(StatusConfirming)
	s, err := call(ctx, email, password)

	applied := a.finish(seq, func() {
		if err != nil {
			a.signOut()
			a.err = ErrorMessage(err)
			return
		}
		a.api.SetToken(s.Token)
		a.user = s.User
		a.status = StatusAuthenticated
	})
	if err != nil || !applied {
		return err
	}

	if err := a.tokens.Save(ctx, s.Token); err != nil {
		err = fmt.Errorf("save token: %w", err)
		a.mu.Lock()
		a.err = err.Error()
		a.mu.Unlock()
		return err
	}
	a.logger.Info(ctx, "signed in", "user", s.User)
	return nil
}

// currentToken is the header token, falling back to the stored one.
func (a *Auth) currentToken(ctx context.Context) (string, error) {
	if t := a.api.Token(); t != "" {
		return t, nil
	}
	return a.tokens.Load(ctx)
}

// Logout ends the session. Token and identity are cleared whatever the
// server answers; without a token no request is made.
func (a *Auth) Logout(ctx context.Context) error {
	token, err := a.currentToken(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to load stored token", "error", err)
	}
	if token == "" {
		a.mu.Lock()
		a.seq.invalidate()
		a.signOut()
		a.err = ""
		a.mu.Unlock()
		return a.clearStored(ctx)
	}

	seq := a.begin(StatusLoggingOut)
	a.api.SetToken(token)
	err = a.api.Logout(ctx)
	// A rejected token is as good as revoked.
	if errors.Is(err, client.ErrUnauthorized) {
		err = nil
	}

	a.mu.Lock()
	a.seq.end(seq)
	a.seq.invalidate()
	a.signOut()
	if err != nil {
		a.err = MsgLogoutFailure
	}
	a.mu.Unlock()

	if cerr := a.clearStored(ctx); cerr != nil && err == nil {
		err = cerr
	}
	if err == nil {
		a.logger.Info(ctx, "signed out")
	}
	return err
}

// DeleteAccount deletes the signed-in account, then signs out.
func (a *Auth) DeleteAccount(ctx context.Context) error {
	if a.api.Token() == "" {
		a.mu.Lock()
		a.err = MsgNotAuthenticated
		a.mu.Unlock()
		return ErrNotAuthenticated
	}

	// The status is left alone: a Confirm may still be resolving it.
	a.mu.Lock()
	a.err = ""
	a.seq.begin()
	a.mu.Unlock()

	err := a.api.DeleteUser(ctx)

	a.mu.Lock()
	a.seq.abandon()
	if err != nil {
		a.err = ErrorMessage(err)
		a.mu.Unlock()
		return err
	}
	a.seq.invalidate()
	a.signOut()
	a.mu.Unlock()

	return a.clearStored(ctx)
}

func (a *Auth) clearStored(ctx context.Context) error {
	if err := a.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
