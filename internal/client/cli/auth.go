package cli

import (
	"context"
	"fmt"

	"github.com/publiceyeusa/publiceye/internal/client/routing"
	"github.com/publiceyeusa/publiceye/internal/client/state"
	"github.com/publiceyeusa/publiceye/internal/common"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

func (a *App) readCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register prompts for an email and password and creates the account.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, email, string(password)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account created.")
	return a.afterSignIn(ctx)
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, email, string(password)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s.\n", a.auth.Snapshot().User)
	return a.afterSignIn(ctx)
}

// afterSignIn loads the new session's profile and catalog.
func (a *App) afterSignIn(ctx context.Context) error {
	a.profile.Reset()
	if err := a.profile.Fetch(ctx); err != nil {
		return err
	}
	if len(a.catalog.Snapshot().Items) == 0 {
		if err := a.catalog.Fetch(ctx); err != nil {
			a.logger.Warn(ctx, "catalog fetch failed", "error", err)
		}
	}
	return nil
}

// Logout ends the session. Local state is cleared even when the server
// call fails.
func (a *App) Logout(ctx context.Context) error {
	err := a.auth.Logout(ctx)
	a.profile.Reset()
	a.setPath(routing.PathHome)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.auth.Snapshot()
	if !snap.Authenticated() {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintln(a.out, snap.User)
	return nil
}

// DeleteAccount asks for confirmation, then deletes the signed-in account.
func (a *App) DeleteAccount(ctx context.Context) error {
	if !a.isLoggedIn() {
		return state.ErrNotAuthenticated
	}
	ok, err := getConfirmation(a.reader, "Delete your account permanently?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.auth.DeleteAccount(ctx); err != nil {
		return err
	}
	a.profile.Reset()
	a.setPath(routing.PathHome)
	fmt.Fprintln(a.out, "Account deleted.")
	return nil
}
