package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/publiceyeusa/publiceye/internal/client/routing"
	"github.com/publiceyeusa/publiceye/internal/client/state"
)

// Opener builds the App a command runs against.
type Opener func(ctx context.Context) (*App, error)

const rootLong = `PublicEye command-line client.

Without a command it starts an interactive shell. Configuration flags are
read before the command line reaches the commands:

  -a string   API base URL (default http://127.0.0.1:8000/api/v1/)
  -f string   local state database file (default publiceye.db)
  -t int      request timeout, seconds
  -i int      online check interval, seconds
  -c string   JSON config file`

// withApp opens an App for the duration of one command.
func withApp(open Opener, mount bool, run func(ctx context.Context, a *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := open(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		if mount {
			a.Mount(ctx)
		}
		return run(ctx, a, args)
	}
}

// NewRootCommand builds the command tree. Errors are returned, not printed.
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "publiceye",
		Short:         "PublicEye command-line client",
		Long:          rootLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(open, false, func(ctx context.Context, a *App, _ []string) error {
			a.Shell(ctx)
			return nil
		}),
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "register",
			Short: "Create an account and sign in",
			Args:  cobra.NoArgs,
			RunE: withApp(open, false, func(ctx context.Context, a *App, _ []string) error {
				return a.Register(ctx)
			}),
		},
		&cobra.Command{
			Use:   "login",
			Short: "Sign in and store the session token",
			Args:  cobra.NoArgs,
			RunE: withApp(open, false, func(ctx context.Context, a *App, _ []string) error {
				return a.Login(ctx)
			}),
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Sign out and forget the stored session",
			Args:  cobra.NoArgs,
			RunE: withApp(open, false, func(ctx context.Context, a *App, _ []string) error {
				return a.Logout(ctx)
			}),
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Show the signed-in user",
			Args:  cobra.NoArgs,
			RunE: withApp(open, true, func(ctx context.Context, a *App, _ []string) error {
				return a.WhoAmI(ctx)
			}),
		},
		&cobra.Command{
			Use:   "profile",
			Short: "Show your profile",
			Args:  cobra.NoArgs,
			RunE: withApp(open, true, func(ctx context.Context, a *App, _ []string) error {
				if !a.isLoggedIn() {
					return state.ErrNotAuthenticated
				}
				return a.Navigate(ctx, routing.PathProfile)
			}),
		},
		&cobra.Command{
			Use:   "affiliations",
			Short: "List the political affiliation catalog",
			Args:  cobra.NoArgs,
			RunE: withApp(open, false, func(ctx context.Context, a *App, _ []string) error {
				return a.ListAffiliations(ctx)
			}),
		},
		&cobra.Command{
			Use:   "delete-account",
			Short: "Delete your account",
			Args:  cobra.NoArgs,
			RunE: withApp(open, true, func(ctx context.Context, a *App, _ []string) error {
				return a.DeleteAccount(ctx)
			}),
		},
		&cobra.Command{
			Use:   "ping",
			Short: "Check that the server is reachable",
			Args:  cobra.NoArgs,
			RunE: withApp(open, false, func(ctx context.Context, a *App, _ []string) error {
				if err := a.api.Ping(ctx); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "ok")
				return nil
			}),
		},
		newEditCommand(open),
	)
	return root
}

func newEditCommand(open Opener) *cobra.Command {
	var (
		name         string
		affiliations []int64
		yes          bool
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change your display name or affiliations",
		Long: "Change your display name or affiliations. Flags left empty keep the\n" +
			"current value; without flags the interactive edit page is shown.",
		Args: cobra.NoArgs,
		RunE: withApp(open, true, func(ctx context.Context, a *App, _ []string) error {
			if !a.isLoggedIn() {
				return state.ErrNotAuthenticated
			}
			if name == "" && len(affiliations) == 0 {
				return a.Navigate(ctx, routing.PathEdit)
			}
			return a.ApplyEdit(ctx, state.ProfileForm{DisplayName: &name, Affiliations: affiliations}, yes)
		}),
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "new display name")
	f.Int64SliceVar(&affiliations, "affiliation", nil, "affiliation id (may be repeated or comma separated)")
	f.BoolVarP(&yes, "yes", "y", false, "apply without asking for confirmation")
	return cmd
}
