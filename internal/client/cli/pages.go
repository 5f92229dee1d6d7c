package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/publiceyeusa/publiceye/internal/client/client"
	"github.com/publiceyeusa/publiceye/internal/client/routing"
)

// Navigate runs the route guard for path and renders the page it lands on.
func (a *App) Navigate(ctx context.Context, path string) error {
	target := routing.Guard(a.isLoggedIn(), path)
	if target != path {
		a.logger.Debug(ctx, "redirected", "from", path, "to", target)
	}
	a.setPath(target)

	switch target {
	case routing.PathHome:
		a.homePage()
		return nil
	case routing.PathLogin:
		if err := a.Login(ctx); err != nil {
			return err
		}
		return a.Navigate(ctx, routing.PathHome)
	case routing.PathSignup:
		if err := a.Register(ctx); err != nil {
			return err
		}
		return a.Navigate(ctx, routing.PathHome)
	case routing.PathProfile:
		return a.profilePage(ctx)
	case routing.PathEdit:
		return a.editPage(ctx)
	}

	fmt.Fprintf(a.out, "Page not found: %s\n", target)
	return nil
}

func (a *App) homePage() {
	fmt.Fprintln(a.out, "PublicEyeUSA")
	fmt.Fprintln(a.out, "Making Politics Transparent")
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Type 'signup' to create an account or 'login' to sign in.")
	}
}

func (a *App) profilePage(ctx context.Context) error {
	snap := a.profile.Snapshot()
	if snap.Profile == nil {
		if err := a.profile.Fetch(ctx); err != nil {
			return err
		}
		snap = a.profile.Snapshot()
	}

	fmt.Fprintln(a.out, "Profile")
	fmt.Fprint(a.out, formatProfile(snap.Profile.DisplayName, categories(snap.Profile.Affiliations)))
	fmt.Fprintln(a.out, "Type 'edit' to change it.")
	return nil
}

// ListAffiliations prints the catalog, fetching it on first use.
func (a *App) ListAffiliations(ctx context.Context) error {
	if len(a.catalog.Snapshot().Items) == 0 {
		if err := a.catalog.Fetch(ctx); err != nil {
			return err
		}
	}
	for _, aff := range a.catalog.Snapshot().Items {
		fmt.Fprintf(a.out, "  [%d] %s\n", aff.ID, aff.Category)
	}
	return nil
}

func categories(affs []client.Affiliation) []string {
	out := make([]string, len(affs))
	for i, aff := range affs {
		out[i] = aff.Category
	}
	return out
}

// formatProfile renders a profile one field per line; the edit preview
// diffs two of these.
func formatProfile(displayName string, cats []string) string {
	var sb strings.Builder
	if displayName == "" {
		displayName = "(no display name)"
	}
	fmt.Fprintf(&sb, "display name: %s\n", displayName)
	if len(cats) == 0 {
		sb.WriteString("affiliations: none\n")
		return sb.String()
	}
	sb.WriteString("affiliations:\n")
	for _, c := range cats {
		fmt.Fprintf(&sb, "  * %s\n", c)
	}
	return sb.String()
}
