package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/publiceyeusa/publiceye/internal/client/routing"
	"github.com/publiceyeusa/publiceye/internal/client/state"
)

func (a *App) editPage(ctx context.Context) error {
	if a.profile.Snapshot().Profile == nil {
		if err := a.profile.Fetch(ctx); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.out, "Edit Profile")
	name, err := getSimpleText(a.reader, "Display name (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Political affiliations:")
	if err := a.ListAffiliations(ctx); err != nil {
		return err
	}
	raw, err := getSimpleText(a.reader, "Affiliation ids, comma separated (empty keeps the current ones)", a.out)
	if err != nil {
		return err
	}
	ids, err := parseIDs(raw)
	if err != nil {
		return err
	}

	return a.ApplyEdit(ctx, state.ProfileForm{DisplayName: &name, Affiliations: ids}, false)
}

// ApplyEdit previews the change, asks for confirmation unless assumeYes,
// then sends it. On success the profile page is shown.
func (a *App) ApplyEdit(ctx context.Context, form state.ProfileForm, assumeYes bool) error {
	if !a.isLoggedIn() {
		return state.ErrNotAuthenticated
	}
	if len(state.FilterEmpty(form)) == 0 {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	before, after := a.previewTexts(form)
	fmt.Fprint(a.out, diffPreview(before, after))

	if !assumeYes {
		ok, err := getConfirmation(a.reader, "Apply changes?", a.out)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}
	}

	if err := a.profile.Update(ctx, form); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated.")
	return a.Navigate(ctx, routing.PathProfile)
}

// previewTexts renders the cached profile and the profile the form would
// produce, listing affiliations in id order as the server does. Ids missing
// from the catalog are marked unknown.
func (a *App) previewTexts(form state.ProfileForm) (string, string) {
	var name string
	var cats []string
	if p := a.profile.Snapshot().Profile; p != nil {
		name = p.DisplayName
		cats = categories(p.Affiliations)
	}
	before := formatProfile(name, cats)

	payload := state.FilterEmpty(form)
	if _, ok := payload["display_name"]; ok {
		name = strings.TrimSpace(*form.DisplayName)
	}
	if _, ok := payload["affiliations"]; ok {
		ids := slices.Compact(slices.Sorted(slices.Values(form.Affiliations)))
		cats = make([]string, 0, len(ids))
		for _, id := range ids {
			if aff, found := a.catalog.Lookup(id); found {
				cats = append(cats, aff.Category)
				continue
			}
			cats = append(cats, fmt.Sprintf("#%d (unknown)", id))
		}
	}
	return before, formatProfile(name, cats)
}

// diffPreview is a line diff of before and after: "- " removed,
// "+ " added, "  " unchanged.
func diffPreview(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix + line)
		}
	}
	return sb.String()
}
