package state

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/publiceyeusa/publiceye/internal/client/client"
)

// ProfileAPI is the part of client.Client the profile container drives.
type ProfileAPI interface {
	GetProfile(ctx context.Context) (*client.Profile, error)
	UpdateProfile(ctx context.Context, fields map[string]any) (*client.Profile, error)
	GetDisplayName(ctx context.Context) (string, error)
}

// ProfileForm is an edit request. A nil DisplayName and an empty
// Affiliations list mean "leave unchanged".
type ProfileForm struct {
	DisplayName  *string
	Affiliations []int64
}

// FilterEmpty turns a form into the PUT payload, dropping nil values,
// blank or whitespace-only strings and empty lists.
func FilterEmpty(f ProfileForm) map[string]any {
	out := make(map[string]any, 2)
	if f.DisplayName != nil && strings.TrimSpace(*f.DisplayName) != "" {
		out["display_name"] = *f.DisplayName
	}
	if len(f.Affiliations) > 0 {
		out["affiliations"] = slices.Clone(f.Affiliations)
	}
	return out
}

type ProfileSnapshot struct {
	// Profile is nil until the first successful fetch.
	Profile     *client.Profile
	DisplayName string
	Loading     bool
	Error       string
}

type Profile struct {
	api ProfileAPI

	mu          sync.Mutex
	profile     *client.Profile
	displayName string
	err         string
	seq         tracker
}

func NewProfile(api ProfileAPI) *Profile {
	return &Profile{api: api}
}

func (p *Profile) Snapshot() ProfileSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ProfileSnapshot{
		Profile:     cloneProfile(p.profile),
		DisplayName: p.displayName,
		Loading:     p.seq.loading(),
		Error:       p.err,
	}
}

func (p *Profile) begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = ""
	return p.seq.begin()
}

// settle stores the outcome of a fetch or an update: the server's copy
// replaces the local one wholesale.
func (p *Profile) settle(seq uint64, got *client.Profile, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.seq.end(seq) {
		return
	}
	if err != nil {
		p.err = ErrorMessage(err)
		return
	}
	p.profile = cloneProfile(got)
	p.displayName = got.DisplayName
}

func (p *Profile) Fetch(ctx context.Context) error {
	seq := p.begin()
	got, err := p.api.GetProfile(ctx)
	p.settle(seq, got, err)
	return err
}

// Update sends the non-empty fields of f. There is no optimistic update:
// local state changes only when the server answers.
func (p *Profile) Update(ctx context.Context, f ProfileForm) error {
	seq := p.begin()
	got, err := p.api.UpdateProfile(ctx, FilterEmpty(f))
	p.settle(seq, got, err)
	return err
}

func (p *Profile) DisplayName(ctx context.Context) (string, error) {
	seq := p.begin()
	name, err := p.api.GetDisplayName(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.seq.end(seq) {
		return name, err
	}
	if err != nil {
		p.err = ErrorMessage(err)
		return "", err
	}
	p.displayName = name
	return name, nil
}

// Reset forgets the cached profile and drops in-flight responses.
func (p *Profile) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq.invalidate()
	p.profile = nil
	p.displayName = ""
	p.err = ""
}

func cloneProfile(p *client.Profile) *client.Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Affiliations = slices.Clone(p.Affiliations)
	return &c
}
