package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/publiceyeusa/publiceye/internal/common"
	"github.com/publiceyeusa/publiceye/internal/dbx"
	"github.com/publiceyeusa/publiceye/internal/server/models"
	"github.com/publiceyeusa/publiceye/internal/server/repositories/affiliations"
	"github.com/publiceyeusa/publiceye/internal/server/repositories/profiles"
	"github.com/publiceyeusa/publiceye/internal/server/repositories/tokens"
	"github.com/publiceyeusa/publiceye/internal/server/repositories/users"
)

// store is an in-memory stand-in for the database shared by the fake repos.
type store struct {
	users      map[string]*models.User
	tokens     map[string]*models.Token // by user id
	profiles   map[string]*models.Profile
	catalog    []models.Affiliation
	selections map[int64][]int64

	nextUser    int
	nextProfile int64

	usersErr  error
	tokensErr error
	profErr   error
	affErr    error

	affListCalls int

	// onLock runs when a user row lock is granted.
	onLock func(userID string)
}

func newStore() *store {
	return &store{
		users:      map[string]*models.User{},
		tokens:     map[string]*models.Token{},
		profiles:   map[string]*models.Profile{},
		selections: map[int64][]int64{},
		catalog: []models.Affiliation{
			{ID: 1, Category: "Democratic Party"},
			{ID: 2, Category: "Republican Party"},
			{ID: 3, Category: "Green Party"},
		},
	}
}

type fakeUsers struct{ s *store }

func (f fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.s.usersErr != nil {
		return nil, f.s.usersErr
	}
	for _, existing := range f.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	f.s.nextUser++
	u.ID = fmt.Sprintf("u-%d", f.s.nextUser)
	u.CreatedAt = time.Now()
	cp := *u
	f.s.users[u.ID] = &cp
	return u, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.s.usersErr != nil {
		return nil, f.s.usersErr
	}
	for _, u := range f.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if f.s.usersErr != nil {
		return nil, f.s.usersErr
	}
	u, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) Delete(_ context.Context, id string) error {
	if f.s.usersErr != nil {
		return f.s.usersErr
	}
	if _, ok := f.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.s.users, id)
	delete(f.s.tokens, id)
	delete(f.s.profiles, id)
	return nil
}

func (f fakeUsers) LockByID(_ context.Context, id string) error {
	if f.s.usersErr != nil {
		return f.s.usersErr
	}
	if _, ok := f.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	if hook := f.s.onLock; hook != nil {
		f.s.onLock = nil
		hook(id)
	}
	return nil
}

type fakeTokens struct{ s *store }

func (f fakeTokens) Create(_ context.Context, t *models.Token) error {
	if f.s.tokensErr != nil {
		return f.s.tokensErr
	}
	if _, ok := f.s.tokens[t.UserID]; ok {
		return common.ErrorAlreadyExists
	}
	t.CreatedAt = time.Now()
	cp := *t
	f.s.tokens[t.UserID] = &cp
	return nil
}

func (f fakeTokens) FindByKey(_ context.Context, key string) (*models.Token, error) {
	if f.s.tokensErr != nil {
		return nil, f.s.tokensErr
	}
	for _, t := range f.s.tokens {
		if t.Key == key {
			cp := *t
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f fakeTokens) FindByUser(_ context.Context, userID string) (*models.Token, error) {
	if f.s.tokensErr != nil {
		return nil, f.s.tokensErr
	}
	t, ok := f.s.tokens[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (f fakeTokens) DeleteByUser(_ context.Context, userID string) error {
	if f.s.tokensErr != nil {
		return f.s.tokensErr
	}
	delete(f.s.tokens, userID)
	return nil
}

type fakeProfiles struct{ s *store }

func (f fakeProfiles) Create(_ context.Context, userID string) (*models.Profile, error) {
	if f.s.profErr != nil {
		return nil, f.s.profErr
	}
	f.s.nextProfile++
	p := &models.Profile{ID: f.s.nextProfile, UserID: userID}
	f.s.profiles[userID] = p
	return &models.Profile{ID: p.ID, UserID: userID, Affiliations: []models.Affiliation{}}, nil
}

func (f fakeProfiles) GetByUser(ctx context.Context, userID string) (*models.Profile, error) {
	if f.s.profErr != nil {
		return nil, f.s.profErr
	}
	p, ok := f.s.profiles[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := &models.Profile{ID: p.ID, UserID: p.UserID}
	if p.DisplayName != nil {
		name := *p.DisplayName
		out.DisplayName = &name
	}
	affs, err := f.ListAffiliations(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out.Affiliations = affs
	return out, nil
}

func (f fakeProfiles) byID(id int64) *models.Profile {
	for _, p := range f.s.profiles {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (f fakeProfiles) UpdateDisplayName(_ context.Context, profileID int64, name string) error {
	p := f.byID(profileID)
	if p == nil {
		return common.ErrorNotFound
	}
	p.DisplayName = &name
	return nil
}

func (f fakeProfiles) ClearAffiliations(_ context.Context, profileID int64) error {
	delete(f.s.selections, profileID)
	return nil
}

func (f fakeProfiles) AddAffiliation(_ context.Context, profileID, affiliationID int64) error {
	if !slices.ContainsFunc(f.s.catalog, func(a models.Affiliation) bool { return a.ID == affiliationID }) {
		return fmt.Errorf("%w: unknown affiliation id %d", common.ErrorValidation, affiliationID)
	}
	f.s.selections[profileID] = append(f.s.selections[profileID], affiliationID)
	return nil
}

func (f fakeProfiles) ListAffiliations(_ context.Context, profileID int64) ([]models.Affiliation, error) {
	out := []models.Affiliation{}
	for _, a := range f.s.catalog {
		if slices.Contains(f.s.selections[profileID], a.ID) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeAffiliations struct{ s *store }

func (f fakeAffiliations) List(context.Context) ([]models.Affiliation, error) {
	f.s.affListCalls++
	if f.s.affErr != nil {
		return nil, f.s.affErr
	}
	return slices.Clone(f.s.catalog), nil
}

func (f fakeAffiliations) GetByCategory(_ context.Context, category string) (*models.Affiliation, error) {
	if f.s.affErr != nil {
		return nil, f.s.affErr
	}
	for _, a := range f.s.catalog {
		if strings.EqualFold(a.Category, category) {
			cp := a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f fakeAffiliations) Create(_ context.Context, category string) (*models.Affiliation, error) {
	if f.s.affErr != nil {
		return nil, f.s.affErr
	}
	for _, a := range f.s.catalog {
		if a.Category == category {
			return nil, common.ErrorAlreadyExists
		}
	}
	a := models.Affiliation{ID: int64(len(f.s.catalog) + 1), Category: category}
	f.s.catalog = append(f.s.catalog, a)
	return &a, nil
}

type fakeRepoManager struct{ s *store }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return fakeUsers{m.s} }
func (m *fakeRepoManager) Tokens(dbx.DBTX) tokens.Repository            { return fakeTokens{m.s} }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository        { return fakeProfiles{m.s} }
func (m *fakeRepoManager) Affiliations(dbx.DBTX) affiliations.Repository {
	return fakeAffiliations{m.s}
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}
