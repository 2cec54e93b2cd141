package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/edupass/internal/common"
	"github.com/dmitrijs2005/edupass/internal/dbx"
	"github.com/dmitrijs2005/edupass/internal/logging"
	"github.com/dmitrijs2005/edupass/internal/server/models"
	credentialsrepo "github.com/dmitrijs2005/edupass/internal/server/repositories/credentials"
	sitesrepo "github.com/dmitrijs2005/edupass/internal/server/repositories/sites"
	usersrepo "github.com/dmitrijs2005/edupass/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) With(...any) logging.Logger            { return nopLogger{} }

// --- users ---

type fakeUsersRepo struct {
	byID map[string]*models.User

	getErr    error
	createErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.byID {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- sites ---

type fakeSitesRepo struct {
	byID map[string]*models.Site

	listErr   error
	listCalls int
	createErr error
}

func newFakeSitesRepo(sites ...models.Site) *fakeSitesRepo {
	f := &fakeSitesRepo{byID: map[string]*models.Site{}}
	for i := range sites {
		s := sites[i]
		f.byID[s.ID] = &s
	}
	return f
}

func (f *fakeSitesRepo) List(ctx context.Context) ([]*models.Site, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Site, 0, len(f.byID))
	for _, s := range f.byID {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeSitesRepo) GetByID(ctx context.Context, id string) (*models.Site, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSitesRepo) CreateIfAbsent(ctx context.Context, site *models.Site) (bool, error) {
	if f.createErr != nil {
		return false, f.createErr
	}
	key := models.NormalizeSiteName(site.Name)
	for _, s := range f.byID {
		if s.ID == site.ID || models.NormalizeSiteName(s.Name) == key {
			return false, nil
		}
	}
	cp := *site
	f.byID[site.ID] = &cp
	return true, nil
}

// --- credentials ---

type fakeCredentialsRepo struct {
	byID  map[string]*models.Credential
	sites *fakeSitesRepo

	// hideFromLookup makes GetByUserAndSite miss, so Create relies on the
	// unique constraint.
	hideFromLookup bool
	listErr        error
	updateErr      error
}

func newFakeCredentialsRepo(sites *fakeSitesRepo) *fakeCredentialsRepo {
	return &fakeCredentialsRepo{byID: map[string]*models.Credential{}, sites: sites}
}

func (f *fakeCredentialsRepo) ListByUser(ctx context.Context, userID string) ([]*models.Credential, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Credential, 0)
	for _, c := range f.byID {
		if c.UserID != userID {
			continue
		}
		cp := *c
		cp.Site, _ = f.sites.GetByID(ctx, c.SiteID)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Site.Name < out[j].Site.Name })
	return out, nil
}

func (f *fakeCredentialsRepo) GetByID(ctx context.Context, id string) (*models.Credential, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCredentialsRepo) GetByUserAndSite(ctx context.Context, userID, siteID string) (*models.Credential, error) {
	if !f.hideFromLookup {
		for _, c := range f.byID {
			if c.UserID == userID && c.SiteID == siteID {
				cp := *c
				return &cp, nil
			}
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCredentialsRepo) Create(ctx context.Context, c *models.Credential) error {
	for _, existing := range f.byID {
		if existing.UserID == c.UserID && existing.SiteID == c.SiteID {
			return common.ErrorAlreadyExists
		}
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCredentialsRepo) Update(ctx context.Context, c *models.Credential) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	existing, ok := f.byID[c.ID]
	if !ok || existing.UserID != c.UserID {
		return common.ErrorNotFound
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCredentialsRepo) Delete(ctx context.Context, userID, id string) error {
	existing, ok := f.byID[id]
	if !ok || existing.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeCredentialsRepo) ListAll(ctx context.Context) ([]*models.Credential, error) {
	var out []*models.Credential
	for _, c := range f.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSitesRepo
	c *fakeCredentialsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	s := newFakeSitesRepo(DefaultSites...)
	return &fakeRepoManager{u: newFakeUsersRepo(), s: s, c: newFakeCredentialsRepo(s)}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository             { return m.u }
func (m *fakeRepoManager) Sites(db dbx.DBTX) sitesrepo.Repository             { return m.s }
func (m *fakeRepoManager) Credentials(db dbx.DBTX) credentialsrepo.Repository { return m.c }
