package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/edupass/internal/common"
	"github.com/dmitrijs2005/edupass/internal/logging"
	"github.com/dmitrijs2005/edupass/internal/server/auth"
	"github.com/dmitrijs2005/edupass/internal/server/models"
	"github.com/dmitrijs2005/edupass/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

var testTime = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

type fakeUsers struct {
	err     error
	gotName string
	gotID   string
}

func (f *fakeUsers) Register(_ context.Context, name, email, _ string) (*services.AuthResult, error) {
	f.gotName = name
	if f.err != nil {
		return nil, f.err
	}
	return &services.AuthResult{
		User:  &models.User{ID: "u-ana", Name: name, Email: email, PasswordHash: "$2a$hash", CreatedAt: testTime},
		Token: "tok",
	}, nil
}

func (f *fakeUsers) Login(_ context.Context, email, _ string) (*services.AuthResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.AuthResult{
		User:  &models.User{ID: "u-ana", Name: "Ana", Email: email, PasswordHash: "$2a$hash", CreatedAt: testTime},
		Token: "tok",
	}, nil
}

func (f *fakeUsers) Me(_ context.Context, userID string) (*models.User, error) {
	f.gotID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: userID, Name: "Ana", Email: "ana@escola.com", PasswordHash: "$2a$hash", CreatedAt: testTime}, nil
}

type fakeSites struct {
	sites []*models.Site
	err   error
}

func (f *fakeSites) List(context.Context) ([]*models.Site, error) {
	return f.sites, f.err
}

type credCall struct {
	userID, id, siteID, login, secret string
}

type fakeCredentials struct {
	err  error
	last credCall
}

func (f *fakeCredentials) plain(userID, id, siteID, login, secret string) *models.PlainCredential {
	return &models.PlainCredential{
		ID: id, UserID: userID, SiteID: siteID, Login: login, Password: secret, UpdatedAt: testTime,
		Site: &models.Site{ID: siteID, Name: "Canva for Education"},
	}
}

func (f *fakeCredentials) List(_ context.Context, userID string) ([]*models.PlainCredential, error) {
	f.last = credCall{userID: userID}
	if f.err != nil {
		return nil, f.err
	}
	return []*models.PlainCredential{f.plain(userID, "c-1", "canva-edu", "ana.s", "MyP@ss1")}, nil
}

func (f *fakeCredentials) Create(_ context.Context, userID, siteID, login, secret string) (*models.PlainCredential, error) {
	f.last = credCall{userID: userID, siteID: siteID, login: login, secret: secret}
	if f.err != nil {
		return nil, f.err
	}
	return f.plain(userID, "c-1", siteID, login, secret), nil
}

func (f *fakeCredentials) Update(_ context.Context, userID, id, login, secret string) (*models.PlainCredential, error) {
	f.last = credCall{userID: userID, id: id, login: login, secret: secret}
	if f.err != nil {
		return nil, f.err
	}
	return f.plain(userID, id, "canva-edu", login, secret), nil
}

func (f *fakeCredentials) Delete(_ context.Context, userID, id string) error {
	f.last = credCall{userID: userID, id: id}
	return f.err
}

// fakeTokens accepts "good" as u-ana and "expired" as an expired token.
type fakeTokens struct {
	calls int
}

func (f *fakeTokens) Verify(token string) (auth.Identity, error) {
	f.calls++
	switch token {
	case "good":
		return auth.Identity{UserID: "u-ana", Email: "ana@escola.com"}, nil
	case "expired":
		return auth.Identity{}, common.ErrTokenExpired
	}
	return auth.Identity{}, common.ErrInvalidToken
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

type testEnv struct {
	users  *fakeUsers
	sites  *fakeSites
	creds  *fakeCredentials
	tokens *fakeTokens
	ping   error
	h      http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:  &fakeUsers{},
		sites:  &fakeSites{sites: []*models.Site{{ID: "canva-edu", Name: "Canva for Education"}}},
		creds:  &fakeCredentials{},
		tokens: &fakeTokens{},
	}
	s := NewServer(":0", nopLogger{}, Deps{
		Users:          env.users,
		Sites:          env.sites,
		Credentials:    env.creds,
		Tokens:         env.tokens,
		DB:             pingerFunc(func(context.Context) error { return env.ping }),
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	env.h = s.Router()
	return env
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

var errBoom = errors.New("pq: connection reset by peer")
