package repomanager

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/edupass/internal/common"
	"github.com/dmitrijs2005/edupass/internal/dbx"
	"github.com/dmitrijs2005/edupass/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs the real migrations and repositories against a SQLite file.
func TestSQLite_MigrateAndRoundTrip(t *testing.T) {
	ctx := context.Background()

	db, err := OpenDB(ctx, "sqlite", filepath.Join(t.TempDir(), "data", "edupass.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := NewRepositoryManager("sqlite")
	require.NoError(t, err)
	require.NoError(t, m.RunMigrations(ctx, db))
	require.NoError(t, m.RunMigrations(ctx, db), "migrations are idempotent")

	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

	// users
	_, err = m.Users(db).Create(ctx, &models.User{ID: "u-1", Name: "Ana", Email: "ana@escola.com", PasswordHash: "h", CreatedAt: now})
	require.NoError(t, err)
	_, err = m.Users(db).Create(ctx, &models.User{ID: "u-2", Name: "Ana 2", Email: "ana@escola.com", PasswordHash: "h", CreatedAt: now})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	u, err := m.Users(db).GetByEmail(ctx, "ana@escola.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.True(t, u.CreatedAt.Equal(now))

	_, err = m.Users(db).GetByEmail(ctx, "ANA@escola.com")
	require.ErrorIs(t, err, common.ErrorNotFound, "email lookup is case-sensitive")

	// sites
	created, err := m.Sites(db).CreateIfAbsent(ctx, &models.Site{ID: "canva-edu", Name: "Canva for Education"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = m.Sites(db).CreateIfAbsent(ctx, &models.Site{ID: "canva-2", Name: "  canva  for EDUCATION "})
	require.NoError(t, err)
	assert.False(t, created, "normalized name already present")

	created, err = m.Sites(db).CreateIfAbsent(ctx, &models.Site{ID: "atendimento", Name: "Atendimento Prodabel"})
	require.NoError(t, err)
	assert.True(t, created)

	list, err := m.Sites(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Atendimento Prodabel", list[0].Name)

	// credentials
	cred := &models.Credential{ID: "c-1", UserID: "u-1", SiteID: "canva-edu", Login: "ana.s", PasswordEncrypted: "iv:ct", UpdatedAt: now}
	require.NoError(t, m.Credentials(db).Create(ctx, cred))

	dup := *cred
	dup.ID = "c-2"
	require.ErrorIs(t, m.Credentials(db).Create(ctx, &dup), common.ErrorAlreadyExists)

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		got, err := m.Credentials(tx).GetByID(ctx, "c-1")
		if err != nil {
			return err
		}
		got.Login = "ana.silva"
		got.UpdatedAt = now.Add(time.Hour)
		return m.Credentials(tx).Update(ctx, got)
	})
	require.NoError(t, err)

	mine, err := m.Credentials(db).ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "ana.silva", mine[0].Login)
	assert.Equal(t, "Canva for Education", mine[0].Site.Name)
	assert.True(t, mine[0].UpdatedAt.Equal(now.Add(time.Hour)))

	others, err := m.Credentials(db).ListByUser(ctx, "u-2")
	require.NoError(t, err)
	assert.Empty(t, others)

	require.ErrorIs(t, m.Credentials(db).Delete(ctx, "u-2", "c-1"), common.ErrorNotFound)
	require.NoError(t, m.Credentials(db).Delete(ctx, "u-1", "c-1"))
	require.ErrorIs(t, m.Credentials(db).Delete(ctx, "u-1", "c-1"), common.ErrorNotFound)
}

func TestSQLiteDSN(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain", "edupass.db")
	got, err := sqliteDSN(plain)
	require.NoError(t, err)
	assert.Equal(t, "file:"+plain+"?"+sqlitePragmas, got)
	assert.DirExists(t, filepath.Join(dir, "plain"))

	uri := "file:" + filepath.Join(dir, "uri", "edupass.db") + "?_pragma=foreign_keys(ON)"
	got, err = sqliteDSN(uri)
	require.NoError(t, err)
	assert.Equal(t, uri, got)
	assert.DirExists(t, filepath.Join(dir, "uri"))

	got, err = sqliteDSN("file:vault?mode=memory&cache=shared")
	require.NoError(t, err)
	assert.Equal(t, "file:vault?mode=memory&cache=shared", got)
	assert.NoDirExists(t, "vault")
}

func TestOpenDB_UnsupportedDriver(t *testing.T) {
	_, err := OpenDB(context.Background(), "mysql", "root@/edupass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
