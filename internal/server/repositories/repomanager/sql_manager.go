// Package repomanager provides the SQL RepositoryManager, wiring together
// repository constructors, driver selection and database migrations (via
// goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/edupass/internal/common"
	"github.com/dmitrijs2005/edupass/internal/dbx"
	"github.com/dmitrijs2005/edupass/internal/server/migrations"
	"github.com/dmitrijs2005/edupass/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/edupass/internal/server/repositories/sites"
	"github.com/dmitrijs2005/edupass/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// SQLRepositoryManager vends the SQL repository implementations, which
// run unchanged on PostgreSQL and SQLite, and migrates the schema with the
// goose dialect matching the driver.
type SQLRepositoryManager struct {
	dialect string
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

// Sites returns a sites.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Sites(db dbx.DBTX) sites.Repository {
	return sites.NewSQLRepository(db)
}

// Credentials returns a credentials.Repository bound to the provided DBTX.
func (m *SQLRepositoryManager) Credentials(db dbx.DBTX) credentials.Repository {
	return credentials.NewSQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewRepositoryManager constructs a RepositoryManager for driver ("pgx" or
// "sqlite").
func NewRepositoryManager(driver string) (RepositoryManager, error) {
	switch driver {
	case common.DriverPostgres:
		return &SQLRepositoryManager{dialect: "pgx"}, nil
	case common.DriverSQLite:
		return &SQLRepositoryManager{dialect: "sqlite3"}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
