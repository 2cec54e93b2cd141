package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/edupass/internal/dbx"
	"github.com/dmitrijs2005/edupass/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/edupass/internal/server/repositories/sites"
	"github.com/dmitrijs2005/edupass/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX so services can run
// them on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sites(db dbx.DBTX) sites.Repository
	Credentials(db dbx.DBTX) credentials.Repository
}
