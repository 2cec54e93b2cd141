package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/edupass/internal/common"
	"github.com/dmitrijs2005/edupass/internal/filex"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const sqlitePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"

// OpenDB opens and pings the database for driver. For SQLite, dsn is a
// file path or a ready "file:" URI; the directory of an on-disk database
// is created, and a single connection serializes writers.
func OpenDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case common.DriverPostgres:
	case common.DriverSQLite:
		var err error
		if dsn, err = sqliteDSN(dsn); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == common.DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	return db, nil
}

func sqliteDSN(dsn string) (string, error) {
	if path := filex.SQLiteFile(dsn); path != "" {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return "", err
		}
	}
	if strings.HasPrefix(dsn, "file:") {
		return dsn, nil
	}
	return fmt.Sprintf("file:%s?%s", dsn, sqlitePragmas), nil
}
