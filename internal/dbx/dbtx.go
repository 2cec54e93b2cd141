// Package dbx holds the database plumbing shared by repositories: the DBTX
// interface satisfied by *sql.DB and *sql.Tx, the WithTx helper and
// driver-neutral error classification.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction on db. It commits when fn returns
// nil and rolls back when fn fails or panics; a panic is re-raised after the
// rollback. Begin and commit failures are wrapped with "begin tx" and
// "commit tx".
//
// With SQLite the pool holds a single connection, so fn must not touch the
// *sql.DB it was started from.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	_, err := WithTxValue(ctx, db, opts, func(ctx context.Context, tx DBTX) (struct{}, error) {
		return struct{}{}, fn(ctx, tx)
	})
	return err
}

// WithTxValue is WithTx for callbacks that produce a value, e.g. the row
// written by a read-check-write update:
//
//	c, err := dbx.WithTxValue(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Credential, error) {
//		repo := credentials.NewSQLRepository(tx)
//		c, err := repo.GetByID(ctx, id)
//		if err != nil {
//			return nil, err
//		}
//		c.Login = login
//		return c, repo.Update(ctx, c)
//	})
//
// The zero T is returned whenever err is non-nil.
func WithTxValue[T any](ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) (T, error)) (v T, err error) {
	var zero T

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return zero, fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tx.Rollback()
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	v, err = fn(ctx, tx)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		committed = true
		return zero, fmt.Errorf("commit tx: %w", err)
	}
	committed = true

	return v, nil
}
