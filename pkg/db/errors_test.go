package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/matryer/is"
)

func TestWrapErrorPassThrough(t *testing.T) {
	for _, e := range []error{
		fmt.Errorf("foo"),
		errors.New("bar"),
	} {
		if err := WrapError(e); err != e {
			t.Errorf("WrapError(%v) => %v, want %v", e, err, e)
		}
	}
	if err := WrapError(nil); err != nil {
		t.Errorf("WrapError(nil) => %v, want nil", err)
	}
}

func TestWrapErrorNoRows(t *testing.T) {
	wrapped := fmt.Errorf("get user: %w", sql.ErrNoRows)
	if err := WrapError(wrapped); err != ErrRecordNotFound {
		t.Errorf("WrapError(%v) => %v, want %v", wrapped, err, ErrRecordNotFound)
	}
}

func TestWrapErrorPostgres(t *testing.T) {
	is := is.New(t)
	is.Equal(WrapError(&pq.Error{Code: "23505"}), ErrDuplicateKey)
	is.Equal(WrapError(&pq.Error{Code: "23503"}), ErrForeignKey)
}

func TestWrapErrorSqliteUnique(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	dsn := filepath.Join(t.TempDir(), "errors.db") + "?_pragma=foreign_keys(1)"
	dbx, err := Open(ctx, "sqlite", dsn)
	is.NoErr(err)
	t.Cleanup(func() { _ = dbx.Close() })

	_, err = dbx.ExecContext(ctx, `CREATE TABLE parents (id INTEGER PRIMARY KEY, name TEXT UNIQUE)`)
	is.NoErr(err)
	_, err = dbx.ExecContext(ctx, `CREATE TABLE children (id INTEGER PRIMARY KEY, parent_id INTEGER NOT NULL REFERENCES parents (id))`)
	is.NoErr(err)
	_, err = dbx.ExecContext(ctx, `INSERT INTO parents (name) VALUES ('a')`)
	is.NoErr(err)

	_, err = dbx.ExecContext(ctx, `INSERT INTO parents (name) VALUES ('a')`)
	is.Equal(WrapError(err), ErrDuplicateKey)

	_, err = dbx.ExecContext(ctx, `INSERT INTO children (parent_id) VALUES (42)`)
	is.Equal(WrapError(err), ErrForeignKey)
}
