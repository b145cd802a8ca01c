package migrate

import (
	"context"
	"testing"

	"github.com/matryer/is"
	"github.com/quizhub/quizhub/pkg/db/internal/test"
)

func TestMigrate(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)
	is.NoErr(Migrate(ctx, dbx))

	// Running twice is a no-op.
	is.NoErr(Migrate(ctx, dbx))

	var tables []string
	is.NoErr(dbx.SelectContext(ctx, &tables, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name"))
	is.Equal(tables, []string{
		"actions",
		"companies",
		"company_members",
		"migrations",
		"notifications",
		"questions",
		"quizzes",
		"results",
		"users",
	})
}

func TestRollback(t *testing.T) {
	is := is.New(t)
	ctx := context.TODO()
	dbx, err := test.OpenSqlite(ctx, t)
	is.NoErr(err)
	is.NoErr(Migrate(ctx, dbx))
	is.NoErr(Rollback(ctx, dbx))

	var count int
	is.NoErr(dbx.GetContext(ctx, &count, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='actions'"))
	is.Equal(count, 0)

	is.True(Rollback(ctx, dbx) != nil)
}

func TestToSnakeCase(t *testing.T) {
	is := is.New(t)
	is.Equal(toSnakeCase("create tables"), "create_tables")
	is.Equal(toSnakeCase("AddQuizIndexes"), "add_quiz_indexes")
}

func TestDialect(t *testing.T) {
	is := is.New(t)
	is.Equal(dialect("pgx"), driverPostgres)
	is.Equal(dialect("sqlite3"), driverSQLite)
}
