// Package migrate runs the embedded schema migrations.
package migrate

import (
	"context"
	"embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/quizhub/quizhub/pkg/db"
)

//go:embed *.sql
var sqls embed.FS

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

// Keep this in order of execution, oldest to newest.
var migrations = []Migration{
	createTables,
}

// dialect maps a driver name to the name used by the SQL files.
func dialect(driverName string) string {
	switch driverName {
	case "sqlite", "sqlite3":
		return driverSQLite
	case "postgres", "pgx":
		return driverPostgres
	default:
		return driverName
	}
}

func execMigration(ctx context.Context, h db.Handler, version int64, name string, down bool) error {
	direction := "up"
	if down {
		direction = "down"
	}

	fn := fmt.Sprintf("%04d_%s_%s.%s.sql", version, toSnakeCase(name), dialect(h.DriverName()), direction)
	sqlstr, err := sqls.ReadFile(fn)
	if err != nil {
		return err
	}

	if _, err := h.ExecContext(ctx, string(sqlstr)); err != nil {
		return err
	}

	return nil
}

func migrateUp(ctx context.Context, h db.Handler, version int64, name string) error {
	return execMigration(ctx, h, version, name, false)
}

func migrateDown(ctx context.Context, h db.Handler, version int64, name string) error {
	return execMigration(ctx, h, version, name, true)
}

var matchFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
var matchAllCap = regexp.MustCompile("([a-z0-9])([A-Z])")

func toSnakeCase(str string) string {
	str = strings.ReplaceAll(str, "-", "_")
	str = strings.ReplaceAll(str, " ", "_")
	snake := matchFirstCap.ReplaceAllString(str, "${1}_${2}")
	snake = matchAllCap.ReplaceAllString(snake, "${1}_${2}")
	return strings.ToLower(snake)
}
