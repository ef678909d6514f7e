// Package migrations embeds the goose schema migrations of the local event
// store, one directory per SQL dialect.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

// Supported dialects. The values are goose dialect names.
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"
)

var ErrNilDB = errors.New("db is nil")

//go:embed sqlite/*.sql postgres/*.sql
var embedMigrations embed.FS

// Migrate applies all pending migrations of dialect to db.
func Migrate(db *sql.DB, dialect string) error {
	if db == nil {
		return ErrNilDB
	}

	dir, err := dialectDir(dialect)
	if err != nil {
		return err
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

func dialectDir(dialect string) (string, error) {
	switch dialect {
	case DialectSQLite:
		return "sqlite", nil
	case DialectPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("migration error: unsupported dialect %q", dialect)
	}
}
