// Package migrations owns the identity schema for every supported driver.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

const (
	// DriverPostgres selects the PostgreSQL schema.
	DriverPostgres = "postgres"
	// DriverSQLite selects the SQLite schema.
	DriverSQLite = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Up applies every pending migration for driver on db.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	var dialect goose.Dialect
	switch driver {
	case DriverPostgres:
		dialect = goose.DialectPostgres
	case DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return fmt.Errorf("migrations: unsupported driver %q", driver)
	}

	fsys, err := fs.Sub(files, driver)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("migrations: new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}

	for _, r := range results {
		slog.InfoContext(ctx, "migration applied", "driver", driver, "version", r.Source.Version, "duration", r.Duration)
	}

	return nil
}
