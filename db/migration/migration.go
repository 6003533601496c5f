// Package migration holds the database schema and applies it.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/haim1120/maaserbot/pkg/dbpkg"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

func dir(d dbpkg.Dialect) string {
	if d == dbpkg.SQLite {
		return "sqlite"
	}

	return "postgres"
}

// Up applies all pending migrations.
//
// It opens a dedicated connection because the migrate instance closes it when done.
// It returns false when the schema was already up to date.
func Up(driver, source string) (bool, error) {
	dialect, err := dbpkg.DialectOf(driver)
	if err != nil {
		return false, err
	}

	conn, err := sql.Open(driver, source)
	if err != nil {
		return false, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return false, err
	}

	var target database.Driver

	switch dialect {
	case dbpkg.SQLite:
		target, err = sqlite.WithInstance(conn, &sqlite.Config{})
	default:
		target, err = postgres.WithInstance(conn, &postgres.Config{})
	}

	if err != nil {
		conn.Close()
		return false, fmt.Errorf("create migrate driver: %w", err)
	}

	src, err := iofs.New(files, dir(dialect))
	if err != nil {
		conn.Close()
		return false, fmt.Errorf("open migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dir(dialect), target)
	if err != nil {
		conn.Close()
		return false, fmt.Errorf("create migrate instance: %w", err)
	}

	upErr := m.Up()

	srcErr, dbErr := m.Close()

	switch {
	case upErr != nil && !errors.Is(upErr, migrate.ErrNoChange):
		return false, fmt.Errorf("apply migrations: %w", upErr)
	case srcErr != nil:
		return false, fmt.Errorf("close migration source: %w", srcErr)
	case dbErr != nil:
		return false, fmt.Errorf("close migration db: %w", dbErr)
	}

	return upErr == nil, nil
}

// Apply executes every up migration directly on db.
//
// It does not track versions and is meant for fresh databases, such as in-memory test stores.
func Apply(ctx context.Context, db *dbpkg.DB) error {
	names, err := fs.Glob(files, dir(db.Dialect)+"/*.up.sql")
	if err != nil {
		return err
	}

	for _, name := range names {
		stmt, err := fs.ReadFile(files, name)
		if err != nil {
			return err
		}

		if _, err := db.DB.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}

	return nil
}
