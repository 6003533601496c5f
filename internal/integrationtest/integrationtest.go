// Package integrationtest provides db helpers used in store backed tests.
package integrationtest

import (
	"context"
	"testing"

	"github.com/haim1120/maaserbot/db/migration"
	"github.com/haim1120/maaserbot/pkg/configpkg"
	"github.com/haim1120/maaserbot/pkg/dbpkg"
)

// SetupSQLite returns an in-memory SQLite database with the schema applied.
//
// Every call gets its own database, so tests using it can run in parallel.
func SetupSQLite(t *testing.T) *dbpkg.DB {
	t.Helper()

	db, err := dbpkg.Setup(dbpkg.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("db cleanup failed. err: %v", err)
		}
	})

	if err := migration.Apply(context.Background(), db); err != nil {
		t.Fatalf("migration.Apply() failed. err: %v", err)
	}

	return db
}

// SetupPostgres connects to the database from configs/app.env, migrates it and flushes it after the test.
func SetupPostgres(t *testing.T, configPath string) *dbpkg.DB {
	t.Helper()

	config, err := configpkg.Load(configPath)
	if err != nil {
		t.Fatalf(`configpkg.Load(%q) returned error: %v`, configPath, err)
	}

	if _, err := migration.Up(config.DBDriver, config.DBSource); err != nil {
		t.Fatalf("migration.Up() failed. err: %v", err)
	}

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	t.Cleanup(func() {
		Flush(t, db)

		if err := db.Close(); err != nil {
			t.Errorf("db cleanup failed. err: %v", err)
		}
	})

	return db
}

// Flush flushes all app tables without droping.
func Flush(t *testing.T, db *dbpkg.DB) {
	t.Helper()

	const query = `TRUNCATE TABLE access_requests, payment_entries, income_entries, accounts RESTART IDENTITY CASCADE`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		t.Fatalf("db cleanup failed. err: %v", err)
	}
}
