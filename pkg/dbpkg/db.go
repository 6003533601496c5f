// Package dbpkg provides helpers to make db initialization and testing easier.
package dbpkg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Registered database/sql drivers: "postgres", "pgx" and "sqlite".
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

// Dialect is the SQL flavour spoken by a driver.
type Dialect int

// Supported dialects.
const (
	Postgres Dialect = iota
	SQLite
)

// DialectOf returns the dialect of the driver.
func DialectOf(driver string) (Dialect, error) {
	switch driver {
	case DriverPostgres, DriverPgx:
		return Postgres, nil
	case DriverSQLite:
		return SQLite, nil
	}

	return 0, fmt.Errorf("unsupported db driver %q", driver)
}

// Rebind rewrites $N placeholders for the dialect.
//
// Queries are written with $N placeholders. SQLite gets ?N instead so that
// numbered parameters keep their positions.
func (d Dialect) Rebind(query string) string {
	if d != SQLite {
		return query
	}

	return strings.ReplaceAll(query, "$", "?")
}

// DB wraps a *sql.DB with the dialect of its driver.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Setup sets up connection with database.
func Setup(driver, source string) (*DB, error) {
	dialect, err := DialectOf(driver)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, source)
	if err != nil {
		return nil, err
	}

	if dialect == SQLite {
		// A single writer avoids SQLITE_BUSY and keeps :memory: databases alive.
		conn.SetMaxOpenConns(1)

		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, err
		}
	}

	if err = conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{DB: conn, Dialect: dialect}, nil
}

// ExecContext executes a query without returning any rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.DB.ExecContext(ctx, db.Dialect.Rebind(query), args...)
}

// PrepareContext creates a prepared statement.
func (db *DB) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return db.DB.PrepareContext(ctx, db.Dialect.Rebind(query))
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, db.Dialect.Rebind(query), args...)
}

// QueryRowContext executes a query that is expected to return at most one row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRowContext(ctx, db.Dialect.Rebind(query), args...)
}

// BeginTx starts a transaction that rebinds queries like db does.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &Tx{Tx: tx, Dialect: db.Dialect}, nil
}

// Tx wraps a *sql.Tx with the dialect of its driver.
type Tx struct {
	*sql.Tx
	Dialect Dialect
}

// ExecContext executes a query without returning any rows.
func (tx *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return tx.Tx.ExecContext(ctx, tx.Dialect.Rebind(query), args...)
}

// PrepareContext creates a prepared statement for use within the transaction.
func (tx *Tx) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return tx.Tx.PrepareContext(ctx, tx.Dialect.Rebind(query))
}

// QueryContext executes a query that returns rows.
func (tx *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return tx.Tx.QueryContext(ctx, tx.Dialect.Rebind(query), args...)
}

// QueryRowContext executes a query that is expected to return at most one row.
func (tx *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return tx.Tx.QueryRowContext(ctx, tx.Dialect.Rebind(query), args...)
}
