// Package database opens the PostgreSQL pool and keeps its schema current.
// Migration SQL is embedded in the binary and applied with goose at startup,
// so a deployed binary needs no migration files on disk.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

// Pool sizing. The workload is short CRUD queries; a small pool with idle
// recycling is plenty.
const (
	maxOpenConns    = 10
	connMaxIdleTime = 5 * time.Minute
)

// Connect opens a pgx-backed *sql.DB for the DSN and pings it, so a bad DSN
// or an unreachable server fails at startup rather than on the first query.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	slog.Info("database connected")
	return db, nil
}

// Migrate applies any pending migrations from the embedded SQL files.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	slog.Info("database migrations applied")
	return nil
}
