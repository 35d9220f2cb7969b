// Package db holds the process-wide SQLite handle shared by the kiosk and
// both pollers, and applies the embedded schema migrations.
package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/emilianohg/punchclock/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// busyTimeoutMS lets a writer wait out a lock held by another process
// (a CLI command next to the running kiosk) instead of failing at once.
const busyTimeoutMS = 5000

var ErrNotOpen = errors.New("database not open")

var db *sql.DB

type MigrationStatus struct {
	CurrentVersion uint
	LatestVersion  uint
	Dirty          bool
	Pending        bool
}

// Open opens the database file at path, or at the configured location
// under the punchclock home when path is empty. A second call returns the
// handle already open.
func Open(path string) (*sql.DB, error) {
	if db != nil {
		return db, nil
	}

	if path == "" {
		if err := config.EnsureDirectories(); err != nil {
			return nil, err
		}
		p, err := config.DatabasePath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=%d", path, busyTimeoutMS))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// one connection serializes the kiosk's and the pollers' writes
	conn.SetMaxOpenConns(1)

	db = conn
	return db, nil
}

// OpenAndMigrate opens the configured database and brings its schema up
// to date.
func OpenAndMigrate() (*sql.DB, error) {
	conn, err := Open("")
	if err != nil {
		return nil, err
	}
	if err := Migrate(); err != nil {
		return nil, err
	}
	return conn, nil
}

func Close() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

func Get() *sql.DB {
	return db
}

// Migrate applies every pending migration. It is a no-op on an up to date
// schema.
func Migrate() error {
	m, err := newMigrator()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Status compares the schema version recorded in the database with the
// newest embedded migration.
func Status() (*MigrationStatus, error) {
	m, err := newMigrator()
	if err != nil {
		return nil, err
	}

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	latest := latestVersion(src)

	return &MigrationStatus{
		CurrentVersion: current,
		LatestVersion:  latest,
		Dirty:          dirty,
		Pending:        current < latest,
	}, nil
}

func latestVersion(src source.Driver) uint {
	v, err := src.First()
	if err != nil {
		return 0
	}
	for {
		next, err := src.Next(v)
		if err != nil {
			return v
		}
		v = next
	}
}

// newMigrator wraps the shared handle; closing the migrator would close it,
// so callers drop it instead.
func newMigrator() (*migrate.Migrate, error) {
	if db == nil {
		return nil, ErrNotOpen
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	return migrate.NewWithInstance("iofs", src, "sqlite3", driver)
}
