package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite3/*.sql
var migrationFiles embed.FS

type Migration struct {
	Version int
	Name    string
	Applied bool
}

type Migrator struct {
	db *DB
}

func NewMigrator(db *DB) *Migrator {
	return &Migrator{db: db}
}

func (m *Migrator) dir() string {
	return "migrations/" + m.db.Driver
}

// open builds a migrate instance. The returned closer must be called when done.
//
// For postgres a dedicated handle is opened since the driver pins a connection
// and closes its *sql.DB. sqlite shares the application handle, which may be
// an in-memory database, and is therefore never closed here.
func (m *Migrator) open() (*migrate.Migrate, func(), error) {
	src, err := iofs.New(migrationFiles, m.dir())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var (
		driver migratedb.Driver
		closer = func() {}
	)

	switch m.db.Driver {
	case DriverSQLite:
		driver, err = sqlite3.WithInstance(m.db.DB, &sqlite3.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to init sqlite3 migration driver: %w", err)
		}
	default:
		conn, err := sql.Open(DriverPostgres, m.db.dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open migration connection: %w", err)
		}
		driver, err = postgres.WithInstance(conn, &postgres.Config{})
		if err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("failed to init postgres migration driver: %w", err)
		}
		closer = func() { driver.Close() }
	}

	mg, err := migrate.NewWithInstance("iofs", src, m.db.Driver, driver)
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return mg, closer, nil
}

// Up applies all pending migrations
func (m *Migrator) Up() error {
	mg, closer, err := m.open()
	if err != nil {
		return err
	}
	defer closer()

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration
func (m *Migrator) Down() error {
	mg, closer, err := m.open()
	if err != nil {
		return err
	}
	defer closer()

	if err := mg.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Version returns the applied schema version and whether it is dirty.
func (m *Migrator) Version() (uint, bool, error) {
	mg, closer, err := m.open()
	if err != nil {
		return 0, false, err
	}
	defer closer()

	version, dirty, err := mg.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// LoadMigrations lists the embedded up migrations for the current driver.
func (m *Migrator) LoadMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFiles, m.dir())
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		// e.g. "000001_create_users.up.sql"
		parts := strings.SplitN(name, "_", 2)
		if len(parts) != 2 {
			continue
		}

		var version int
		if _, err := fmt.Sscanf(parts[0], "%d", &version); err != nil {
			continue
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], ".up.sql"),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// Status lists migrations and marks the applied ones.
func (m *Migrator) Status() ([]Migration, error) {
	migrations, err := m.LoadMigrations()
	if err != nil {
		return nil, err
	}

	current, _, err := m.Version()
	if err != nil {
		return nil, err
	}

	for i := range migrations {
		migrations[i].Applied = uint(migrations[i].Version) <= current
	}
	return migrations, nil
}
