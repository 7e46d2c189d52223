package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campus-canteen/internal/config"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type DB struct {
	*sql.DB
	Driver string
	dsn    string
}

type Config struct {
	Driver   string
	URL      string // Full database URL
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string // sqlite3 file or ":memory:"
}

// DSN builds the driver specific data source name.
func (c Config) DSN() string {
	if c.Driver == DriverSQLite {
		path := c.Path
		if path == "" {
			path = "canteen.db"
		}
		return path + "?_foreign_keys=on&_busy_timeout=5000"
	}
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ConfigFrom maps the application database settings onto a connection config.
func ConfigFrom(c config.DatabaseConfig) Config {
	return Config{
		Driver:   c.Driver,
		URL:      c.URL,
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		DBName:   c.DBName,
		SSLMode:  c.SSLMode,
		Path:     c.Path,
	}
}

func NewConnection(cfg Config) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverPostgres
	}
	cfg.Driver = driver
	dsn := cfg.DSN()

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// one connection keeps :memory: databases alive and avoids writer contention
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, Driver: driver, dsn: dsn}, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// RunMigrations applies all pending migrations
func (db *DB) RunMigrations() error {
	return NewMigrator(db).Up()
}

// WithTx runs fn inside a transaction and commits when fn returns nil.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// OpenInMemory returns a migrated in-memory sqlite database.
func OpenInMemory() (*DB, error) {
	db, err := NewConnection(Config{Driver: DriverSQLite, Path: ":memory:"})
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
