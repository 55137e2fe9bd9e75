package filecache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/glance/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB is the on-disk tier of the file cache.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if needed) the SQLite database at path and brings its
// schema up to date.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	if err := runMigrations(path); err != nil {
		return nil, err
	}

	conn, err := open(path)
	if err != nil {
		return nil, err
	}
	log.Info(log.CatCache, "cache database ready", "path", path)
	return &DB{conn: conn, path: path}, nil
}

func open(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pinging cache database: %w", err)
	}
	// SQLite allows a single writer.
	conn.SetMaxOpenConns(1)
	return conn, nil
}

// runMigrations applies the embedded migrations on a dedicated connection,
// which migrate closes when done.
func runMigrations(path string) error {
	conn, err := open(path)
	if err != nil {
		return err
	}

	driver, err := sqlitemigrate.WithInstance(conn, &sqlitemigrate.Config{})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("creating migration driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn(log.CatCache, "closing migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	version, dirty, _ := m.Version()
	log.Debug(log.CatCache, "migrations applied", "version", version, "dirty", dirty)
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file location.
func (db *DB) Path() string {
	return db.path
}
