// Package sqlite implements the draft repository on an embedded SQLite
// database.
package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/mergefield/internal/drafts"
	"github.com/zjrosen/mergefield/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// busyTimeoutMs is how long a writer waits on a locked database.
const busyTimeoutMs = 5000

// DB owns the connection pool and the repositories built on it.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if needed) the database at path and migrates it to
// the latest schema. An existing file is copied to path+".bak" before
// migrations run. The special path ":memory:" opens a private in-memory
// database.
func NewDB(path string) (*DB, error) {
	dsn := dsnFor(path)
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		if err := backup(path); err != nil {
			return nil, fmt.Errorf("backing up database: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.ErrorErr(log.CatDrafts, "Failed to open database", err, "path", path)
		return nil, err
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connecting to %s: %w", path, err)
	}

	if err := migrateUp(conn, migrationsFS, "migrations"); err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Info(log.CatDrafts, "Connected to database", "path", path)
	return &DB{conn: conn, path: path}, nil
}

func dsnFor(path string) string {
	pragmas := fmt.Sprintf("_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", busyTimeoutMs)
	if path == ":memory:" {
		return "file::memory:?" + pragmas
	}
	return "file:" + path + "?" + pragmas + "&_pragma=journal_mode(wal)"
}

// backup copies an existing database file so a failed migration can be
// rolled back by hand.
func backup(path string) error {
	src, err := os.Open(path) //nolint:gosec // G304: path comes from configuration
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(path+".bak", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // G304: derived from configured path
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Connection returns the underlying connection pool.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// DraftRepository returns a drafts.Repository backed by this database.
// Closing the repository closes the database.
func (db *DB) DraftRepository() drafts.Repository {
	return newDraftRepository(db)
}
