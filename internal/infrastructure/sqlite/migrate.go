package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/zjrosen/mergefield/internal/log"
)

// The version table uses the golang-migrate layout so the migrate CLI can
// inspect or take over a database created here.
const versionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER NOT NULL PRIMARY KEY,
	dirty INTEGER NOT NULL
)`

// migrateUp applies every up migration in dir newer than the recorded
// version. Each migration runs in its own transaction together with the
// version bump.
func migrateUp(conn *sql.DB, fsys fs.FS, dir string) error {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("reading migrations: %w", err)
	}
	defer func() { _ = src.Close() }()

	if _, err := conn.Exec(versionTable); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}
	current, dirty, err := schemaVersion(conn)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("database is dirty at version %d; restore the .bak file", current)
	}

	v, err := src.First()
	for err == nil {
		if v > current {
			if err := apply(conn, src, v); err != nil {
				return err
			}
		}
		v, err = src.Next(v)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("listing migrations: %w", err)
	}
	return nil
}

func schemaVersion(conn *sql.DB) (version uint, dirty bool, err error) {
	err = conn.QueryRow(`SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading schema version: %w", err)
	}
	return version, dirty, nil
}

func apply(conn *sql.DB, src source.Driver, version uint) error {
	r, name, err := src.ReadUp(version)
	if errors.Is(err, fs.ErrNotExist) {
		return nil // down-only version
	}
	if err != nil {
		return fmt.Errorf("reading migration %d: %w", version, err)
	}
	body, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		return fmt.Errorf("reading migration %d: %w", version, err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(string(body)); err != nil {
		return fmt.Errorf("migration %d (%s): %w", version, name, err)
	}
	if _, err := tx.Exec(`DELETE FROM schema_migrations`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version, dirty) VALUES (?, 0)`, version); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info(log.CatDrafts, "Applied migration", "version", version, "name", name)
	return nil
}
