// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a
// C compiler installed and cross-compilation becomes painful.
// modernc.org/sqlite is a pure Go translation of the SQLite C code — no C
// compiler needed, works everywhere Go works.
//
// The uniqueness story for users lives entirely in this package: the
// UNIQUE constraints on uuid/username/email plus a single constrained
// INSERT are what make concurrent signups with the same username safe.
// There is deliberately no check-then-insert anywhere.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and hands out the typed stores.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/stemless.db"  → file-based database (persistent)
//   - ":memory:"          → in-memory database (great for tests, lost on close)
//
// sql.Open() does NOT actually open a connection — it just creates a pool
// manager. We call Ping() to force an immediate connection so a bad path
// or permissions issue fails here, at startup, rather than on the first
// request.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// required for request-parallel handlers sharing one store.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to
// the New call — it flushes the WAL and releases the file lock.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns the identity store backed by this connection.
func (db *DB) Users() *UserStore {
	return &UserStore{conn: db.conn}
}

// Projects returns the project store backed by this connection.
func (db *DB) Projects() *ProjectStore {
	return &ProjectStore{conn: db.conn}
}

// Comments returns the comment store backed by this connection.
func (db *DB) Comments() *CommentStore {
	return &CommentStore{conn: db.conn}
}

// migrate creates all tables. CREATE TABLE IF NOT EXISTS keeps this safe
// to run on every startup.
//
// Timestamps are stored as INTEGER epoch milliseconds to match the
// model's wire shape exactly — no DATETIME parsing on the way out.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			uuid          TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			avatar        TEXT NOT NULL DEFAULT '',
			created_at    INTEGER NOT NULL,
			updated_at    INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			uuid        TEXT PRIMARY KEY,
			name        TEXT NOT NULL DEFAULT 'New project',
			daw_name    TEXT NOT NULL,
			version     INTEGER NOT NULL,
			owner       TEXT NOT NULL REFERENCES users(uuid),
			users       TEXT NOT NULL DEFAULT '[]',
			cover_art   TEXT NOT NULL DEFAULT '',
			is_finished INTEGER NOT NULL DEFAULT 0,
			private     INTEGER NOT NULL DEFAULT 1,
			updated_at  INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating projects table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS project_history (
			uuid               TEXT PRIMARY KEY,
			project_uuid       TEXT NOT NULL REFERENCES projects(uuid),
			daw_version        TEXT NOT NULL,
			created_at         INTEGER NOT NULL,
			plugin_count       INTEGER NOT NULL,
			track_count        INTEGER NOT NULL DEFAULT 0,
			plugins            TEXT NOT NULL DEFAULT '[]',
			committees         TEXT NOT NULL DEFAULT '[]',
			summary            TEXT NOT NULL,
			path               TEXT NOT NULL,
			comments           TEXT NOT NULL DEFAULT '[]',
			render_preview_url TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("creating project_history table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS comments (
			uuid       TEXT PRIMARY KEY,
			content    TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating comments table: %w", err)
	}

	return nil
}
