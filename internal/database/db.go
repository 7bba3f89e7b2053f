// Package database opens the relay's SQLite store and applies schema
// migrations.
package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

// Open opens a connection to the SQLite database and runs migrations.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &DB{db}, nil
}

// migrations are applied in order; each runs at most once per database.
var migrations = []struct {
	version string
	sql     string
}{
	{
		version: "001_initial",
		sql: `
			CREATE TABLE repos (
				name       TEXT PRIMARY KEY,
				hash       TEXT NOT NULL DEFAULT '',
				file       TEXT NOT NULL DEFAULT '',
				created_at INTEGER NOT NULL
			);

			CREATE TABLE branches (
				repo       TEXT NOT NULL REFERENCES repos(name),
				name       TEXT NOT NULL,
				uuid       TEXT NOT NULL,
				created_at INTEGER NOT NULL,
				PRIMARY KEY (repo, name)
			);

			CREATE TABLE events (
				repo    TEXT NOT NULL,
				branch  TEXT NOT NULL,
				tick    INTEGER NOT NULL,
				payload BLOB NOT NULL,
				PRIMARY KEY (repo, branch, tick),
				FOREIGN KEY (repo, branch) REFERENCES branches(repo, name)
			);
		`,
	},
}

// runMigrations applies the SQL schema.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", m.version, err)
		}
		if count > 0 {
			continue
		}

		if _, err := db.Exec(m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
