// Package store implements token-scoped persistence for boards and notes over SQLite.
package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const bootstrapSQL = `
CREATE TABLE IF NOT EXISTS boards (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	ownerToken TEXT NOT NULL,
	createdAt  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updatedAt  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS notes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	color      TEXT NOT NULL,
	category   TEXT NOT NULL,
	boardId    INTEGER NOT NULL,
	ownerToken TEXT NOT NULL,
	createdAt  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updatedAt  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (boardId) REFERENCES boards(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_boards_owner ON boards(ownerToken);
CREATE INDEX IF NOT EXISTS idx_notes_owner ON notes(ownerToken);
CREATE INDEX IF NOT EXISTS idx_notes_board ON notes(boardId);
`

// Store wraps a shared sqlx.DB handle. One Store is opened at startup
// and reused by every request handler.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the SQLite database and applies the bootstrap schema.
// Foreign keys are enabled so board deletion cascades to notes.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if _, err := db.Exec(bootstrapSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply bootstrap schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for the migrator.
func (s *Store) DB() *sqlx.DB {
	return s.db
}
