package store

import (
	"context"
	"fmt"

	"github.com/starford/pinboard/internal/apperr"
)

// Snapshot is a full export of one token's boards and notes.
type Snapshot struct {
	Boards []Board `json:"boards"`
	Notes  []Note  `json:"notes"`
}

// ExportAll returns everything owned by token. No pagination: the snapshot
// is the unit clients download, back up, and later feed to ImportAll.
func (s *Store) ExportAll(ctx context.Context, token string) (*Snapshot, error) {
	snap := &Snapshot{Boards: []Board{}, Notes: []Note{}}
	if err := s.db.SelectContext(ctx, &snap.Boards,
		`SELECT * FROM boards WHERE ownerToken = ? ORDER BY id`, token); err != nil {
		return nil, fmt.Errorf("store: export boards: %w", err)
	}
	if err := s.db.SelectContext(ctx, &snap.Notes,
		`SELECT * FROM notes WHERE ownerToken = ? ORDER BY id`, token); err != nil {
		return nil, fmt.Errorf("store: export notes: %w", err)
	}
	return snap, nil
}

// ImportAll upserts a snapshot in a single transaction: boards first, then
// notes, each keyed by the id the payload carries so a restored export keeps
// its primary keys. ownerToken is stamped to the importing token on every
// row regardless of what the payload claims, which is what prevents an
// import from forging another tenant's ownership. A note's boardId is not
// cross-checked against the stamped owner, mirroring CreateNote.
// Any failure rolls back the whole import.
func (s *Store) ImportAll(ctx context.Context, token string, snap *Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin import: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, b := range snap.Boards {
		if b.Name == "" {
			return fmt.Errorf("%w: board %d: name is required", apperr.ErrValidation, b.ID)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO boards (id, name, ownerToken) VALUES (?, ?, ?)`,
			b.ID, b.Name, token)
		if err != nil {
			return fmt.Errorf("store: import board %d: %w", b.ID, err)
		}
	}
	for _, n := range snap.Notes {
		if err := validateNoteFields(NoteFields{
			Title: n.Title, Content: n.Content, Color: n.Color, Category: n.Category,
		}); err != nil {
			return fmt.Errorf("note %d: %w", n.ID, err)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO notes (id, title, content, color, category, boardId, ownerToken)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			n.ID, n.Title, n.Content, n.Color, n.Category, n.BoardID, token)
		if err != nil {
			return fmt.Errorf("store: import note %d: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit import: %w", err)
	}
	return nil
}
