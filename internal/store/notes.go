package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/pinboard/internal/apperr"
)

// ListNotes returns every note on the given board owned by token.
func (s *Store) ListNotes(ctx context.Context, token string, boardID int64) ([]Note, error) {
	notes := []Note{}
	err := s.db.SelectContext(ctx, &notes,
		`SELECT * FROM notes WHERE boardId = ? AND ownerToken = ? ORDER BY id`, boardID, token)
	if err != nil {
		return nil, fmt.Errorf("store: list notes: %w", err)
	}
	return notes, nil
}

func validateNoteFields(f NoteFields) error {
	switch {
	case f.Title == "":
		return fmt.Errorf("%w: title is required", apperr.ErrValidation)
	case f.Content == "":
		return fmt.Errorf("%w: content is required", apperr.ErrValidation)
	case f.Color == "":
		return fmt.Errorf("%w: color is required", apperr.ErrValidation)
	case f.Category == "":
		return fmt.Errorf("%w: category is required", apperr.ErrValidation)
	}
	return nil
}

// CreateNote inserts a note on boardID owned by token and returns the stored
// row. The board must exist (foreign key), but its owner is deliberately not
// checked against token: a client can file notes under a board it does not
// own. Kept for compatibility with existing clients.
func (s *Store) CreateNote(ctx context.Context, token string, boardID int64, f NoteFields) (*Note, error) {
	if err := validateNoteFields(f); err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (title, content, color, category, boardId, ownerToken, createdAt, updatedAt)
		 VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		f.Title, f.Content, f.Color, f.Category, boardID, token)
	if err != nil {
		return nil, fmt.Errorf("store: create note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: create note id: %w", err)
	}
	var n Note
	if err := s.db.GetContext(ctx, &n, `SELECT * FROM notes WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("store: fetch created note: %w", err)
	}
	return &n, nil
}

// UpdateNote rewrites a note's mutable fields and refreshes updatedAt.
// Missing rows and rows owned by another token both yield ErrForbidden.
func (s *Store) UpdateNote(ctx context.Context, token string, id int64, f NoteFields) error {
	if err := s.checkNoteOwner(ctx, token, id); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, color = ?, category = ?, updatedAt = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		f.Title, f.Content, f.Color, f.Category, id)
	if err != nil {
		return fmt.Errorf("store: update note: %w", err)
	}
	return nil
}

// DeleteNote removes a single note with the same ownership semantics as UpdateNote.
func (s *Store) DeleteNote(ctx context.Context, token string, id int64) error {
	if err := s.checkNoteOwner(ctx, token, id); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	return nil
}

func (s *Store) checkNoteOwner(ctx context.Context, token string, id int64) error {
	var owner string
	err := s.db.GetContext(ctx, &owner, `SELECT ownerToken FROM notes WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrForbidden
	}
	if err != nil {
		return fmt.Errorf("store: fetch note owner: %w", err)
	}
	if owner != token {
		return apperr.ErrForbidden
	}
	return nil
}
