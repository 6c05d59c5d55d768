package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/pinboard/internal/apperr"
)

// ListBoards returns every board owned by token, oldest first.
func (s *Store) ListBoards(ctx context.Context, token string) ([]Board, error) {
	boards := []Board{}
	err := s.db.SelectContext(ctx, &boards,
		`SELECT * FROM boards WHERE ownerToken = ? ORDER BY id`, token)
	if err != nil {
		return nil, fmt.Errorf("store: list boards: %w", err)
	}
	return boards, nil
}

// CreateBoard inserts a board owned by token and returns the stored row.
func (s *Store) CreateBoard(ctx context.Context, token, name string) (*Board, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperr.ErrValidation)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO boards (name, ownerToken, createdAt, updatedAt)
		 VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, name, token)
	if err != nil {
		return nil, fmt.Errorf("store: create board: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: create board id: %w", err)
	}
	var b Board
	if err := s.db.GetContext(ctx, &b, `SELECT * FROM boards WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("store: fetch created board: %w", err)
	}
	return &b, nil
}

// DeleteBoard removes a board and, via the foreign key, all of its notes.
// A board that is missing or owned by a different token yields ErrForbidden
// either way, so callers cannot probe for foreign rows.
func (s *Store) DeleteBoard(ctx context.Context, token string, id int64) error {
	var owner string
	err := s.db.GetContext(ctx, &owner, `SELECT ownerToken FROM boards WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrForbidden
	}
	if err != nil {
		return fmt.Errorf("store: fetch board owner: %w", err)
	}
	if owner != token {
		return apperr.ErrForbidden
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("store: delete board: %w", err)
	}
	return nil
}
