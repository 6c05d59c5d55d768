package store

import (
	"context"
	"fmt"
)

// TokenExists reports whether token already owns any board or note.
// The generator uses this to guarantee fresh tokens are unused tenants.
func (s *Store) TokenExists(ctx context.Context, token string) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(1) FROM boards WHERE ownerToken = ?`, token); err != nil {
		return false, fmt.Errorf("store: token lookup in boards: %w", err)
	}
	if n > 0 {
		return true, nil
	}
	if err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(1) FROM notes WHERE ownerToken = ?`, token); err != nil {
		return false, fmt.Errorf("store: token lookup in notes: %w", err)
	}
	return n > 0, nil
}
