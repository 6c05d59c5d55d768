// Package boardservice coordinates the store and token generator behind
// the HTTP and MCP surfaces.
package boardservice

import (
	"context"

	"github.com/starford/pinboard/internal/store"
	"github.com/starford/pinboard/internal/token"
)

// Service bundles the shared store handle with the token generator.
type Service struct {
	store *store.Store
	gen   *token.Generator
}

// NewService creates a new board service.
func NewService(st *store.Store, gen *token.Generator) *Service {
	return &Service{store: st, gen: gen}
}

// GenerateToken mints a fresh tenant token that owns no existing rows.
func (s *Service) GenerateToken(ctx context.Context) (string, error) {
	return s.gen.EnsureUnique(ctx, s.store.TokenExists)
}

// ListBoards returns every board owned by token.
func (s *Service) ListBoards(ctx context.Context, token string) ([]store.Board, error) {
	return s.store.ListBoards(ctx, token)
}

// CreateBoard creates a board owned by token.
func (s *Service) CreateBoard(ctx context.Context, token, name string) (*store.Board, error) {
	return s.store.CreateBoard(ctx, token, name)
}

// DeleteBoard removes an owned board and all of its notes.
func (s *Service) DeleteBoard(ctx context.Context, token string, id int64) error {
	return s.store.DeleteBoard(ctx, token, id)
}

// ListNotes returns the owned notes on a board.
func (s *Service) ListNotes(ctx context.Context, token string, boardID int64) ([]store.Note, error) {
	return s.store.ListNotes(ctx, token, boardID)
}

// CreateNote files a note on a board under the caller's token.
func (s *Service) CreateNote(ctx context.Context, token string, boardID int64, f store.NoteFields) (*store.Note, error) {
	return s.store.CreateNote(ctx, token, boardID, f)
}

// UpdateNote rewrites an owned note's fields.
func (s *Service) UpdateNote(ctx context.Context, token string, id int64, f store.NoteFields) error {
	return s.store.UpdateNote(ctx, token, id, f)
}

// DeleteNote removes an owned note.
func (s *Service) DeleteNote(ctx context.Context, token string, id int64) error {
	return s.store.DeleteNote(ctx, token, id)
}

// Export snapshots everything owned by token.
func (s *Service) Export(ctx context.Context, token string) (*store.Snapshot, error) {
	return s.store.ExportAll(ctx, token)
}

// Import atomically upserts a snapshot under token's ownership.
func (s *Service) Import(ctx context.Context, token string, snap *store.Snapshot) error {
	return s.store.ImportAll(ctx, token, snap)
}
