package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/pinboard/internal/store"
)

// TokenResponse is returned by the token-generation endpoint.
type TokenResponse struct {
	ShortToken string `json:"shortToken"`
}

// CreateBoardRequest is the request body for creating a board.
type CreateBoardRequest struct {
	Name string `json:"name"`
}

// Validate validates the board creation payload.
func (r CreateBoardRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required.Error("name is required")),
	)
}

// NoteRequest is the request body for creating or updating a note.
// All four fields are required; content is opaque rich text.
type NoteRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Color    string `json:"color"`
	Category string `json:"category"`
}

// Validate validates the note payload.
func (r NoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Color, validation.Required),
		validation.Field(&r.Category, validation.Required),
	)
}

// Fields converts the payload into store note fields.
func (r NoteRequest) Fields() store.NoteFields {
	return store.NoteFields{
		Title:    r.Title,
		Content:  r.Content,
		Color:    r.Color,
		Category: r.Category,
	}
}

// Board is the board response type (aliased from the store layer).
type Board = store.Board

// Note is the note response type (aliased from the store layer).
type Note = store.Note

// Snapshot is the export/import payload (aliased from the store layer).
type Snapshot = store.Snapshot
