package store

import "time"

// Board is a named collection of notes owned by one token.
type Board struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	OwnerToken string    `db:"ownerToken" json:"ownerToken"`
	CreatedAt  time.Time `db:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `db:"updatedAt" json:"updatedAt"`
}

// Note is a titled rich-text item belonging to exactly one board.
// Content is opaque HTML produced by the editing widget.
type Note struct {
	ID         int64     `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Content    string    `db:"content" json:"content"`
	Color      string    `db:"color" json:"color"`
	Category   string    `db:"category" json:"category"`
	BoardID    int64     `db:"boardId" json:"boardId"`
	OwnerToken string    `db:"ownerToken" json:"ownerToken"`
	CreatedAt  time.Time `db:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `db:"updatedAt" json:"updatedAt"`
}

// NoteFields carries the mutable fields of a note for create and update.
type NoteFields struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Color    string `json:"color"`
	Category string `json:"category"`
}
