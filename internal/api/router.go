package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/pinboard/internal/boardservice"
)

// NewRouter creates a chi router with all API routes mounted behind the
// two-stage gate. appKey is the application shared secret; every route
// requires it, and every route except token generation also requires a
// user token.
func NewRouter(svc *boardservice.Service, appKey string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AppKeyMiddleware(appKey))

	// A client minting its first token cannot present one yet.
	r.Get("/generate-short-token", h.GenerateToken)

	r.Group(func(r chi.Router) {
		r.Use(UserTokenMiddleware)

		// Boards.
		r.Get("/boards", h.ListBoards)
		r.Post("/boards", h.CreateBoard)
		r.Delete("/boards/{id}", h.DeleteBoard)

		// Notes, scoped by board for list/create.
		r.Get("/boards/{boardId}/notes", h.ListNotes)
		r.Post("/boards/{boardId}/notes", h.CreateNote)
		r.Put("/notes/{id}", h.UpdateNote)
		r.Delete("/notes/{id}", h.DeleteNote)

		// Bulk reconciliation.
		r.Get("/export", h.Export)
		r.Post("/import", h.Import)
	})

	return r
}
