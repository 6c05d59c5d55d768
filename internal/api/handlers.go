package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/pinboard/internal/apperr"
	"github.com/starford/pinboard/internal/boardservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *boardservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *boardservice.Service) *Handler {
	return &Handler{svc: svc}
}

func parseID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// respondErr maps store errors onto the API error taxonomy. Forbidden
// covers both foreign-owned and missing rows so responses never disclose
// whether a guessed id exists under another tenant.
func respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody("forbidden"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// GenerateToken handles GET /generate-short-token, the only route exempt
// from the user-token check.
func (h *Handler) GenerateToken(w http.ResponseWriter, r *http.Request) {
	tok, err := h.svc.GenerateToken(r.Context())
	if err != nil {
		slog.Error("generate token failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("could not generate short token"))
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{ShortToken: tok})
}

// ListBoards handles GET /boards.
func (h *Handler) ListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.svc.ListBoards(r.Context(), UserToken(r.Context()))
	if err != nil {
		respondErr(w, "list boards", err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

// CreateBoard handles POST /boards.
func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	var req CreateBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	board, err := h.svc.CreateBoard(r.Context(), UserToken(r.Context()), req.Name)
	if err != nil {
		respondErr(w, "create board", err)
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

// DeleteBoard handles DELETE /boards/{id}. Deleting a board cascades to
// all of its notes.
func (h *Handler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid board id"))
		return
	}
	if err := h.svc.DeleteBoard(r.Context(), UserToken(r.Context()), id); err != nil {
		respondErr(w, "delete board", err)
		return
	}
	writeJSON(w, http.StatusOK, successBody())
}

// ListNotes handles GET /boards/{boardId}/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	boardID, err := parseID(r, "boardId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid board id"))
		return
	}
	notes, err := h.svc.ListNotes(r.Context(), UserToken(r.Context()), boardID)
	if err != nil {
		respondErr(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// CreateNote handles POST /boards/{boardId}/notes.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	boardID, err := parseID(r, "boardId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid board id"))
		return
	}
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note, err := h.svc.CreateNote(r.Context(), UserToken(r.Context()), boardID, req.Fields())
	if err != nil {
		respondErr(w, "create note", err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /notes/{id}.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.svc.UpdateNote(r.Context(), UserToken(r.Context()), id, req.Fields()); err != nil {
		respondErr(w, "update note", err)
		return
	}
	writeJSON(w, http.StatusOK, successBody())
}

// DeleteNote handles DELETE /notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	if err := h.svc.DeleteNote(r.Context(), UserToken(r.Context()), id); err != nil {
		respondErr(w, "delete note", err)
		return
	}
	writeJSON(w, http.StatusOK, successBody())
}

// Export handles GET /export: the caller's full board and note graph.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Export(r.Context(), UserToken(r.Context()))
	if err != nil {
		respondErr(w, "export", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Import handles POST /import. The whole snapshot commits or none of it
// does; any per-row failure surfaces as a 500 after rollback.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	var snap Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.Import(r.Context(), UserToken(r.Context()), &snap); err != nil {
		slog.Error("import failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("import failed"))
		return
	}
	writeJSON(w, http.StatusOK, successBody())
}
