package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/starford/pinboard/internal/boardservice"
	"github.com/starford/pinboard/internal/testutil"
	"github.com/starford/pinboard/internal/token"
)

const testAppKey = "app-secret"

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	st := testutil.TestStore(t)
	svc := boardservice.NewService(st, token.New(12))
	return NewRouter(svc, testAppKey)
}

// doJSON performs a request with the app key set and, when userToken is
// non-empty, the user token header.
func doJSON(t *testing.T, router http.Handler, method, path, userToken string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(HeaderAppKey, testAppKey)
	if userToken != "" {
		req.Header.Set(HeaderUserToken, userToken)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

// Gate decision unit tests, independent of HTTP.

func TestCheckAccess_BadAppKey(t *testing.T) {
	for _, key := range []string{"", "wrong"} {
		d := CheckAccess(key, "tok", "secret", false)
		if d.Authorized() || d.Status != http.StatusForbidden {
			t.Errorf("key %q: decision = %+v, want 403", key, d)
		}
	}
}

func TestCheckAccess_MissingToken(t *testing.T) {
	d := CheckAccess("secret", "", "secret", false)
	if d.Authorized() || d.Status != http.StatusUnauthorized {
		t.Errorf("decision = %+v, want 401", d)
	}
}

func TestCheckAccess_ExemptSkipsTokenCheck(t *testing.T) {
	d := CheckAccess("secret", "", "secret", true)
	if !d.Authorized() {
		t.Errorf("decision = %+v, want authorized", d)
	}
}

func TestCheckAccess_Authorized(t *testing.T) {
	d := CheckAccess("secret", "abc123", "secret", false)
	if !d.Authorized() || d.Token != "abc123" {
		t.Errorf("decision = %+v", d)
	}
}

// Gate over HTTP.

func TestGate_MissingAppKey(t *testing.T) {
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/boards", nil)
	req.Header.Set(HeaderUserToken, "abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("no app key = %d, want 403", w.Code)
	}
}

func TestGate_WrongAppKey(t *testing.T) {
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/boards", nil)
	req.Header.Set(HeaderAppKey, "nope")
	req.Header.Set(HeaderUserToken, "abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("wrong app key = %d, want 403", w.Code)
	}
}

func TestGate_MissingUserToken(t *testing.T) {
	router := testRouter(t)
	w := doJSON(t, router, http.MethodGet, "/boards", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no user token = %d, want 401", w.Code)
	}
}

func TestGenerateToken_ExemptFromTokenCheck(t *testing.T) {
	router := testRouter(t)
	w := doJSON(t, router, http.MethodGet, "/generate-short-token", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("generate = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decode[TokenResponse](t, w)
	if !regexp.MustCompile(`^[A-Za-z0-9_-]{6,32}$`).MatchString(resp.ShortToken) {
		t.Errorf("shortToken %q does not match client format", resp.ShortToken)
	}
}

// Boards.

func TestCreateAndListBoards_ScopedByToken(t *testing.T) {
	router := testRouter(t)

	w := doJSON(t, router, http.MethodPost, "/boards", "abc123", map[string]string{"name": "Work"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d, body = %s", w.Code, w.Body.String())
	}
	created := decode[Board](t, w)
	if created.Name != "Work" || created.OwnerToken != "abc123" {
		t.Errorf("created board = %+v", created)
	}

	doJSON(t, router, http.MethodPost, "/boards", "zzz999", map[string]string{"name": "Other"})

	w = doJSON(t, router, http.MethodGet, "/boards", "abc123", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	boards := decode[[]Board](t, w)
	if len(boards) != 1 || boards[0].Name != "Work" {
		t.Errorf("boards = %+v, want only Work", boards)
	}
}

func TestCreateBoard_MissingName(t *testing.T) {
	router := testRouter(t)
	for _, body := range []any{map[string]string{}, map[string]any{"name": nil}, map[string]string{"name": ""}} {
		w := doJSON(t, router, http.MethodPost, "/boards", "abc123", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %v: create = %d, want 400", body, w.Code)
		}
	}
	w := doJSON(t, router, http.MethodGet, "/boards", "abc123", nil)
	if boards := decode[[]Board](t, w); len(boards) != 0 {
		t.Errorf("no board should be inserted, got %+v", boards)
	}
}

func TestDeleteBoard_ForeignToken(t *testing.T) {
	router := testRouter(t)
	w := doJSON(t, router, http.MethodPost, "/boards", "abc123", map[string]string{"name": "Work"})
	created := decode[Board](t, w)

	w = doJSON(t, router, http.MethodDelete, "/boards/1", "zzz999", nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign delete = %d, want 403", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/boards", "abc123", nil)
	boards := decode[[]Board](t, w)
	if len(boards) != 1 || boards[0].ID != created.ID {
		t.Errorf("board should survive foreign delete: %+v", boards)
	}
}

func TestDeleteBoard_CascadeOverHTTP(t *testing.T) {
	router := testRouter(t)
	doJSON(t, router, http.MethodPost, "/boards", "abc123", map[string]string{"name": "Work"})
	doJSON(t, router, http.MethodPost, "/boards/1/notes", "abc123", map[string]string{
		"title": "T", "content": "C", "color": "red", "category": "x",
	})

	w := doJSON(t, router, http.MethodDelete, "/boards/1", "abc123", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete = %d, body = %s", w.Code, w.Body.String())
	}
	if resp := decode[map[string]bool](t, w); !resp["success"] {
		t.Errorf("delete response = %s", w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/export", "abc123", nil)
	snap := decode[Snapshot](t, w)
	if len(snap.Boards) != 0 || len(snap.Notes) != 0 {
		t.Errorf("export after cascade = %+v", snap)
	}
}

func TestBoardRoutes_InvalidID(t *testing.T) {
	router := testRouter(t)
	w := doJSON(t, router, http.MethodDelete, "/boards/abc", "abc123", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid id = %d, want 400", w.Code)
	}
}

// Notes.

func TestCreateNote_MissingField(t *testing.T) {
	router := testRouter(t)
	doJSON(t, router, http.MethodPost, "/boards", "abc123", map[string]string{"name": "Work"})

	w := doJSON(t, router, http.MethodPost, "/boards/1/notes", "abc123", map[string]string{
		"content": "C", "color": "red", "category": "x",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing title = %d, want 400", w.Code)
	}
}

// The scenario from the ownership rules: abc123 owns note 1; zzz999
// deleting it gets a 403 and the note survives.
func TestDeleteNote_ForeignTokenRejected(t *testing.T) {
	router := testRouter(t)

	doJSON(t, router, http.MethodPost, "/boards", "abc123", map[string]string{"name": "Work"})
	w := doJSON(t, router, http.MethodPost, "/boards/1/notes", "abc123", map[string]string{
		"title": "T", "content": "C", "color": "red", "category": "x",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create note = %d, body = %s", w.Code, w.Body.String())
	}
	note := decode[Note](t, w)
	if note.ID != 1 || note.OwnerToken != "abc123" {
		t.Fatalf("created note = %+v", note)
	}

	w = doJSON(t, router, http.MethodDelete, "/notes/1", "zzz999", nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign delete = %d, want 403", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/boards/1/notes", "abc123", nil)
	notes := decode[[]Note](t, w)
	if len(notes) != 1 || notes[0].Title != "T" {
		t.Errorf("note should still be retrievable: %+v", notes)
	}
}

func TestUpdateNote_OwnedAndForeign(t *testing.T) {
	router := testRouter(t)
	doJSON(t, router, http.MethodPost, "/boards", "abc123", map[string]string{"name": "Work"})
	doJSON(t, router, http.MethodPost, "/boards/1/notes", "abc123", map[string]string{
		"title": "Before", "content": "C", "color": "red", "category": "x",
	})

	update := map[string]string{"title": "After", "content": "C2", "color": "blue", "category": "y"}

	w := doJSON(t, router, http.MethodPut, "/notes/1", "zzz999", update)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign update = %d, want 403", w.Code)
	}

	w = doJSON(t, router, http.MethodPut, "/notes/1", "abc123", update)
	if w.Code != http.StatusOK {
		t.Fatalf("owned update = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/boards/1/notes", "abc123", nil)
	notes := decode[[]Note](t, w)
	if len(notes) != 1 || notes[0].Title != "After" || notes[0].Color != "blue" {
		t.Errorf("notes = %+v", notes)
	}
}

func TestUpdateNote_Missing(t *testing.T) {
	router := testRouter(t)
	w := doJSON(t, router, http.MethodPut, "/notes/99", "abc123", map[string]string{
		"title": "T", "content": "C", "color": "red", "category": "x",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("missing note update = %d, want 403", w.Code)
	}
}

// Export / import.

func TestExportImport_RoundTrip(t *testing.T) {
	router := testRouter(t)
	doJSON(t, router, http.MethodPost, "/boards", "abc123", map[string]string{"name": "Work"})
	doJSON(t, router, http.MethodPost, "/boards/1/notes", "abc123", map[string]string{
		"title": "T", "content": "C", "color": "red", "category": "x",
	})

	w := doJSON(t, router, http.MethodGet, "/export", "abc123", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d", w.Code)
	}
	snap := decode[Snapshot](t, w)

	w = doJSON(t, router, http.MethodPost, "/import", "abc123", snap)
	if w.Code != http.StatusOK {
		t.Fatalf("import = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/export", "abc123", nil)
	again := decode[Snapshot](t, w)
	if len(again.Boards) != 1 || len(again.Notes) != 1 {
		t.Fatalf("round trip changed row counts: %+v", again)
	}
	if again.Boards[0].ID != snap.Boards[0].ID || again.Notes[0].ID != snap.Notes[0].ID {
		t.Errorf("round trip changed ids")
	}
}

func TestImport_MalformedRowFullRollback(t *testing.T) {
	router := testRouter(t)
	doJSON(t, router, http.MethodPost, "/boards", "abc123", map[string]string{"name": "Work"})

	payload := map[string]any{
		"boards": []map[string]any{{"id": 1, "name": "Clobbered"}},
		"notes":  []map[string]any{{"id": 5, "content": "no title", "color": "red", "category": "x", "boardId": 1}},
	}
	w := doJSON(t, router, http.MethodPost, "/import", "abc123", payload)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("malformed import = %d, want 500", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/boards", "abc123", nil)
	boards := decode[[]Board](t, w)
	if len(boards) != 1 || boards[0].Name != "Work" {
		t.Errorf("boards after rollback = %+v", boards)
	}
}

func TestImport_CannotForgeForeignOwnership(t *testing.T) {
	router := testRouter(t)

	payload := map[string]any{
		"boards": []map[string]any{{"id": 3, "name": "Planted", "ownerToken": "victim"}},
		"notes":  []map[string]any{},
	}
	w := doJSON(t, router, http.MethodPost, "/import", "importer", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("import = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/boards", "victim", nil)
	if boards := decode[[]Board](t, w); len(boards) != 0 {
		t.Errorf("victim sees planted boards: %+v", boards)
	}
	w = doJSON(t, router, http.MethodGet, "/boards", "importer", nil)
	boards := decode[[]Board](t, w)
	if len(boards) != 1 || boards[0].OwnerToken != "importer" {
		t.Errorf("importer boards = %+v", boards)
	}
}
