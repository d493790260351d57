package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/notes-api/internal/auth"
	"github.com/crucial707/notes-api/internal/middleware"
	"github.com/crucial707/notes-api/internal/repo"
	"github.com/go-chi/chi/v5"
)

const testNoteID = "2f1b8d4e-9c3a-4f6b-8a1d-5e7c9b0a2d3f"

// noteRequest builds a request carrying verified claims and chi URL params,
// the shape a request has after the router and session guard have run.
func noteRequest(method, path string, body []byte, userID int, params map[string]string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}

	ctx := middleware.WithClaims(r.Context(), &auth.Claims{UserID: userID, Email: "a@x.com"})

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	return r.WithContext(ctx)
}

func TestNoteHandler_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, content, created_at\s+FROM notes\s+WHERE user_id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "created_at"}).
			AddRow(testNoteID, "T", "C", time.Now()))

	h := &NoteHandler{Repo: repo.NewNoteRepo(db)}

	rr := httptest.NewRecorder()
	h.List(rr, noteRequest("GET", "/api/notes", nil, 1, nil))

	if rr.Code != http.StatusOK {
		t.Errorf("List status: got %d, want 200", rr.Code)
	}
	var notes []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&notes); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != testNoteID || notes[0].Title != "T" {
		t.Errorf("unexpected notes: %+v", notes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteHandler_List_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, content, created_at`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "created_at"}))

	h := &NoteHandler{Repo: repo.NewNoteRepo(db)}

	rr := httptest.NewRecorder()
	h.List(rr, noteRequest("GET", "/api/notes", nil, 1, nil))

	if rr.Code != http.StatusOK {
		t.Errorf("List status: got %d, want 200", rr.Code)
	}
	if body := rr.Body.String(); body != "[]\n" {
		t.Errorf("empty list should serialize as [], got: %q", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteHandler_Get_OtherOwnersNote(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// Caller is user 2; the note belongs to user 1, so the owner-scoped
	// query finds nothing and the response is indistinguishable from a
	// nonexistent id.
	mock.ExpectQuery(`SELECT id, title, content, created_at, updated_at`).
		WithArgs(testNoteID, 2).
		WillReturnError(sql.ErrNoRows)

	h := &NoteHandler{Repo: repo.NewNoteRepo(db)}

	rr := httptest.NewRecorder()
	h.Get(rr, noteRequest("GET", "/api/notes/"+testNoteID, nil, 2, map[string]string{"id": testNoteID}))

	if rr.Code != http.StatusNotFound {
		t.Errorf("Get status: got %d, want 404", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["message"] != "note not found" {
		t.Errorf("unexpected message: %q", out["message"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteHandler_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO notes \(id, user_id, title, content\)`).
		WithArgs(sqlmock.AnyArg(), 1, "T", "C").
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &NoteHandler{Repo: repo.NewNoteRepo(db)}

	body, _ := json.Marshal(map[string]string{"title": "T", "content": "C"})
	rr := httptest.NewRecorder()
	h.Create(rr, noteRequest("POST", "/api/notes", body, 1, nil))

	if rr.Code != http.StatusCreated {
		t.Errorf("Create status: got %d, want 201", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["message"] != "note created" || len(out["id"]) != 36 {
		t.Errorf("unexpected response: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteHandler_Create_OwnerFromClaimsNotBody(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// The body tries to smuggle a user_id; the insert must use the
	// authenticated caller's id (7), not the supplied one.
	mock.ExpectExec(`INSERT INTO notes \(id, user_id, title, content\)`).
		WithArgs(sqlmock.AnyArg(), 7, "T", "C").
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &NoteHandler{Repo: repo.NewNoteRepo(db)}

	body := []byte(`{"user_id": 999, "title": "T", "content": "C"}`)
	rr := httptest.NewRecorder()
	h.Create(rr, noteRequest("POST", "/api/notes", body, 7, nil))

	if rr.Code != http.StatusCreated {
		t.Errorf("Create status: got %d, want 201", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteHandler_Create_EmptyTitle(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &NoteHandler{Repo: repo.NewNoteRepo(db)}

	body, _ := json.Marshal(map[string]string{"title": "   ", "content": "C"})
	rr := httptest.NewRecorder()
	h.Create(rr, noteRequest("POST", "/api/notes", body, 1, nil))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Create status: got %d, want 400", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["message"] != "title is required" {
		t.Errorf("unexpected message: %q", out["message"])
	}
	// No expectations were registered: the store must not be touched.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteHandler_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectExec(`UPDATE notes\s+SET title = \$1, content = \$2, updated_at = NOW\(\)`).
		WithArgs("New", "Body", testNoteID, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, title, content, created_at, updated_at`).
		WithArgs(testNoteID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "created_at", "updated_at"}).
			AddRow(testNoteID, "New", "Body", now.Add(-time.Hour), now))

	h := &NoteHandler{Repo: repo.NewNoteRepo(db)}

	body, _ := json.Marshal(map[string]string{"title": "New", "content": "Body"})
	rr := httptest.NewRecorder()
	h.Update(rr, noteRequest("PUT", "/api/notes/"+testNoteID, body, 1, map[string]string{"id": testNoteID}))

	if rr.Code != http.StatusOK {
		t.Errorf("Update status: got %d, want 200", rr.Code)
	}
	var out struct {
		Message string `json:"message"`
		Note    struct {
			ID        string  `json:"id"`
			Title     string  `json:"title"`
			UpdatedAt *string `json:"updated_at"`
		} `json:"note"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Message != "note updated" || out.Note.Title != "New" || out.Note.UpdatedAt == nil {
		t.Errorf("unexpected response: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteHandler_Update_EmptyTitle(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &NoteHandler{Repo: repo.NewNoteRepo(db)}

	for _, title := range []string{"", "   "} {
		body, _ := json.Marshal(map[string]string{"title": title, "content": "C"})
		rr := httptest.NewRecorder()
		h.Update(rr, noteRequest("PUT", "/api/notes/"+testNoteID, body, 1, map[string]string{"id": testNoteID}))

		if rr.Code != http.StatusBadRequest {
			t.Errorf("Update(%q) status: got %d, want 400", title, rr.Code)
		}
		var out map[string]string
		if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if out["message"] != "title is required" {
			t.Errorf("unexpected message: %q", out["message"])
		}
	}
	// Validation happens before any store access.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteHandler_Update_OtherOwnersNote(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE notes`).
		WithArgs("New", "Body", testNoteID, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	h := &NoteHandler{Repo: repo.NewNoteRepo(db)}

	body, _ := json.Marshal(map[string]string{"title": "New", "content": "Body"})
	rr := httptest.NewRecorder()
	h.Update(rr, noteRequest("PUT", "/api/notes/"+testNoteID, body, 2, map[string]string{"id": testNoteID}))

	if rr.Code != http.StatusNotFound {
		t.Errorf("Update status: got %d, want 404", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["message"] != "note not found or unauthorized" {
		t.Errorf("unexpected message: %q", out["message"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteHandler_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM notes\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs(testNoteID, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := &NoteHandler{Repo: repo.NewNoteRepo(db)}

	rr := httptest.NewRecorder()
	h.Delete(rr, noteRequest("DELETE", "/api/notes/"+testNoteID, nil, 1, map[string]string{"id": testNoteID}))

	if rr.Code != http.StatusOK {
		t.Errorf("Delete status: got %d, want 200", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["message"] != "note deleted" {
		t.Errorf("unexpected message: %q", out["message"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNoteHandler_Delete_OtherOwnersNote(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM notes`).
		WithArgs(testNoteID, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	h := &NoteHandler{Repo: repo.NewNoteRepo(db)}

	rr := httptest.NewRecorder()
	h.Delete(rr, noteRequest("DELETE", "/api/notes/"+testNoteID, nil, 2, map[string]string{"id": testNoteID}))

	if rr.Code != http.StatusNotFound {
		t.Errorf("Delete status: got %d, want 404", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["message"] != "note not found or unauthorized" {
		t.Errorf("unexpected message: %q", out["message"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
