package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/notes-api/internal/metrics"
	"github.com/crucial707/notes-api/internal/middleware"
	"github.com/crucial707/notes-api/internal/repo"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ==========================
// Note Handler
// ==========================
//
// Every operation takes its owner id from the verified claims in the request
// context, never from request input. A note owned by someone else is reported
// as not found.
type NoteHandler struct {
	Repo *repo.NoteRepo
}

type noteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ==========================
// List Notes (newest first)
// ==========================
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		JSONError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	notes, err := h.Repo.ListByOwner(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("list notes failed", "error", err, "user_id", claims.UserID)
		JSONError(w, "failed to fetch notes", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, notes, http.StatusOK)
}

// ==========================
// Get Note By ID
// ==========================
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		JSONError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")

	note, err := h.Repo.GetByID(r.Context(), id, claims.UserID)
	if err == sql.ErrNoRows {
		JSONError(w, "note not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("get note failed", "error", err, "user_id", claims.UserID)
		JSONError(w, "failed to fetch note", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, note, http.StatusOK)
}

// ==========================
// Create Note
// ==========================
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		JSONError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	var input noteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(input.Title) == "" {
		JSONError(w, "title is required", http.StatusBadRequest)
		return
	}

	id := uuid.NewString()

	if err := h.Repo.Create(r.Context(), id, claims.UserID, input.Title, input.Content); err != nil {
		slog.Error("create note failed", "error", err, "user_id", claims.UserID)
		JSONError(w, "failed to create note", http.StatusInternalServerError)
		return
	}

	metrics.IncNotesCreated()
	WriteJSON(w, map[string]string{"message": "note created", "id": id}, http.StatusCreated)
}

// ==========================
// Update Note
// ==========================
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		JSONError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")

	var input noteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	// Validate before touching the store.
	if strings.TrimSpace(input.Title) == "" {
		JSONError(w, "title is required", http.StatusBadRequest)
		return
	}

	affected, err := h.Repo.Update(r.Context(), id, claims.UserID, input.Title, input.Content)
	if err != nil {
		slog.Error("update note failed", "error", err, "user_id", claims.UserID)
		JSONError(w, "failed to update note", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		JSONError(w, "note not found or unauthorized", http.StatusNotFound)
		return
	}

	// Re-fetch so the response carries the store-assigned updated_at.
	note, err := h.Repo.GetByID(r.Context(), id, claims.UserID)
	if err != nil {
		slog.Error("update note: refetch failed", "error", err, "user_id", claims.UserID)
		JSONError(w, "failed to fetch note", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, map[string]interface{}{"message": "note updated", "note": note}, http.StatusOK)
}

// ==========================
// Delete Note
// ==========================
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		JSONError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")

	affected, err := h.Repo.Delete(r.Context(), id, claims.UserID)
	if err != nil {
		slog.Error("delete note failed", "error", err, "user_id", claims.UserID)
		JSONError(w, "failed to delete note", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		JSONError(w, "note not found or unauthorized", http.StatusNotFound)
		return
	}

	WriteJSON(w, map[string]string{"message": "note deleted"}, http.StatusOK)
}
