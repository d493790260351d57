package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/crucial707/notes-api/internal/auth"
	"github.com/crucial707/notes-api/internal/metrics"
	"github.com/crucial707/notes-api/internal/repo"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	UserRepo *repo.UserRepo
	Tokens   *auth.TokenManager
}

// ==========================
// Register (email + password, stored as bcrypt hash)
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	// ===== Validate input =====
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		slog.Error("register: hash password failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if _, err := h.UserRepo.Create(r.Context(), input.Email, hash); err != nil {
		// Duplicate email and any other store failure collapse into the same
		// response; only the server-side log tells them apart.
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			slog.Info("register: duplicate email", "email", input.Email)
		} else {
			slog.Error("register: create user failed", "error", err)
		}
		JSONError(w, "user already exists", http.StatusBadRequest)
		return
	}

	WriteJSON(w, map[string]string{"message": "user registered successfully"}, http.StatusCreated)
}

// ==========================
// Login (verify password, issue JWT)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid json", http.StatusBadRequest)
		return
	}

	// Unknown email and wrong password get the same response so the API
	// cannot be used to enumerate accounts.
	user, err := h.UserRepo.GetByEmail(r.Context(), input.Email)
	if err != nil {
		metrics.IncLogins("failure")
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		metrics.IncLogins("failure")
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		slog.Error("login: issue token failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	metrics.IncLogins("success")
	WriteJSON(w, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
		},
	}, http.StatusOK)
}
