package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/crucial707/notes-api/internal/auth"
	"github.com/crucial707/notes-api/internal/config"
	"github.com/crucial707/notes-api/internal/handlers"
	mw "github.com/crucial707/notes-api/internal/middleware"
	"github.com/crucial707/notes-api/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires repositories, handlers, and middleware into the HTTP API.
// Kept separate from main so integration tests can build the full router
// against a mock database.
func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)

	authHandler := &handlers.AuthHandler{
		UserRepo: repo.NewUserRepo(db),
		Tokens:   tokens,
	}
	noteHandler := &handlers.NoteHandler{
		Repo: repo.NewNoteRepo(db),
	}

	useTLS := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.RequestLog)
	r.Use(mw.Recoverer)
	r.Use(mw.Prometheus)
	r.Use(mw.SecurityHeaders(useTLS))
	r.Use(mw.CORS(cfg.CORSAllowedOrigins))
	r.Use(mw.MaxBytes(mw.DefaultMaxBodyBytes))

	// Operational endpoints
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			handlers.JSONError(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ready")
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Protected
	r.Route("/api/notes", func(r chi.Router) {
		r.Use(mw.JWTAuth(tokens))
		r.Get("/", noteHandler.List)
		r.Post("/", noteHandler.Create)
		r.Get("/{id}", noteHandler.Get)
		r.Put("/{id}", noteHandler.Update)
		r.Delete("/{id}", noteHandler.Delete)
	})

	return r
}
