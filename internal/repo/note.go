package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/notes-api/internal/models"
)

// ==========================
// NoteRepo
// ==========================
//
// Every read and write is scoped by owner: the WHERE clause always pairs the
// note id with the owning user id, so a note belonging to someone else
// behaves exactly like a note that does not exist.
type NoteRepo struct {
	DB *sql.DB
}

func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{DB: db}
}

// ==========================
// List By Owner
// ==========================
func (r *NoteRepo) ListByOwner(ctx context.Context, ownerID int) ([]models.Note, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, title, content, created_at
		FROM notes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Non-nil so an owner with no notes serializes as [] rather than null.
	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// ==========================
// Get By ID (owner-scoped)
// ==========================
func (r *NoteRepo) GetByID(ctx context.Context, id string, ownerID int) (*models.Note, error) {
	note := &models.Note{}

	err := r.DB.QueryRowContext(ctx, `
		SELECT id, title, content, created_at, updated_at
		FROM notes
		WHERE id = $1 AND user_id = $2
	`, id, ownerID).
		Scan(&note.ID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return note, nil
}

// ==========================
// Create Note
// ==========================
func (r *NoteRepo) Create(ctx context.Context, id string, ownerID int, title, content string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO notes (id, user_id, title, content)
		VALUES ($1, $2, $3, $4)
	`, id, ownerID, title, content)
	return err
}

// ==========================
// Update Note (owner-scoped)
// ==========================
//
// Returns the number of affected rows; zero means the note does not exist
// for this owner. updated_at is refreshed by the statement itself.
func (r *NoteRepo) Update(ctx context.Context, id string, ownerID int, title, content string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE notes
		SET title = $1, content = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
	`, title, content, id, ownerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ==========================
// Delete Note (owner-scoped)
// ==========================
func (r *NoteRepo) Delete(ctx context.Context, id string, ownerID int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `
		DELETE FROM notes
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
