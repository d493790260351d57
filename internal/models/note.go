package models

import "time"

// Note is a user-owned text note. The id is a server-generated UUID string,
// not a database sequence. UserID is never serialized; ownership is enforced
// in queries, not exposed on the wire.
type Note struct {
	ID        string     `json:"id"`
	UserID    int        `json:"-"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
