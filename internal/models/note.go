// Package models defines the domain types for Laguz.
package models

import "time"

// Note is a user-owned note record.
type Note struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Favorite    bool      `json:"favorite"`
	CreatedAt   time.Time `json:"created_at"`
}

// NotePatch is a partial update to a note. Nil fields are left unchanged.
type NotePatch struct {
	Title       *string
	Description *string
}
