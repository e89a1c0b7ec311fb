package api

import (
	"time"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/timefmt"
)

// NoteResponse is the wire representation of a note. created_at_display
// carries the human-readable relative timestamp rendered server-side.
type NoteResponse struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Favorite         bool      `json:"favorite"`
	CreatedAt        time.Time `json:"created_at"`
	CreatedAtDisplay string    `json:"created_at_display"`
}

// NoteListResponse wraps a paginated note listing.
type NoteListResponse struct {
	Notes       []NoteResponse `json:"notes"`
	Total       int            `json:"total"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// NoteEnvelope wraps a single note on mutation responses.
type NoteEnvelope struct {
	Success bool         `json:"success"`
	Note    NoteResponse `json:"note"`
}

func toNoteResponse(n *models.Note, now time.Time) NoteResponse {
	return NoteResponse{
		ID:               n.ID,
		UserID:           n.UserID,
		Title:            n.Title,
		Description:      n.Description,
		Favorite:         n.Favorite,
		CreatedAt:        n.CreatedAt,
		CreatedAtDisplay: timefmt.Relative(n.CreatedAt, now),
	}
}

func toNoteResponses(notes []models.Note, now time.Time) []NoteResponse {
	out := make([]NoteResponse, len(notes))
	for i := range notes {
		out[i] = toNoteResponse(&notes[i], now)
	}
	return out
}
