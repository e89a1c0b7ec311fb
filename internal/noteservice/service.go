// Package noteservice implements the note operations behind the API:
// validation, ownership policy, pagination, and change notifications.
package noteservice

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/store"
)

// PerPage is the fixed page size for note listings.
const PerPage = 20

// Event kinds published after successful mutations.
const (
	EventCreated   = "created"
	EventUpdated   = "updated"
	EventDeleted   = "deleted"
	EventFavorited = "favorited"
)

// EventPublisher receives note change notifications for live clients.
// A nil publisher disables notifications.
type EventPublisher interface {
	PublishNoteEvent(kind string, userID, noteID int64)
}

// CreateNoteInput carries the fields accepted when creating a note.
type CreateNoteInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Validate checks the input against the note schema. Failures come back as
// validation.Errors keyed by field name, suitable for per-field responses.
func (in CreateNoteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Description, validation.Length(0, 10000)),
	)
}

// UpdateNoteInput is a partial update; nil fields are left unchanged.
type UpdateNoteInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Validate checks the patch against the note schema.
func (in UpdateNoteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&in.Description, validation.Length(0, 10000)),
	)
}

// NotePage is one page of a user's notes plus pagination metadata.
type NotePage struct {
	Notes       []models.Note
	Total       int
	TotalPages  int
	CurrentPage int
}

// Service coordinates the note store and event notifications.
type Service struct {
	store  store.NoteStore
	events EventPublisher
}

// NewService creates a new note service. events may be nil.
func NewService(st store.NoteStore, events EventPublisher) *Service {
	return &Service{store: st, events: events}
}

func (s *Service) publish(kind string, userID, noteID int64) {
	if s.events != nil {
		s.events.PublishNoteEvent(kind, userID, noteID)
	}
}

// ListNotes returns one page of userID's notes. page values below 1 are
// treated as 1; pages past the end come back empty rather than failing.
func (s *Service) ListNotes(ctx context.Context, userID int64, page int) (*NotePage, error) {
	if page < 1 {
		page = 1
	}
	notes, total, err := s.store.ListNotesByUser(ctx, userID, page, PerPage)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return &NotePage{
		Notes:       notes,
		Total:       total,
		TotalPages:  (total + PerPage - 1) / PerPage,
		CurrentPage: page,
	}, nil
}

// CreateNote validates the input and inserts a note owned by userID.
func (s *Service) CreateNote(ctx context.Context, userID int64, in CreateNoteInput) (*models.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	n, err := s.store.CreateNote(ctx, userID, in.Title, in.Description)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	s.publish(EventCreated, userID, n.ID)
	return n, nil
}

// GetNote fetches a note for the read path. Unlike the write paths, the
// ownership check happens here after the fetch: a note owned by another
// user yields ErrForbidden rather than ErrNotFound.
func (s *Service) GetNote(ctx context.Context, userID, id int64) (*models.Note, error) {
	n, err := s.store.GetNoteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	if n == nil {
		return nil, apperr.ErrNotFound
	}
	if n.UserID != userID {
		return nil, apperr.ErrForbidden
	}
	return n, nil
}

// UpdateNote validates the patch and applies it owner-scoped. A missing row
// and a wrong owner are both reported as ErrNotFound.
func (s *Service) UpdateNote(ctx context.Context, userID, id int64, in UpdateNoteInput) (*models.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	n, err := s.store.UpdateNote(ctx, id, userID, models.NotePatch{
		Title:       in.Title,
		Description: in.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	if n == nil {
		return nil, apperr.ErrNotFound
	}
	s.publish(EventUpdated, userID, n.ID)
	return n, nil
}

// DeleteNote removes a note owner-scoped. A missing row and a wrong owner
// are both reported as ErrNotFound.
func (s *Service) DeleteNote(ctx context.Context, userID, id int64) error {
	deleted, err := s.store.DeleteNote(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if !deleted {
		return apperr.ErrNotFound
	}
	s.publish(EventDeleted, userID, id)
	return nil
}

// ToggleFavorite flips a note's favorite flag owner-scoped. A missing row
// and a wrong owner are both reported as ErrNotFound.
func (s *Service) ToggleFavorite(ctx context.Context, userID, id int64) (*models.Note, error) {
	n, err := s.store.ToggleFavorite(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}
	if n == nil {
		return nil, apperr.ErrNotFound
	}
	s.publish(EventFavorited, userID, n.ID)
	return n, nil
}
