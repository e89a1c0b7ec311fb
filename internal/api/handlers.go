package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// noteID extracts and parses the {id} path parameter.
func noteID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// requireUserID reads the authenticated user id; the middleware guarantees
// it is present, so a miss means the route was mounted without auth.
func requireUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
		return 0, false
	}
	return id, true
}

// ListNotes handles GET /api/notes.
//
// page comes from the query string and defaults to 1 when missing or
// non-numeric. The page size is fixed at noteservice.PerPage.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	result, err := h.svc.ListNotes(r.Context(), userID, page)
	if err != nil {
		slog.Error("list notes failed", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{
		Notes:       toNoteResponses(result.Notes, time.Now()),
		Total:       result.Total,
		TotalPages:  result.TotalPages,
		CurrentPage: result.CurrentPage,
	})
}

// CreateNote handles POST /api/notes (form fields: title, description).
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form body"))
		return
	}

	in := noteservice.CreateNoteInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
	}
	note, err := h.svc.CreateNote(r.Context(), userID, in)
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			writeJSON(w, http.StatusBadRequest, fieldErrorsBody(fieldErrs))
			return
		}
		slog.Error("create note failed", slog.Int64("user_id", userID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create note"))
		return
	}
	writeJSON(w, http.StatusOK, NoteEnvelope{Success: true, Note: toNoteResponse(note, time.Now())})
}

// GetNote handles GET /api/notes/{id}.
//
// Reads check ownership after the fetch: a note owned by another user is a
// 403, unlike write paths where the miss is folded into a 404.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}

	note, err := h.svc.GetNote(r.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("note not found"))
		case errors.Is(err, apperr.ErrForbidden):
			writeJSON(w, http.StatusForbidden, errorBody("forbidden"))
		default:
			slog.Error("get note failed", slog.Int64("note_id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"note": toNoteResponse(note, time.Now())})
}

// UpdateNote handles PUT /api/notes/{id} (form fields: title, description;
// absent fields are left unchanged).
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid form body"))
		return
	}

	var in noteservice.UpdateNoteInput
	if vals, present := r.PostForm["title"]; present && len(vals) > 0 {
		in.Title = &vals[0]
	}
	if vals, present := r.PostForm["description"]; present && len(vals) > 0 {
		in.Description = &vals[0]
	}

	note, err := h.svc.UpdateNote(r.Context(), userID, id, in)
	if err != nil {
		var fieldErrs validation.Errors
		switch {
		case errors.As(err, &fieldErrs):
			writeJSON(w, http.StatusBadRequest, fieldErrorsBody(fieldErrs))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("note not found"))
		default:
			slog.Error("update note failed", slog.Int64("note_id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("failed to update note"))
		}
		return
	}
	writeJSON(w, http.StatusOK, NoteEnvelope{Success: true, Note: toNoteResponse(note, time.Now())})
}

// DeleteNote handles DELETE /api/notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}

	if err := h.svc.DeleteNote(r.Context(), userID, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("note not found"))
			return
		}
		slog.Error("delete note failed", slog.Int64("note_id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to delete note"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleFavorite handles POST /api/notes/{id}/favorite.
//
// A nonexistent id and a note owned by another user are indistinguishable
// here: both are a 404, so the endpoint never leaks note existence.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note id"))
		return
	}

	note, err := h.svc.ToggleFavorite(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("note not found"))
			return
		}
		slog.Error("toggle favorite failed", slog.Int64("note_id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to toggle favorite"))
		return
	}
	writeJSON(w, http.StatusOK, NoteEnvelope{Success: true, Note: toNoteResponse(note, time.Now())})
}
