package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/laguz/internal/models"
)

const noteColumns = `id, user_id, title, description, favorite, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var n models.Note
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.Favorite, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNote inserts a new note for userID and returns the persisted row,
// including the generated id and creation timestamp.
func (db *DB) CreateNote(ctx context.Context, userID int64, title, description string) (*models.Note, error) {
	row := db.conn.QueryRowContext(ctx, `
		INSERT INTO notes (user_id, title, description, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+noteColumns,
		userID, title, description, time.Now().UTC())
	n, err := scanNote(row)
	if err != nil {
		return nil, fmt.Errorf("store: create note: %w", err)
	}
	return n, nil
}

// GetNoteByID returns the note with the given id, or nil when it does not
// exist. Ownership is not checked here; read-path checks live in the service.
func (db *DB) GetNoteByID(ctx context.Context, id int64) (*models.Note, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+noteColumns+` FROM notes WHERE id = ?
	`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get note: %w", err)
	}
	return n, nil
}

// ListNotesByUser returns one page of userID's notes, favorites first and
// newest first within each group, plus the total count ignoring pagination.
// page is 1-indexed; a page past the end yields an empty slice.
func (db *DB) ListNotesByUser(ctx context.Context, userID int64, page, perPage int) ([]models.Note, int, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * perPage

	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes
		WHERE user_id = ?
		ORDER BY favorite DESC, created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, userID, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("store: scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("store: list notes: %w", err)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE user_id = ?`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count notes: %w", err)
	}
	return notes, total, nil
}

// UpdateNote applies a partial patch to the row matching both id and userID.
// The ownership predicate lives in the same statement as the mutation, so a
// wrong id and a wrong owner are indistinguishable: both return nil.
func (db *DB) UpdateNote(ctx context.Context, id, userID int64, patch models.NotePatch) (*models.Note, error) {
	row := db.conn.QueryRowContext(ctx, `
		UPDATE notes
		SET title       = COALESCE(?, title),
		    description = COALESCE(?, description)
		WHERE id = ? AND user_id = ?
		RETURNING `+noteColumns,
		patch.Title, patch.Description, id, userID)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: update note: %w", err)
	}
	return n, nil
}

// DeleteNote removes the row matching both id and userID and reports whether
// a row was deleted.
func (db *DB) DeleteNote(ctx context.Context, id, userID int64) (bool, error) {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("store: delete note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: delete note: %w", err)
	}
	return affected > 0, nil
}

// ToggleFavorite flips the favorite flag in place for the row matching both
// id and userID. The flip is a logical NOT inside the statement, not a
// read-then-write, so concurrent toggles on the same row stay well-defined.
func (db *DB) ToggleFavorite(ctx context.Context, id, userID int64) (*models.Note, error) {
	row := db.conn.QueryRowContext(ctx, `
		UPDATE notes
		SET favorite = NOT favorite
		WHERE id = ? AND user_id = ?
		RETURNING `+noteColumns,
		id, userID)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: toggle favorite: %w", err)
	}
	return n, nil
}
