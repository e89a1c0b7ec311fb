// Package store provides SQLite-backed persistence for notes.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/starford/laguz/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps a sql.DB with note-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies pending migrations.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: set dialect: %w", err)
	}
	if err := goose.Up(conn, "migrations"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply migrations: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// NoteStore defines the persistence operations for notes.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
//
// Lookup operations return (nil, nil) when no row matches; the nil note is
// the absent-value sentinel, distinct from an infrastructure error.
type NoteStore interface {
	CreateNote(ctx context.Context, userID int64, title, description string) (*models.Note, error)
	GetNoteByID(ctx context.Context, id int64) (*models.Note, error)
	ListNotesByUser(ctx context.Context, userID int64, page, perPage int) ([]models.Note, int, error)
	UpdateNote(ctx context.Context, id, userID int64, patch models.NotePatch) (*models.Note, error)
	DeleteNote(ctx context.Context, id, userID int64) (bool, error)
	ToggleFavorite(ctx context.Context, id, userID int64) (*models.Note, error)
	Close() error
}

// Verify *DB satisfies NoteStore at compile time.
var _ NoteStore = (*DB)(nil)
