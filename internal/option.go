package internal

import "github.com/starford/laguz/internal/store"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	store  store.NoteStore
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStore injects a pre-built note store, bypassing the SQLite path from
// the configuration. The caller keeps ownership and is responsible for
// closing it.
func WithStore(st store.NoteStore) Option {
	return func(a *application) {
		a.store = st
	}
}
