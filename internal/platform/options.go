package platform

import (
	"log/slog"

	"github.com/carteland/carte/pkg/core"
)

// options holds the internal configuration for assembling an App.
type options struct {
	store    core.NoteStore
	catalogs core.CatalogStore
	logger   *slog.Logger
	config   *Config
}

// Option defines a functional option for configuring the client.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithNoteStore injects a custom note store, replacing the default HTTP
// client. Useful for tests and for alternative backends.
func WithNoteStore(store core.NoteStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithCatalogStore injects a custom catalog store.
func WithCatalogStore(store core.CatalogStore) Option {
	return func(o *options) {
		o.catalogs = store
	}
}

// WithConfig replaces the whole configuration instead of loading it from
// file and environment.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = &cfg
	}
}
