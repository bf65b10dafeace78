// Package carte turns an append-only note service into an order book:
// menus are published as tagged notes, anonymous customers order against
// them, and the notes are parsed back into a structured ledger.
//
// This file is the public facade. It re-exports the types and options
// most integrations need so that simple uses never import subpackages.
package carte

import (
	"log/slog"

	"github.com/carteland/carte/internal/platform"
	"github.com/carteland/carte/pkg/catalog"
	"github.com/carteland/carte/pkg/core"
	"github.com/carteland/carte/pkg/ledger"
	"github.com/carteland/carte/pkg/record"
	"github.com/carteland/carte/pkg/resolve"
)

// --- Types ---

// Note is one immutable entry of the backing note service.
type Note = core.Note

// Menu is a named collection of orderable items.
type Menu = core.Menu

// MenuItem is one orderable entry of a menu.
type MenuItem = core.MenuItem

// Catalog is the full collection of menus owned by one client.
type Catalog = core.Catalog

// ParsedOrder is one order note lifted into structured form.
type ParsedOrder = core.ParsedOrder

// OrderItem is one line of an order.
type OrderItem = core.OrderItem

// Selection pairs a menu item with a requested quantity.
type Selection = record.Selection

// Query carries the coordinates of a shared menu link.
type Query = resolve.Query

// Visibility levels of the note service.
const (
	VisibilityPrivate   = core.VisibilityPrivate
	VisibilityProtected = core.VisibilityProtected
	VisibilityPublic    = core.VisibilityPublic
)

// --- Errors ---

var (
	ErrNoteNotFound    = core.ErrNoteNotFound
	ErrMenuNotFound    = core.ErrMenuNotFound
	ErrCatalogNotFound = core.ErrCatalogNotFound
	ErrDecodeFailure   = core.ErrDecodeFailure
	ErrStoreReadOnly   = core.ErrStoreReadOnly
)

// --- Configuration ---

// Config carries every tunable of the client.
type Config = platform.Config

// Option defines a functional option for configuring the client.
type Option = platform.Option

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithNoteStore injects a custom note store backend.
func WithNoteStore(store core.NoteStore) Option {
	return platform.WithNoteStore(store)
}

// WithCatalogStore injects a custom catalog store.
func WithCatalogStore(store core.CatalogStore) Option {
	return platform.WithCatalogStore(store)
}

// WithConfig replaces the loaded configuration.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// LoadConfig resolves configuration from defaults, an optional YAML file
// and the environment.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return platform.DefaultConfig()
}

// --- Factory ---

// App is the assembled client.
type App = platform.App

// New assembles a client from configuration and options.
func New(opts ...Option) (*App, error) {
	return platform.New(opts...)
}

// --- Operations ---

// RebuildOrders lifts order notes into structured form, newest first.
func RebuildOrders(notes []Note) []ParsedOrder {
	return ledger.Rebuild(notes)
}

// BuildOrderContent renders a selection as order note text.
func BuildOrderContent(menu Menu, selections []Selection, customer, remark string) string {
	return record.BuildOrderContent(menu, selections, customer, remark)
}

// MergeMenus imports menus into a catalog without ever touching existing
// entries; colliding ids get an import suffix.
func MergeMenus(local Catalog, incoming []Menu) Catalog {
	return catalog.Merge(local, incoming)
}
