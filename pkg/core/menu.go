package core

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is one orderable entry of a menu.
// Image is an opaque blob reference (data URL or attachment link) and is
// passed through untouched.
type MenuItem struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Image string           `json:"image,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

// Menu is a named catalog of orderable items. Item order is meaningful
// for display and must be preserved.
type Menu struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Items            []MenuItem `json:"items"`
	AllowPublicOrder bool       `json:"allowOrder,omitempty"`
	PublicID         string     `json:"publicId,omitempty"`
}

// FindItem returns the item with the given id, if any.
func (m Menu) FindItem(id string) (MenuItem, bool) {
	for _, it := range m.Items {
		if it.ID == id {
			return it, true
		}
	}
	return MenuItem{}, false
}

// Catalog is the full collection of menus owned by one client instance.
// It is single-writer by construction: one local client mutates it and
// persists it after every change.
type Catalog struct {
	Version int    `json:"version"`
	Menus   []Menu `json:"menus"`
}

// FindMenu returns the menu with the given id, if any.
func (c Catalog) FindMenu(id string) (Menu, bool) {
	for _, m := range c.Menus {
		if m.ID == id {
			return m, true
		}
	}
	return Menu{}, false
}

// FindMenuByPublicID returns the menu with the given publicId, if any.
func (c Catalog) FindMenuByPublicID(publicID string) (Menu, bool) {
	for _, m := range c.Menus {
		if m.PublicID == publicID {
			return m, true
		}
	}
	return Menu{}, false
}

// PublicationRecord is the published representation of one catalog or menu:
// the note carrying it plus the coordinates needed to re-find it.
type PublicationRecord struct {
	PublicID   string
	NoteName   string
	Inline     bool
	Attachment *AttachmentRef
}

// NewPublicID returns a fresh unguessable token granting anonymous access
// to one menu. Once assigned to a menu it stays stable for its lifetime.
func NewPublicID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// CatalogStore persists catalogs as one versioned blob per namespace,
// loaded at startup and rewritten after every mutating operation.
type CatalogStore interface {
	Load(ctx context.Context, namespace string) (Catalog, error)
	Save(ctx context.Context, namespace string, c Catalog) error
}
