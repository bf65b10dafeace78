// Package catalog owns the locally persisted menu catalog: the merge
// semantics for imported menus and the on-disk slot store.
package catalog

import (
	"regexp"
	"strings"

	"github.com/carteland/carte/pkg/core"
)

// ImportSuffix is appended to an incoming menu id (repeatedly, if needed)
// until it no longer collides with an id already in the catalog.
const ImportSuffix = "-imported"

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives an identifier from a display name.
func Slugify(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(s, "-")
}

// Merge folds incoming menus into the local catalog. It is append-only:
// existing local menus are never touched, and every incoming menu gets an
// id that is unique across the local set plus everything merged so far.
// Normalization holds immediately: a menu that allows public ordering
// always leaves here with a publicId.
func Merge(local core.Catalog, incoming []core.Menu) core.Catalog {
	existing := make(map[string]struct{}, len(local.Menus))
	for _, m := range local.Menus {
		existing[m.ID] = struct{}{}
	}

	merged := core.Catalog{Version: local.Version}
	merged.Menus = append(merged.Menus, local.Menus...)

	for _, in := range incoming {
		id := in.ID
		if id == "" {
			id = Slugify(in.Name)
		}
		if id == "" {
			id = "menu"
		}
		for {
			if _, taken := existing[id]; !taken {
				break
			}
			id += ImportSuffix
		}
		existing[id] = struct{}{}

		name := in.Name
		if name == "" {
			name = id
		}

		items := make([]core.MenuItem, 0, len(in.Items))
		for _, it := range in.Items {
			items = append(items, normalizeItem(it))
		}

		publicID := in.PublicID
		if in.AllowPublicOrder && publicID == "" {
			publicID = core.NewPublicID()
		}

		merged.Menus = append(merged.Menus, core.Menu{
			ID:               id,
			Name:             name,
			Items:            items,
			AllowPublicOrder: in.AllowPublicOrder,
			PublicID:         publicID,
		})
	}
	return merged
}

func normalizeItem(it core.MenuItem) core.MenuItem {
	if it.ID == "" {
		name := it.Name
		if name == "" {
			name = "item"
		}
		it.ID = Slugify(name)
		if it.ID == "" {
			it.ID = "item"
		}
	}
	// Price and image pass through untouched; a missing name stays empty.
	return it
}
