package catalog_test

import (
	"reflect"
	"testing"

	"github.com/carteland/carte/pkg/catalog"
	"github.com/carteland/carte/pkg/core"
)

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Fried Rice", "fried-rice"},
		{"  Lunch Menu!  ", "lunch-menu"},
		{"火锅", ""},
		{"a--b", "a-b"},
	}
	for _, tc := range tests {
		if got := catalog.Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMerge_CollisionGetsSuffix(t *testing.T) {
	local := core.Catalog{Version: 1, Menus: []core.Menu{{ID: "lunch", Name: "Lunch"}}}
	incoming := []core.Menu{{ID: "lunch", Name: "Lunch"}}

	merged := catalog.Merge(local, incoming)

	if len(merged.Menus) != 2 {
		t.Fatalf("menus = %d, want 2", len(merged.Menus))
	}
	if merged.Menus[0].ID != "lunch" {
		t.Errorf("local menu renamed to %q", merged.Menus[0].ID)
	}
	if merged.Menus[1].ID != "lunch-imported" {
		t.Errorf("incoming menu id = %q, want lunch-imported", merged.Menus[1].ID)
	}
}

func TestMerge_NeverTouchesLocalMenus(t *testing.T) {
	local := core.Catalog{Version: 3, Menus: []core.Menu{
		{ID: "lunch", Name: "Lunch", Items: []core.MenuItem{{ID: "fr", Name: "Fried Rice"}}},
	}}
	before := local.Menus[0]

	merged := catalog.Merge(local, []core.Menu{
		{ID: "lunch", Name: "Other Lunch"},
		{Name: "Dinner Specials"},
	})

	if !reflect.DeepEqual(merged.Menus[0], before) {
		t.Errorf("local menu changed: %+v", merged.Menus[0])
	}
	if merged.Version != 3 {
		t.Errorf("version = %d, want 3", merged.Version)
	}

	ids := make(map[string]bool)
	for _, m := range merged.Menus {
		if ids[m.ID] {
			t.Errorf("duplicate menu id %q after merge", m.ID)
		}
		ids[m.ID] = true
	}
	if !ids["dinner-specials"] {
		t.Errorf("expected slugged id for unnamed incoming menu, got %v", ids)
	}
}

func TestMerge_RepeatedCollisions(t *testing.T) {
	local := core.Catalog{Menus: []core.Menu{{ID: "lunch"}, {ID: "lunch-imported"}}}
	merged := catalog.Merge(local, []core.Menu{{ID: "lunch"}})
	last := merged.Menus[len(merged.Menus)-1]
	if last.ID != "lunch-imported-imported" {
		t.Errorf("id = %q", last.ID)
	}
}

func TestMerge_NormalizesItems(t *testing.T) {
	merged := catalog.Merge(core.Catalog{}, []core.Menu{{
		ID: "m",
		Items: []core.MenuItem{
			{Name: "Hot Pot"},
			{},
			{ID: "keep", Name: "Keep", Image: "data:image/jpeg;base64,abc"},
		},
	}})

	items := merged.Menus[0].Items
	if items[0].ID != "hot-pot" {
		t.Errorf("item id = %q", items[0].ID)
	}
	if items[1].ID != "item" || items[1].Name != "" {
		t.Errorf("empty item normalized to %+v", items[1])
	}
	if items[2].ID != "keep" || items[2].Image == "" {
		t.Errorf("explicit fields must pass through: %+v", items[2])
	}
}

func TestMerge_GeneratesMissingPublicID(t *testing.T) {
	merged := catalog.Merge(core.Catalog{}, []core.Menu{
		{ID: "open", AllowPublicOrder: true},
		{ID: "kept", AllowPublicOrder: true, PublicID: "existing-token"},
		{ID: "closed"},
	})

	if merged.Menus[0].PublicID == "" {
		t.Error("publicId must be generated before the merged catalog is persisted")
	}
	if merged.Menus[1].PublicID != "existing-token" {
		t.Errorf("existing publicId replaced: %q", merged.Menus[1].PublicID)
	}
	if merged.Menus[2].PublicID != "" {
		t.Errorf("closed menu should not get a publicId, got %q", merged.Menus[2].PublicID)
	}
}
