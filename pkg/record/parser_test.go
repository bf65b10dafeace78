package record

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/carteland/carte/pkg/core"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		note core.Note
		want Signal
	}{
		{"order tag", core.Note{Tags: []string{"order"}}, SignalOrder},
		{"order token", core.Note{Content: "dinner #order tonight"}, SignalOrder},
		{"order token boundary", core.Note{Content: "#orders report"}, SignalNone},
		{"menu def tag", core.Note{Tags: []string{"menu-def"}}, SignalMenuDef},
		{"menu pub token", core.Note{Content: "#menu-pub\npublicId:abc"}, SignalMenuPub},
		{"pub wins over order", core.Note{Content: "#menu-pub and #order in prose"}, SignalMenuPub},
		{"def wins over order", core.Note{Content: "#menu-def\n#order example"}, SignalMenuDef},
		{"plain note", core.Note{Content: "groceries"}, SignalNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.note); got != tc.want {
				t.Errorf("Classify = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseOrder_Compact(t *testing.T) {
	menuID, items := ParseOrder("#order #menu:lunch\n- Fried Rice × 2 × ¥18")
	if menuID != "lunch" {
		t.Fatalf("menuID = %q, want lunch", menuID)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	it := items[0]
	if it.Name != "Fried Rice" || it.Quantity != 2 {
		t.Errorf("item = %+v", it)
	}
	if it.UnitPrice == nil || !it.UnitPrice.Equal(decimal.NewFromInt(18)) {
		t.Errorf("unit price = %v, want 18", it.UnitPrice)
	}

	var order core.ParsedOrder
	order.Items = items
	order.Totalize()
	if order.TotalQuantity != 2 {
		t.Errorf("total quantity = %d, want 2", order.TotalQuantity)
	}
	if order.TotalAmount == nil || !order.TotalAmount.Equal(decimal.NewFromInt(36)) {
		t.Errorf("total amount = %v, want 36", order.TotalAmount)
	}
}

func TestParseOrder_Legacy(t *testing.T) {
	text := "#order #menu:dinner\n- name:\"Mapo Tofu\" qty:3 price:12.5\n- name:\"Rice\" qty:2"
	menuID, items := ParseOrder(text)
	if menuID != "dinner" {
		t.Fatalf("menuID = %q", menuID)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].UnitPrice == nil || !items[0].UnitPrice.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("price = %v", items[0].UnitPrice)
	}
	if items[1].UnitPrice != nil {
		t.Errorf("unpriced item got price %v", items[1].UnitPrice)
	}
}

func TestParseOrder_MixedFormats(t *testing.T) {
	text := "#order #menu:mix\n- name:\"Soup\" qty:1\n- Dumplings × 4 × ¥6\nnot an item line\n- broken × line ×"
	_, items := ParseOrder(text)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Name != "Soup" || items[1].Name != "Dumplings" {
		t.Errorf("items = %+v", items)
	}
}

func TestParseOrder_MenuRefFirstLineOnly(t *testing.T) {
	menuID, _ := ParseOrder("#order\nsee #menu:hidden below")
	if menuID != "" {
		t.Errorf("menuID = %q, want empty: later lines must not bind the menu", menuID)
	}
}

func TestParseOrder_TrailingLineTotal(t *testing.T) {
	_, items := ParseOrder("#order #menu:m\n- Tea × 3 × ¥5 = ¥15.00")
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("items = %+v", items)
	}
	if items[0].UnitPrice == nil || !items[0].UnitPrice.Equal(decimal.NewFromInt(5)) {
		t.Errorf("price = %v", items[0].UnitPrice)
	}
}

func TestParseMenuDef(t *testing.T) {
	fenced := "#menu-def\n\n```json\n{\"version\":2,\"menus\":[{\"id\":\"lunch\",\"name\":\"Lunch\",\"items\":[]}]}\n```"
	c, ok := ParseMenuDef(fenced)
	if !ok || c.Version != 2 || len(c.Menus) != 1 || c.Menus[0].ID != "lunch" {
		t.Fatalf("fenced parse: ok=%v catalog=%+v", ok, c)
	}

	// No fence: payload starts at the first brace.
	bare := "#menu-def imported from chat {\"menus\":[{\"id\":\"a\",\"name\":\"A\"}]}"
	if c, ok = ParseMenuDef(bare); !ok || c.Menus[0].ID != "a" {
		t.Fatalf("bare parse: ok=%v catalog=%+v", ok, c)
	}

	// Bare array payload is a menu list.
	if c, ok = ParseMenuDef(`[{"id":"b","name":"B"}]`); !ok || c.Menus[0].ID != "b" {
		t.Fatalf("array parse: ok=%v catalog=%+v", ok, c)
	}

	if _, ok = ParseMenuDef("#menu-def\nnothing structured here"); ok {
		t.Error("expected no candidate for unstructured text")
	}
	if _, ok = ParseMenuDef("#menu-def {\"menus\":[]}"); ok {
		t.Error("expected no candidate for empty menu list")
	}
}

func TestParseMenuPub(t *testing.T) {
	tagged := "```json\n{\"version\":1,\"kind\":\"menu-public\",\"publicId\":\"tok123\",\"id\":\"lunch\",\"name\":\"Lunch\",\"items\":[{\"id\":\"fr\",\"name\":\"Fried Rice\"}],\"allowOrder\":true}\n```"
	m, ok := ParseMenuPub(tagged)
	if !ok {
		t.Fatal("expected menu")
	}
	if m.PublicID != "tok123" || !m.AllowPublicOrder || len(m.Items) != 1 {
		t.Errorf("menu = %+v", m)
	}

	// Legacy shim: a whole catalog payload yields its first menu.
	catalog := `{"version":1,"menus":[{"id":"first","name":"First"},{"id":"second","name":"Second"}]}`
	if m, ok = ParseMenuPub(catalog); !ok || m.ID != "first" {
		t.Fatalf("catalog shim: ok=%v menu=%+v", ok, m)
	}

	if _, ok = ParseMenuPub("{\"unrelated\":true}"); ok {
		t.Error("expected no menu from unrelated object")
	}
}

func TestStripCodeFence(t *testing.T) {
	if got := StripCodeFence("prefix [1,2] suffix"); got != "[1,2] suffix" {
		t.Errorf("got %q", got)
	}
	if got := StripCodeFence("no payload at all"); got != "no payload at all" {
		t.Errorf("got %q", got)
	}
}
