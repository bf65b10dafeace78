// Package record recovers structured order and menu records from
// unstructured, human-editable note text.
//
// Parsing here is advisory: every entry point is best-effort and returns
// zero values on malformed input instead of errors. Notes are written and
// rewritten by people; a line that matches no known grammar simply
// contributes nothing.
package record

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carteland/carte/pkg/core"
)

// Content markers. TagOrder etc. double as note tags and inline tokens:
// a note is classified by carrying the tag OR the #token in its text.
const (
	TagOrder   = "order"
	TagMenuDef = "menu-def"
	TagMenuPub = "menu-pub"
)

// Signal is the classification of one note.
type Signal int

const (
	SignalNone Signal = iota
	SignalOrder
	SignalMenuDef
	SignalMenuPub
)

var (
	orderToken   = regexp.MustCompile(`#order\b`)
	menuDefToken = regexp.MustCompile(`#menu-def\b`)
	menuPubToken = regexp.MustCompile(`#menu-pub\b`)

	// menuRef binds an order to a menu. Only the first line is scanned:
	// the menu id must anchor the record.
	menuRef = regexp.MustCompile(`#menu:([A-Za-z0-9_-]+)`)

	// legacyItem: - name:"Fried Rice" qty:2 price:18
	legacyItem = regexp.MustCompile(`^\s*-\s*name:"([^"]+)"\s+qty:(\d+)(?:\s+price:(\d+(?:\.\d+)?))?`)

	// compactItem: - Fried Rice × 2 × ¥18
	// The name is the shortest run before the first separator that still
	// lets the quantity match. A trailing "= ¥36.00" is tolerated.
	compactItem = regexp.MustCompile(`^\s*-\s*(.+?)\s*×\s*(\d+)(?:\s*×\s*¥(\d+(?:\.\d+)?))?`)

	fencedJSON = regexp.MustCompile("(?is)```\\s*json\\s*(.*?)```")
)

// Classify inspects a note's tags and text and reports what kind of
// record it carries. Publication wins over definition wins over order:
// structured payload notes may mention #order in prose.
func Classify(n core.Note) Signal {
	switch {
	case n.HasTag(TagMenuPub) || menuPubToken.MatchString(n.Content):
		return SignalMenuPub
	case n.HasTag(TagMenuDef) || menuDefToken.MatchString(n.Content):
		return SignalMenuDef
	case n.HasTag(TagOrder) || orderToken.MatchString(n.Content):
		return SignalOrder
	}
	return SignalNone
}

// ParseOrder extracts the menu reference and item lines from order text.
// Item formats are tried per line, first match wins; mixing legacy and
// compact lines in one note is fine.
func ParseOrder(text string) (menuID string, items []core.OrderItem) {
	lines := splitLines(text)
	if len(lines) > 0 {
		if m := menuRef.FindStringSubmatch(lines[0]); m != nil {
			menuID = m[1]
		}
	}
	for _, line := range lines {
		if it, ok := parseItemLine(line); ok {
			items = append(items, it)
		}
	}
	return menuID, items
}

func parseItemLine(line string) (core.OrderItem, bool) {
	if m := legacyItem.FindStringSubmatch(line); m != nil {
		return buildItem(m[1], m[2], m[3])
	}
	if m := compactItem.FindStringSubmatch(line); m != nil {
		return buildItem(strings.TrimSpace(m[1]), m[2], m[3])
	}
	return core.OrderItem{}, false
}

func buildItem(name, qty, price string) (core.OrderItem, bool) {
	q, err := strconv.Atoi(qty)
	if err != nil || q < 1 {
		return core.OrderItem{}, false
	}
	it := core.OrderItem{Name: name, Quantity: q}
	if price != "" {
		if p, err := decimal.NewFromString(price); err == nil {
			it.UnitPrice = &p
		}
	}
	return it, true
}

// ParseMenuDef recovers a catalog from menu-definition text. The payload
// is a ```json fenced block when present, else everything from the first
// '{' or '['. Both {version, menus} objects and bare menu arrays are
// accepted. A payload with no menus is not a candidate.
func ParseMenuDef(text string) (core.Catalog, bool) {
	return ParseMenuDefBytes([]byte(StripCodeFence(text)))
}

// ParseMenuDefBytes parses a raw catalog JSON payload (e.g. an attachment).
func ParseMenuDefBytes(raw []byte) (core.Catalog, bool) {
	var c core.Catalog
	if err := json.Unmarshal(raw, &c); err == nil && len(c.Menus) > 0 {
		return c, true
	}
	var menus []core.Menu
	if err := json.Unmarshal(raw, &menus); err == nil && len(menus) > 0 {
		return core.Catalog{Menus: menus}, true
	}
	return core.Catalog{}, false
}

// pubPayload is the published single-menu shape. The embedded Menu picks
// up id/name/items/allowOrder/publicId; Menus covers the legacy catalog
// shim.
type pubPayload struct {
	Kind string `json:"kind"`
	core.Menu
	Menus []core.Menu `json:"menus"`
}

// PubKind is the discriminator value of published single-menu payloads.
const PubKind = "menu-public"

// ParseMenuPub recovers a single published menu from menu-publication
// text. Expects a menu object tagged kind: "menu-public"; an untagged
// menu-shaped object or a whole catalog (first menu taken) are accepted
// for backward compatibility.
func ParseMenuPub(text string) (core.Menu, bool) {
	return ParseMenuPubBytes([]byte(StripCodeFence(text)))
}

// ParseMenuPubBytes parses a raw published-menu JSON payload.
func ParseMenuPubBytes(raw []byte) (core.Menu, bool) {
	var p pubPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return core.Menu{}, false
	}
	if p.Kind == PubKind || p.Menu.ID != "" || p.Menu.PublicID != "" {
		return p.Menu, true
	}
	if len(p.Menus) > 0 {
		return p.Menus[0], true
	}
	return core.Menu{}, false
}

// StripCodeFence isolates the JSON payload of a note body: the contents
// of a ```json fence when present, otherwise the substring starting at
// the first '{' or '[', otherwise the text unchanged.
func StripCodeFence(src string) string {
	if m := fencedJSON.FindStringSubmatch(src); m != nil {
		return m[1]
	}
	obj := strings.Index(src, "{")
	arr := strings.Index(src, "[")
	i := obj
	if i < 0 || (arr >= 0 && arr < i) {
		i = arr
	}
	if i >= 0 {
		return src[i:]
	}
	return src
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
