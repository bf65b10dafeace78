// Package codec serializes menu catalogs to and from notes.
//
// A payload small enough to fit the note service's content limit is
// embedded inline as a fenced json block. Anything larger is split: a
// placeholder note carries the discriminator tag and a human-readable
// notice, and the full JSON travels as an application/json attachment.
// Decoding tries both sides before giving up, so either may be
// authoritative.
package codec

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carteland/carte/pkg/core"
	"github.com/carteland/carte/pkg/record"
)

// DefaultInlineLimit mirrors the note service's default content length
// limit. The effective limit comes from configuration, not from here.
const DefaultInlineLimit = 8192

// AttachmentMimeType is the MIME type of chunked payloads.
const AttachmentMimeType = "application/json"

// Codec encodes and decodes catalogs and published menus against a note
// store.
type Codec struct {
	store  core.NoteStore
	limit  int
	logger *slog.Logger
}

// New creates a Codec. limit is the inline size threshold in bytes; zero
// means DefaultInlineLimit.
func New(store core.NoteStore, limit int, logger *slog.Logger) *Codec {
	if limit <= 0 {
		limit = DefaultInlineLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{store: store, limit: limit, logger: logger}
}

type catalogDoc struct {
	Version int         `json:"version"`
	Menus   []core.Menu `json:"menus"`
}

type pubDoc struct {
	Version    int             `json:"version"`
	Kind       string          `json:"kind"`
	PublicID   string          `json:"publicId"`
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Items      []core.MenuItem `json:"items"`
	AllowOrder bool            `json:"allowOrder"`
}

// EncodeCatalog publishes a whole catalog as a menu-definition note.
func (c *Codec) EncodeCatalog(ctx context.Context, catalog core.Catalog, visibility core.Visibility) (core.PublicationRecord, error) {
	payload, err := json.MarshalIndent(catalogDoc{Version: catalog.Version, Menus: catalog.Menus}, "", "  ")
	if err != nil {
		return core.PublicationRecord{}, fmt.Errorf("encode catalog: %w", err)
	}
	inline := fmt.Sprintf("#%s\n\n```json\n%s\n```", record.TagMenuDef, payload)
	placeholder := fmt.Sprintf("#%s\n\n(Menu definition exceeds the inline limit; published as a JSON attachment.)", record.TagMenuDef)
	return c.publish(ctx, record.TagMenuDef, inline, placeholder, payload, visibility, "")
}

// PublishMenu publishes a single menu for anonymous ordering. A missing
// publicId is assigned here and written back to the menu so the caller
// can persist it: decode must return the same token for the same menu.
func (c *Codec) PublishMenu(ctx context.Context, menu *core.Menu, visibility core.Visibility) (core.PublicationRecord, error) {
	if menu.PublicID == "" {
		menu.PublicID = core.NewPublicID()
	}
	doc := pubDoc{
		Version:    1,
		Kind:       record.PubKind,
		PublicID:   menu.PublicID,
		ID:         menu.ID,
		Name:       menu.Name,
		Items:      menu.Items,
		AllowOrder: true,
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return core.PublicationRecord{}, fmt.Errorf("encode menu: %w", err)
	}
	inline := fmt.Sprintf("#%s\n\n```json\n%s\n```", record.TagMenuPub, payload)
	// The publicId stays in the placeholder body so content-substring
	// scans on the service side still match the chunked form.
	placeholder := fmt.Sprintf("#%s\npublicId:%s\n\n(Menu is large; published as a JSON attachment.)", record.TagMenuPub, menu.PublicID)
	return c.publish(ctx, record.TagMenuPub, inline, placeholder, payload, visibility, menu.PublicID)
}

func (c *Codec) publish(ctx context.Context, tag, inline, placeholder string, payload []byte, visibility core.Visibility, publicID string) (core.PublicationRecord, error) {
	if len(inline) <= c.limit {
		note, err := c.store.CreateNote(ctx, inline, visibility)
		if err != nil {
			return core.PublicationRecord{}, fmt.Errorf("create %s note: %w", tag, err)
		}
		return core.PublicationRecord{PublicID: publicID, NoteName: note.Name, Inline: true}, nil
	}

	// Chunked path: the note must exist (and be visible) before the
	// attachment so the attachment is always dereferenceable from it.
	note, err := c.store.CreateNote(ctx, placeholder, visibility)
	if err != nil {
		return core.PublicationRecord{}, fmt.Errorf("create %s placeholder: %w", tag, err)
	}
	filename := fmt.Sprintf("%s-%s.json", tag, time.Now().UTC().Format("2006-01-02-15-04-05"))
	ref, err := c.store.CreateAttachment(ctx, note.Name, filename, AttachmentMimeType, payload)
	if err != nil {
		return core.PublicationRecord{}, fmt.Errorf("attach %s payload: %w", tag, err)
	}
	c.logger.Debug("catalog payload chunked", "tag", tag, "note", note.Name, "bytes", len(payload))
	return core.PublicationRecord{PublicID: publicID, NoteName: note.Name, Inline: false, Attachment: &ref}, nil
}

// DecodeCatalog recovers a catalog from a note, trying the note text
// first and any JSON attachment second.
func (c *Codec) DecodeCatalog(ctx context.Context, note core.Note) (core.Catalog, bool) {
	if catalog, ok := record.ParseMenuDef(note.Content); ok {
		return catalog, true
	}
	if raw, ok := c.fetchJSONAttachment(ctx, note); ok {
		return record.ParseMenuDefBytes(raw)
	}
	return core.Catalog{}, false
}

// DecodeMenu recovers a single published menu from a note.
func (c *Codec) DecodeMenu(ctx context.Context, note core.Note) (core.Menu, bool) {
	if menu, ok := record.ParseMenuPub(note.Content); ok {
		return menu, true
	}
	if raw, ok := c.fetchJSONAttachment(ctx, note); ok {
		return record.ParseMenuPubBytes(raw)
	}
	return core.Menu{}, false
}

func (c *Codec) fetchJSONAttachment(ctx context.Context, note core.Note) ([]byte, bool) {
	for _, ref := range note.Attachments {
		if !strings.Contains(ref.MimeType, "json") && !strings.HasSuffix(strings.ToLower(ref.Filename), ".json") {
			continue
		}
		raw, err := c.store.FetchAttachment(ctx, ref)
		if err != nil {
			c.logger.Warn("fetch attachment failed", "attachment", ref.Name, "err", err)
			continue
		}
		return raw, true
	}
	return nil, false
}
