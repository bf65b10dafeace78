package resolve

import (
	"context"

	"github.com/carteland/carte/pkg/codec"
	"github.com/carteland/carte/pkg/core"
	"github.com/carteland/carte/pkg/record"
)

// DefaultScanPages bounds the public scan so resolution terminates even
// against a huge note corpus.
const DefaultScanPages = 5

// EndpointTier queries the note service's dedicated public lookup.
type EndpointTier struct {
	Lookup core.PublicLookup
	Codec  *codec.Codec
}

func (t *EndpointTier) Name() string { return "endpoint" }

func (t *EndpointTier) Resolve(ctx context.Context, q Query) (core.Menu, bool, error) {
	note, err := t.Lookup.LookupPublicMenu(ctx, q.PublicID, q.NoteHint)
	if err != nil {
		return core.Menu{}, false, err
	}
	menu, ok := t.Codec.DecodeMenu(ctx, note)
	if !ok || !matches(menu, q.PublicID) {
		return core.Menu{}, false, nil
	}
	return menu, true, nil
}

// NoteTier fetches the hinted note directly.
type NoteTier struct {
	Store core.NoteStore
	Codec *codec.Codec
}

func (t *NoteTier) Name() string { return "note" }

func (t *NoteTier) Resolve(ctx context.Context, q Query) (core.Menu, bool, error) {
	if q.NoteHint == "" {
		return core.Menu{}, false, nil
	}
	note, err := t.Store.GetNote(ctx, q.NoteHint)
	if err != nil {
		return core.Menu{}, false, err
	}
	menu, ok := t.Codec.DecodeMenu(ctx, note)
	if !ok || !matches(menu, q.PublicID) {
		return core.Menu{}, false, nil
	}
	return menu, true, nil
}

// ScanTier pages through public notes looking for menu publications,
// capped at MaxPages fetches.
type ScanTier struct {
	Store    core.NoteStore
	Codec    *codec.Codec
	MaxPages int
}

func (t *ScanTier) Name() string { return "scan" }

func (t *ScanTier) Resolve(ctx context.Context, q Query) (core.Menu, bool, error) {
	maxPages := t.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultScanPages
	}
	token := ""
	for page := 0; page < maxPages; page++ {
		notes, err := t.Store.ListNotes(ctx, token)
		if err != nil {
			return core.Menu{}, false, err
		}
		for _, n := range notes.Notes {
			if record.Classify(n) != record.SignalMenuPub {
				continue
			}
			menu, ok := t.Codec.DecodeMenu(ctx, n)
			if ok && matches(menu, q.PublicID) {
				return menu, true, nil
			}
		}
		if notes.NextPageToken == "" {
			break
		}
		token = notes.NextPageToken
	}
	return core.Menu{}, false, nil
}

// LocalTier consults the client-side persisted catalog. It exists for
// menus published before the network tiers existed and must stay last.
type LocalTier struct {
	Catalogs  core.CatalogStore
	Namespace string
}

func (t *LocalTier) Name() string { return "local" }

func (t *LocalTier) Resolve(ctx context.Context, q Query) (core.Menu, bool, error) {
	c, err := t.Catalogs.Load(ctx, t.Namespace)
	if err != nil {
		return core.Menu{}, false, err
	}
	menu, ok := c.FindMenuByPublicID(q.PublicID)
	if !ok || !matches(menu, q.PublicID) {
		return core.Menu{}, false, nil
	}
	return menu, true, nil
}
