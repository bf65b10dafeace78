// Package ledger maintains the derived view of all order notes.
//
// The ledger accumulates a local snapshot of the remote note stream page
// by page and re-derives every aggregate from the full snapshot. Nothing
// here is authoritative state: the result of Rebuild can be discarded and
// recomputed at any time.
package ledger

import (
	"context"
	"log/slog"
	"sort"

	"github.com/carteland/carte/pkg/core"
	"github.com/carteland/carte/pkg/record"
)

// Ledger tracks a snapshot of the note stream and derives orders from it.
// It is driven by one cooperative task at a time; repeated rebuild
// triggers are safe to coalesce because Rebuild is pure.
type Ledger struct {
	store  core.NoteStore
	logger *slog.Logger

	notes     []core.Note
	pageToken string
	started   bool
	exhausted bool
}

// New creates a Ledger reading from the given note store.
func New(store core.NoteStore, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: store, logger: logger}
}

// FetchNextPage pulls one more page of notes into the local snapshot and
// returns how many notes arrived. Pagination is caller-driven ("load
// more"); the ledger never loops on its own.
func (l *Ledger) FetchNextPage(ctx context.Context) (int, error) {
	if l.started && l.exhausted {
		return 0, nil
	}
	page, err := l.store.ListNotes(ctx, l.pageToken)
	if err != nil {
		return 0, err
	}
	l.notes = append(l.notes, page.Notes...)
	l.pageToken = page.NextPageToken
	l.started = true
	l.exhausted = page.NextPageToken == ""
	l.logger.Debug("ledger page fetched", "notes", len(page.Notes), "exhausted", l.exhausted)
	return len(page.Notes), nil
}

// HasMore reports whether another page may be available.
func (l *Ledger) HasMore() bool {
	return !l.started || !l.exhausted
}

// Reset discards the snapshot and pagination cursor. Call after batch
// deletions so the next fetch starts from a fresh listing.
func (l *Ledger) Reset() {
	l.notes = nil
	l.pageToken = ""
	l.started = false
	l.exhausted = false
}

// Snapshot returns a copy of the accumulated notes.
func (l *Ledger) Snapshot() []core.Note {
	out := make([]core.Note, len(l.notes))
	copy(out, l.notes)
	return out
}

// Rebuild derives the order list from the current snapshot.
func (l *Ledger) Rebuild() []core.ParsedOrder {
	return Rebuild(l.notes)
}

// Rebuild is a pure function of a note snapshot: keep order notes, parse
// each, fold totals, newest first. Ties keep input order so repeated
// rebuilds of the same snapshot are identical.
func Rebuild(notes []core.Note) []core.ParsedOrder {
	var orders []core.ParsedOrder
	for _, n := range notes {
		if record.Classify(n) != record.SignalOrder {
			continue
		}
		menuID, items := record.ParseOrder(n.Content)
		o := core.ParsedOrder{Note: n, MenuID: menuID, Items: items}
		o.Totalize()
		orders = append(orders, o)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Note.CreateTime.After(orders[j].Note.CreateTime)
	})
	return orders
}

// DeleteOrders requests removal of the named notes one at a time. One
// failing deletion does not abort the batch; the number of successful
// deletions is returned. Rebuild from a fresh fetch afterwards instead of
// patching the snapshot in place.
func (l *Ledger) DeleteOrders(ctx context.Context, names []string) int {
	deleted := 0
	for _, name := range names {
		if err := l.store.DeleteNote(ctx, name); err != nil {
			l.logger.Warn("delete order note failed", "note", name, "err", err)
			continue
		}
		deleted++
	}
	return deleted
}
