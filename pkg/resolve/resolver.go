// Package resolve locates a publicly shared menu by its opaque publicId.
//
// Resolution is an ordered list of strategies. Each tier is attempted
// only when every earlier one yielded nothing or failed; failures are
// never fatal, they just advance the chain. Only exhausting every tier
// surfaces as not-found. Tiers run strictly in sequence: an earlier
// success must short-circuit the rest.
package resolve

import (
	"context"
	"log/slog"

	"github.com/carteland/carte/pkg/codec"
	"github.com/carteland/carte/pkg/core"
)

// Query carries the resolution coordinates from a shared link.
type Query struct {
	PublicID string
	// NoteHint is the resource name of the published note, when the
	// link carried one.
	NoteHint string
}

// Tier is one resolution strategy.
type Tier interface {
	Name() string
	// Resolve returns (menu, true, nil) on a verified match. A false ok
	// or an error both mean "try the next tier".
	Resolve(ctx context.Context, q Query) (core.Menu, bool, error)
}

// Resolver evaluates tiers in order.
type Resolver struct {
	tiers  []Tier
	logger *slog.Logger
}

// New builds a resolver over the given tiers, evaluated in argument order.
func New(logger *slog.Logger, tiers ...Tier) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{tiers: tiers, logger: logger}
}

// Chain assembles the standard four-tier fallback: direct endpoint (when
// the store offers one), hinted note fetch, bounded public scan, local
// catalog last.
func Chain(store core.NoteStore, catalogs core.CatalogStore, namespace string, cdc *codec.Codec, maxScanPages int, logger *slog.Logger) *Resolver {
	var tiers []Tier
	if lookup, ok := store.(core.PublicLookup); ok {
		tiers = append(tiers, &EndpointTier{Lookup: lookup, Codec: cdc})
	}
	tiers = append(tiers,
		&NoteTier{Store: store, Codec: cdc},
		&ScanTier{Store: store, Codec: cdc, MaxPages: maxScanPages},
	)
	if catalogs != nil {
		tiers = append(tiers, &LocalTier{Catalogs: catalogs, Namespace: namespace})
	}
	return New(logger, tiers...)
}

// Resolve walks the chain and returns the first tier's verified menu, or
// core.ErrMenuNotFound after exhaustion.
func (r *Resolver) Resolve(ctx context.Context, q Query) (core.Menu, error) {
	if q.PublicID == "" {
		return core.Menu{}, core.ErrMenuNotFound
	}
	for _, tier := range r.tiers {
		menu, ok, err := tier.Resolve(ctx, q)
		if err != nil {
			r.logger.Debug("resolution tier failed", "tier", tier.Name(), "err", err)
			continue
		}
		if !ok {
			continue
		}
		r.logger.Debug("menu resolved", "tier", tier.Name(), "menu", menu.ID)
		return menu, nil
	}
	return core.Menu{}, core.ErrMenuNotFound
}

// matches is the acceptance check every tier applies: publicId equality
// and public ordering enabled.
func matches(m core.Menu, publicID string) bool {
	return m.AllowPublicOrder && m.PublicID == publicID
}
