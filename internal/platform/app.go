package platform

import (
	"fmt"
	"log/slog"

	"github.com/carteland/carte/pkg/adapters/fs"
	"github.com/carteland/carte/pkg/adapters/memos"
	"github.com/carteland/carte/pkg/catalog"
	"github.com/carteland/carte/pkg/codec"
	"github.com/carteland/carte/pkg/core"
	"github.com/carteland/carte/pkg/ledger"
	"github.com/carteland/carte/pkg/resolve"
)

// App is the assembled client: every component wired over one note store
// and one configuration.
type App struct {
	Config   Config
	Logger   *slog.Logger
	Store    core.NoteStore
	Catalogs core.CatalogStore
	Codec    *codec.Codec
	Ledger   *ledger.Ledger
	Resolver *resolve.Resolver
}

// New assembles an App from configuration and options. Options that
// inject components (store, catalogs) skip the corresponding default
// construction, which is how tests run against fakes.
func New(opts ...Option) (*App, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var cfg Config
	if o.config != nil {
		cfg = *o.config
	} else {
		loaded, err := LoadConfig("")
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	store := o.store
	if store == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if cfg.NotesDir != "" {
			local, err := fs.NewStore(cfg.NotesDir, cfg.PageSize, logger)
			if err != nil {
				return nil, fmt.Errorf("open note dir: %w", err)
			}
			store = local
		} else {
			store = memos.NewClient(cfg.BaseURL, cfg.Token,
				memos.WithPageSize(cfg.PageSize),
				memos.WithLogger(logger),
			)
		}
	}

	catalogs := o.catalogs
	if catalogs == nil {
		cs, err := catalog.NewStore(cfg.CatalogDir, cfg.ReadOnly, logger)
		if err != nil {
			return nil, fmt.Errorf("open catalog store: %w", err)
		}
		catalogs = cs
	}

	cdc := codec.New(store, cfg.InlineLimit, logger)
	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Catalogs: catalogs,
		Codec:    cdc,
		Ledger:   ledger.New(store, logger),
		Resolver: resolve.Chain(store, catalogs, cfg.CatalogNamespace, cdc, cfg.ScanPages, logger),
	}, nil
}
