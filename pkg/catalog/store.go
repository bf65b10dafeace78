package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/carteland/carte/pkg/core"
)

const slotExt = ".json"

// Store persists catalogs as one versioned JSON blob per namespace under
// a directory. Reads never observe a partial write: saves go through a
// temp file and an atomic rename.
type Store struct {
	dir      string
	readOnly bool
	logger   *slog.Logger

	mu sync.Mutex
}

// NewStore opens (and, unless read-only, creates) the slot directory.
func NewStore(dir string, readOnly bool, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !readOnly {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog dir: %w", err)
		}
	}
	return &Store{dir: dir, readOnly: readOnly, logger: logger}, nil
}

var _ core.CatalogStore = (*Store)(nil)

// Load reads the catalog persisted under the namespace.
func (s *Store) Load(ctx context.Context, namespace string) (core.Catalog, error) {
	path, err := s.slotPath(namespace)
	if err != nil {
		return core.Catalog{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return core.Catalog{}, core.ErrCatalogNotFound
	}
	if err != nil {
		return core.Catalog{}, fmt.Errorf("read catalog %q: %w", namespace, err)
	}
	var c core.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return core.Catalog{}, fmt.Errorf("decode catalog %q: %w", namespace, err)
	}
	return c, nil
}

// Save rewrites the namespace's blob. Failures here are hard errors: a
// catalog write must never be lost silently.
func (s *Store) Save(ctx context.Context, namespace string, c core.Catalog) error {
	if s.readOnly {
		return core.ErrStoreReadOnly
	}
	path, err := s.slotPath(namespace)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog %q: %w", namespace, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write catalog %q: %w", namespace, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit catalog %q: %w", namespace, err)
	}
	s.logger.Debug("catalog saved", "namespace", namespace, "menus", len(c.Menus))
	return nil
}

// List returns the namespaces matching a doublestar pattern, sorted.
func (s *Store) List(pattern string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	var namespaces []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, slotExt) {
			continue
		}
		ns := strings.TrimSuffix(name, slotExt)
		ok, err := doublestar.Match(pattern, ns)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if ok {
			namespaces = append(namespaces, ns)
		}
	}
	sort.Strings(namespaces)
	return namespaces, nil
}

// Change signals that a namespace's blob changed on disk.
type Change struct {
	Namespace string
}

// Watch emits a Change whenever the namespace's slot file is written by
// anyone (another process, a sync tool). The channel closes when ctx is
// done. Slow consumers lose intermediate events, never the channel.
func (s *Store) Watch(ctx context.Context, namespace string) (<-chan Change, error) {
	if _, err := s.slotPath(namespace); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("start catalog watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch catalog dir: %w", err)
	}

	target := namespace + slotExt
	out := make(chan Change, 8)
	go func() {
		defer close(out)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				select {
				case out <- Change{Namespace: namespace}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("catalog watcher error", "err", err)
			}
		}
	}()
	return out, nil
}

func (s *Store) slotPath(namespace string) (string, error) {
	if namespace == "" || strings.ContainsAny(namespace, `/\`) {
		return "", fmt.Errorf("invalid catalog namespace %q", namespace)
	}
	return filepath.Join(s.dir, namespace+slotExt), nil
}
