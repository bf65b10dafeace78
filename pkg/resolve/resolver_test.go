package resolve_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carteland/carte/pkg/catalog"
	"github.com/carteland/carte/pkg/codec"
	"github.com/carteland/carte/pkg/core"
	"github.com/carteland/carte/pkg/resolve"
)

// pubNote renders a published-menu note the way the codec writes them.
func pubNote(name, menuName, publicID string) core.Note {
	content := fmt.Sprintf("#menu-pub\n\n```json\n{\"version\":1,\"kind\":\"menu-public\",\"publicId\":%q,\"id\":\"lunch\",\"name\":%q,\"items\":[],\"allowOrder\":true}\n```", publicID, menuName)
	return core.Note{Name: name, Content: content, Visibility: core.VisibilityPublic}
}

// stubStore implements core.NoteStore but NOT core.PublicLookup.
type stubStore struct {
	pages     []core.NotePage
	loop      bool // keep serving pages forever to exercise the cap
	listCalls int
	notes     map[string]core.Note
	listErr   error
}

func (s *stubStore) CreateNote(ctx context.Context, content string, v core.Visibility) (core.Note, error) {
	return core.Note{}, errors.New("not supported")
}

func (s *stubStore) ListNotes(ctx context.Context, pageToken string) (core.NotePage, error) {
	s.listCalls++
	if s.listErr != nil {
		return core.NotePage{}, s.listErr
	}
	if s.loop {
		return core.NotePage{NextPageToken: "more"}, nil
	}
	if len(s.pages) == 0 {
		return core.NotePage{}, nil
	}
	page := s.pages[0]
	s.pages = s.pages[1:]
	return page, nil
}

func (s *stubStore) GetNote(ctx context.Context, name string) (core.Note, error) {
	if n, ok := s.notes[name]; ok {
		return n, nil
	}
	return core.Note{}, core.ErrNoteNotFound
}

func (s *stubStore) DeleteNote(ctx context.Context, name string) error { return nil }

func (s *stubStore) CreateAttachment(ctx context.Context, noteName, filename, mimeType string, data []byte) (core.AttachmentRef, error) {
	return core.AttachmentRef{}, errors.New("not supported")
}

func (s *stubStore) FetchAttachment(ctx context.Context, ref core.AttachmentRef) ([]byte, error) {
	return nil, errors.New("not supported")
}

// lookupStore adds the public endpoint on top of stubStore.
type lookupStore struct {
	stubStore
	lookupNote core.Note
	lookupErr  error
}

func (s *lookupStore) LookupPublicMenu(ctx context.Context, publicID, noteHint string) (core.Note, error) {
	if s.lookupErr != nil {
		return core.Note{}, s.lookupErr
	}
	return s.lookupNote, nil
}

func TestResolver_EndpointWinsOverScan(t *testing.T) {
	store := &lookupStore{
		stubStore: stubStore{pages: []core.NotePage{
			{Notes: []core.Note{pubNote("notes/scan", "From Scan", "tok")}},
		}},
		lookupNote: pubNote("notes/endpoint", "From Endpoint", "tok"),
	}
	cdc := codec.New(store, 0, nil)
	r := resolve.Chain(store, nil, "", cdc, 5, nil)

	menu, err := r.Resolve(context.Background(), resolve.Query{PublicID: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "From Endpoint", menu.Name, "tier 1 must short-circuit tier 3")
}

func TestResolver_EndpointFailureAdvancesToHint(t *testing.T) {
	store := &lookupStore{
		stubStore: stubStore{notes: map[string]core.Note{
			"notes/hinted": pubNote("notes/hinted", "From Hint", "tok"),
		}},
		lookupErr: errors.New("tier down"),
	}
	cdc := codec.New(store, 0, nil)
	r := resolve.Chain(store, nil, "", cdc, 5, nil)

	menu, err := r.Resolve(context.Background(), resolve.Query{PublicID: "tok", NoteHint: "notes/hinted"})
	require.NoError(t, err)
	assert.Equal(t, "From Hint", menu.Name)
}

func TestResolver_HintWithWrongPublicIDFallsThrough(t *testing.T) {
	store := &stubStore{
		notes: map[string]core.Note{
			"notes/hinted": pubNote("notes/hinted", "Wrong Token", "other"),
		},
		pages: []core.NotePage{
			{Notes: []core.Note{pubNote("notes/scan", "From Scan", "tok")}},
		},
	}
	cdc := codec.New(store, 0, nil)
	r := resolve.Chain(store, nil, "", cdc, 5, nil)

	menu, err := r.Resolve(context.Background(), resolve.Query{PublicID: "tok", NoteHint: "notes/hinted"})
	require.NoError(t, err)
	assert.Equal(t, "From Scan", menu.Name)
}

func TestResolver_ScanHonorsPageCap(t *testing.T) {
	store := &stubStore{loop: true}
	cdc := codec.New(store, 0, nil)
	r := resolve.Chain(store, nil, "", cdc, 5, nil)

	_, err := r.Resolve(context.Background(), resolve.Query{PublicID: "tok"})
	require.ErrorIs(t, err, core.ErrMenuNotFound)
	assert.Equal(t, 5, store.listCalls, "scan must stop at the page cap")
}

func TestResolver_LocalCatalogIsLastResort(t *testing.T) {
	store := &stubStore{listErr: errors.New("network down")}
	cdc := codec.New(store, 0, nil)

	dir := t.TempDir()
	catalogs, err := catalog.NewStore(dir, false, nil)
	require.NoError(t, err)
	require.NoError(t, catalogs.Save(context.Background(), "default", core.Catalog{
		Menus: []core.Menu{{ID: "lunch", Name: "Local Lunch", AllowPublicOrder: true, PublicID: "tok"}},
	}))

	r := resolve.Chain(store, catalogs, "default", cdc, 5, nil)
	menu, err := r.Resolve(context.Background(), resolve.Query{PublicID: "tok"})
	require.NoError(t, err)
	assert.Equal(t, "Local Lunch", menu.Name)
}

func TestResolver_Exhaustion(t *testing.T) {
	store := &stubStore{}
	cdc := codec.New(store, 0, nil)

	catalogs, err := catalog.NewStore(t.TempDir(), false, nil)
	require.NoError(t, err)

	r := resolve.Chain(store, catalogs, "default", cdc, 5, nil)
	_, err = r.Resolve(context.Background(), resolve.Query{PublicID: "tok"})
	assert.ErrorIs(t, err, core.ErrMenuNotFound)

	_, err = r.Resolve(context.Background(), resolve.Query{})
	assert.ErrorIs(t, err, core.ErrMenuNotFound, "empty publicId never resolves")
}

func TestResolver_ClosedMenuNeverResolves(t *testing.T) {
	content := "#menu-pub\n\n```json\n{\"version\":1,\"kind\":\"menu-public\",\"publicId\":\"tok\",\"id\":\"lunch\",\"name\":\"Closed\",\"items\":[],\"allowOrder\":false}\n```"
	store := &stubStore{pages: []core.NotePage{
		{Notes: []core.Note{{Name: "notes/closed", Content: content, Visibility: core.VisibilityPublic}}},
	}}
	cdc := codec.New(store, 0, nil)
	r := resolve.Chain(store, nil, "", cdc, 5, nil)

	_, err := r.Resolve(context.Background(), resolve.Query{PublicID: "tok"})
	assert.ErrorIs(t, err, core.ErrMenuNotFound)
}
