package memos_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carteland/carte/pkg/adapters/memos"
	"github.com/carteland/carte/pkg/core"
)

func TestClient_CreateNote(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/notes" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		var payload struct {
			Content    string `json:"content"`
			Visibility string `json:"visibility"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatal(err)
		}
		gotBody = payload.Content
		json.NewEncoder(w).Encode(core.Note{
			Name:       "notes/7",
			Content:    payload.Content,
			Visibility: core.Visibility(payload.Visibility),
		})
	}))
	defer srv.Close()

	c := memos.NewClient(srv.URL, "secret")
	note, err := c.CreateNote(context.Background(), "#order #menu:lunch", core.VisibilityPrivate)
	if err != nil {
		t.Fatal(err)
	}
	if note.Name != "notes/7" {
		t.Errorf("note name = %q", note.Name)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody != "#order #menu:lunch" {
		t.Errorf("posted content = %q", gotBody)
	}
}

func TestClient_ListNotesPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageSize") != "2" {
			t.Errorf("pageSize = %q", r.URL.Query().Get("pageSize"))
		}
		switch r.URL.Query().Get("pageToken") {
		case "":
			json.NewEncoder(w).Encode(map[string]any{
				"notes":         []core.Note{{Name: "notes/2"}, {Name: "notes/1"}},
				"nextPageToken": "p2",
			})
		case "p2":
			json.NewEncoder(w).Encode(map[string]any{
				"notes": []core.Note{{Name: "notes/0"}},
			})
		default:
			t.Errorf("unexpected pageToken %q", r.URL.Query().Get("pageToken"))
		}
	}))
	defer srv.Close()

	c := memos.NewClient(srv.URL, "", memos.WithPageSize(2))
	ctx := context.Background()

	first, err := c.ListNotes(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Notes) != 2 || first.NextPageToken != "p2" {
		t.Fatalf("first page = %+v", first)
	}

	second, err := c.ListNotes(ctx, first.NextPageToken)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Notes) != 1 || second.NextPageToken != "" {
		t.Fatalf("second page = %+v", second)
	}
}

func TestClient_GetNoteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := memos.NewClient(srv.URL, "")
	_, err := c.GetNote(context.Background(), "notes/404")
	if !errors.Is(err, core.ErrNoteNotFound) {
		t.Errorf("err = %v, want ErrNoteNotFound", err)
	}
}

func TestClient_AttachmentRoundTrip(t *testing.T) {
	payload := []byte(`{"version":1,"menus":[]}`)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/attachments", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Note     string `json:"note"`
			Filename string `json:"filename"`
			MimeType string `json:"type"`
			Content  string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		decoded, err := base64.StdEncoding.DecodeString(body.Content)
		if err != nil {
			t.Fatalf("content is not base64: %v", err)
		}
		if string(decoded) != string(payload) {
			t.Errorf("decoded content = %q", decoded)
		}
		if body.Note != "notes/9" {
			t.Errorf("note = %q", body.Note)
		}
		json.NewEncoder(w).Encode(core.AttachmentRef{
			Name:     "attachments/1",
			Filename: body.Filename,
			MimeType: body.MimeType,
		})
	})
	mux.HandleFunc("GET /file/attachments/1/{file}", func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := memos.NewClient(srv.URL, "tok")
	ctx := context.Background()

	ref, err := c.CreateAttachment(ctx, "notes/9", "menu-def.json", "application/json", payload)
	if err != nil {
		t.Fatal(err)
	}
	if ref.Name != "attachments/1" {
		t.Fatalf("ref = %+v", ref)
	}

	got, err := c.FetchAttachment(ctx, ref)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Errorf("fetched = %q", got)
	}
}

func TestClient_FetchAttachmentExternalLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/external/blob.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte("external"))
	}))
	defer srv.Close()

	c := memos.NewClient("http://unused.invalid", "")
	got, err := c.FetchAttachment(context.Background(), core.AttachmentRef{
		Name: "attachments/ext",
		URL:  srv.URL + "/external/blob.json",
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "external" {
		t.Errorf("fetched = %q", got)
	}
}

func TestClient_LookupPublicMenu(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/public/menu" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("publicId") != "tok" || r.URL.Query().Get("note") != "notes/5" {
			t.Errorf("query = %v", r.URL.Query())
		}
		json.NewEncoder(w).Encode(core.Note{Name: "notes/5", Content: "#menu-pub"})
	}))
	defer srv.Close()

	c := memos.NewClient(srv.URL, "")
	note, err := c.LookupPublicMenu(context.Background(), "tok", "notes/5")
	if err != nil {
		t.Fatal(err)
	}
	if note.Name != "notes/5" {
		t.Errorf("note = %+v", note)
	}
}
