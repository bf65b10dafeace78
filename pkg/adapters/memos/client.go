// Package memos talks to a memos-style note service over its REST API.
// It is the production implementation of core.NoteStore and of the
// optional public-menu lookup endpoint.
package memos

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/carteland/carte/pkg/core"
)

const defaultPageSize = 50

// Client implements core.NoteStore against a remote note service.
type Client struct {
	baseURL  string
	token    string
	pageSize int
	http     *http.Client
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithPageSize sets the page size requested on listings.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the service at baseURL. An empty token
// makes an anonymous client; the service limits those to public notes.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		pageSize: defaultPageSize,
		http:     &http.Client{Timeout: 30 * time.Second},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ core.NoteStore    = (*Client)(nil)
	_ core.PublicLookup = (*Client)(nil)
)

type notePayload struct {
	Content    string          `json:"content"`
	Visibility core.Visibility `json:"visibility"`
}

// CreateNote appends a note.
func (c *Client) CreateNote(ctx context.Context, content string, visibility core.Visibility) (core.Note, error) {
	var note core.Note
	err := c.do(ctx, http.MethodPost, "/api/v1/notes", nil, notePayload{Content: content, Visibility: visibility}, &note)
	if err != nil {
		return core.Note{}, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

type listResponse struct {
	Notes         []core.Note `json:"notes"`
	NextPageToken string      `json:"nextPageToken"`
}

// ListNotes fetches one page of notes, newest first.
func (c *Client) ListNotes(ctx context.Context, pageToken string) (core.NotePage, error) {
	q := url.Values{"pageSize": {strconv.Itoa(c.pageSize)}}
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/notes", q, nil, &resp); err != nil {
		return core.NotePage{}, fmt.Errorf("list notes: %w", err)
	}
	return core.NotePage{Notes: resp.Notes, NextPageToken: resp.NextPageToken}, nil
}

// GetNote fetches one note by resource name (e.g. "notes/42").
func (c *Client) GetNote(ctx context.Context, name string) (core.Note, error) {
	var note core.Note
	if err := c.do(ctx, http.MethodGet, "/api/v1/"+name, nil, nil, &note); err != nil {
		return core.Note{}, fmt.Errorf("get note %q: %w", name, err)
	}
	return note, nil
}

// DeleteNote requests removal of a note.
func (c *Client) DeleteNote(ctx context.Context, name string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/v1/"+name, nil, nil, nil); err != nil {
		return fmt.Errorf("delete note %q: %w", name, err)
	}
	return nil
}

type attachmentPayload struct {
	Note     string `json:"note"`
	Filename string `json:"filename"`
	MimeType string `json:"type"`
	Content  string `json:"content"` // base64
}

// CreateAttachment uploads a binary payload linked to an existing note.
func (c *Client) CreateAttachment(ctx context.Context, noteName, filename, mimeType string, data []byte) (core.AttachmentRef, error) {
	payload := attachmentPayload{
		Note:     noteName,
		Filename: filename,
		MimeType: mimeType,
		Content:  base64.StdEncoding.EncodeToString(data),
	}
	var ref core.AttachmentRef
	if err := c.do(ctx, http.MethodPost, "/api/v1/attachments", nil, payload, &ref); err != nil {
		return core.AttachmentRef{}, fmt.Errorf("create attachment: %w", err)
	}
	return ref, nil
}

// FetchAttachment downloads the bytes behind a reference. External links
// are fetched as-is; service-hosted blobs resolve under /file/.
func (c *Client) FetchAttachment(ctx context.Context, ref core.AttachmentRef) ([]byte, error) {
	target := ref.URL
	if target == "" {
		target = fmt.Sprintf("%s/file/%s/%s", c.baseURL, ref.Name, url.PathEscape(ref.Filename))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch attachment %q: %w", ref.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch attachment %q: status %d", ref.Name, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// LookupPublicMenu queries the service's anonymous menu endpoint.
func (c *Client) LookupPublicMenu(ctx context.Context, publicID, noteHint string) (core.Note, error) {
	q := url.Values{"publicId": {publicID}}
	if noteHint != "" {
		q.Set("note", noteHint)
	}
	var note core.Note
	if err := c.do(ctx, http.MethodGet, "/public/menu", q, nil, &note); err != nil {
		return core.Note{}, fmt.Errorf("lookup public menu: %w", err)
	}
	return note, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return core.ErrNoteNotFound
	}
	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debug("request rejected", "method", method, "path", path, "status", resp.StatusCode)
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
