package core

import (
	"context"
	"time"
)

// Visibility mirrors the note service's access levels.
type Visibility string

const (
	VisibilityPrivate   Visibility = "PRIVATE"
	VisibilityProtected Visibility = "PROTECTED"
	VisibilityPublic    Visibility = "PUBLIC"
)

// Note is a record owned by the external note-storage service.
// This core only reads notes and requests their removal; it never
// mutates one in place.
type Note struct {
	Name        string          `json:"name"`
	Content     string          `json:"content"`
	Tags        []string        `json:"tags,omitempty"`
	Visibility  Visibility      `json:"visibility"`
	CreateTime  time.Time       `json:"createTime"`
	Attachments []AttachmentRef `json:"attachments,omitempty"`
}

// HasTag reports whether the note carries the given tag.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AttachmentRef points at a binary blob linked to a note.
// Immutable once created.
type AttachmentRef struct {
	Name     string `json:"name"`
	Filename string `json:"filename"`
	MimeType string `json:"type"`
	URL      string `json:"externalLink,omitempty"`
}

// NotePage is one page of a note listing.
type NotePage struct {
	Notes         []Note
	NextPageToken string
}

// NoteStore defines the contract with the note-storage service.
// Adhering to this interface keeps the core independent of the concrete
// backend (memos-style REST, in-memory fixtures, etc).
type NoteStore interface {
	// CreateNote appends a new note with the given content and visibility.
	CreateNote(ctx context.Context, content string, visibility Visibility) (Note, error)

	// ListNotes returns one page of notes, newest first. An empty pageToken
	// requests the first page; an empty NextPageToken means exhaustion.
	ListNotes(ctx context.Context, pageToken string) (NotePage, error)

	// GetNote fetches a single note by its resource name.
	GetNote(ctx context.Context, name string) (Note, error)

	// DeleteNote requests removal of a note.
	DeleteNote(ctx context.Context, name string) error

	// CreateAttachment links a binary payload to an existing note.
	CreateAttachment(ctx context.Context, noteName, filename, mimeType string, data []byte) (AttachmentRef, error)

	// FetchAttachment downloads the bytes behind an attachment reference.
	FetchAttachment(ctx context.Context, ref AttachmentRef) ([]byte, error)
}

// PublicLookup is the optional direct public-menu endpoint of the note
// service. Stores that don't provide it simply don't implement this.
type PublicLookup interface {
	// LookupPublicMenu resolves a publicId (and optional note name hint)
	// to the published note carrying the menu.
	LookupPublicMenu(ctx context.Context, publicID, noteHint string) (Note, error)
}
