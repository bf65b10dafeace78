// Package fs stores notes as markdown files with YAML frontmatter in a
// local directory. It serves offline use and development; production
// deployments talk to the note service over HTTP instead.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/carteland/carte/pkg/core"
)

const (
	tempFilePrefix  = "carte-tmp-"
	defaultPageSize = 50

	notesDir       = "notes"
	attachmentsDir = "attachments"
)

var hashtag = regexp.MustCompile(`#([A-Za-z][\w-]*)`)

// Store is a file-backed core.NoteStore. One directory holds numbered
// note files plus their attachments; note numbering doubles as creation
// order.
type Store struct {
	dir      string
	pageSize int
	logger   *slog.Logger

	mu     sync.Mutex
	nextID int
}

// NewStore opens (or creates) a note directory.
func NewStore(dir string, pageSize int, logger *slog.Logger) (*Store, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	for _, sub := range []string{notesDir, attachmentsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create note dir: %w", err)
		}
	}
	s := &Store{dir: dir, pageSize: pageSize, logger: logger}
	if err := s.scanNextID(); err != nil {
		return nil, err
	}
	return s, nil
}

var _ core.NoteStore = (*Store)(nil)

func (s *Store) scanNextID() error {
	max := 0
	for _, sub := range []string{notesDir, attachmentsDir} {
		entries, err := os.ReadDir(filepath.Join(s.dir, sub))
		if err != nil {
			return err
		}
		for _, e := range entries {
			base := strings.SplitN(e.Name(), "-", 2)[0]
			base = strings.TrimSuffix(base, ".md")
			if n, err := strconv.Atoi(base); err == nil && n > max {
				max = n
			}
		}
	}
	s.nextID = max + 1
	return nil
}

func (s *Store) allocID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	return id
}

// frontmatter is the persisted metadata of one note file.
type frontmatter struct {
	Visibility  string           `yaml:"visibility"`
	CreateTime  time.Time        `yaml:"createTime"`
	Tags        []string         `yaml:"tags,omitempty"`
	Attachments []attachmentMeta `yaml:"attachments,omitempty"`
}

type attachmentMeta struct {
	Name     string `yaml:"name"`
	Filename string `yaml:"filename"`
	MimeType string `yaml:"type"`
}

// CreateNote appends a note file.
func (s *Store) CreateNote(ctx context.Context, content string, visibility core.Visibility) (core.Note, error) {
	id := s.allocID()
	note := core.Note{
		Name:       fmt.Sprintf("notes/%d", id),
		Content:    content,
		Tags:       extractTags(content),
		Visibility: visibility,
		CreateTime: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.writeNote(note); err != nil {
		return core.Note{}, err
	}
	return note, nil
}

// ListNotes pages through all notes, newest first. The page token is a
// plain offset into the sorted listing.
func (s *Store) ListNotes(ctx context.Context, pageToken string) (core.NotePage, error) {
	notes, err := s.readAll()
	if err != nil {
		return core.NotePage{}, err
	}

	offset := 0
	if pageToken != "" {
		offset, err = strconv.Atoi(pageToken)
		if err != nil || offset < 0 {
			return core.NotePage{}, fmt.Errorf("bad page token %q", pageToken)
		}
	}
	if offset >= len(notes) {
		return core.NotePage{}, nil
	}

	end := offset + s.pageSize
	next := ""
	if end < len(notes) {
		next = strconv.Itoa(end)
	} else {
		end = len(notes)
	}
	return core.NotePage{Notes: notes[offset:end], NextPageToken: next}, nil
}

// GetNote fetches a note by resource name.
func (s *Store) GetNote(ctx context.Context, name string) (core.Note, error) {
	id, err := noteID(name)
	if err != nil {
		return core.Note{}, err
	}
	note, err := s.readNote(id)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Note{}, core.ErrNoteNotFound
		}
		return core.Note{}, err
	}
	return note, nil
}

// DeleteNote removes the note file. Attachments stay on disk; the refs
// die with the note.
func (s *Store) DeleteNote(ctx context.Context, name string) error {
	id, err := noteID(name)
	if err != nil {
		return err
	}
	if err := os.Remove(s.notePath(id)); err != nil {
		if os.IsNotExist(err) {
			return core.ErrNoteNotFound
		}
		return err
	}
	return nil
}

// CreateAttachment writes the payload next to the notes and records the
// reference in the owning note's frontmatter.
func (s *Store) CreateAttachment(ctx context.Context, noteName, filename, mimeType string, data []byte) (core.AttachmentRef, error) {
	note, err := s.GetNote(ctx, noteName)
	if err != nil {
		return core.AttachmentRef{}, err
	}

	id := s.allocID()
	path := filepath.Join(s.dir, attachmentsDir, fmt.Sprintf("%d-%s", id, filepath.Base(filename)))
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return core.AttachmentRef{}, fmt.Errorf("write attachment: %w", err)
	}

	ref := core.AttachmentRef{
		Name:     fmt.Sprintf("attachments/%d", id),
		Filename: filepath.Base(filename),
		MimeType: mimeType,
	}
	note.Attachments = append(note.Attachments, ref)
	if err := s.writeNote(note); err != nil {
		return core.AttachmentRef{}, err
	}
	return ref, nil
}

// FetchAttachment reads the payload back.
func (s *Store) FetchAttachment(ctx context.Context, ref core.AttachmentRef) ([]byte, error) {
	id := strings.TrimPrefix(ref.Name, "attachments/")
	path := filepath.Join(s.dir, attachmentsDir, fmt.Sprintf("%s-%s", id, ref.Filename))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fetch attachment %q: %w", ref.Name, err)
	}
	return data, nil
}

func (s *Store) notePath(id int) string {
	return filepath.Join(s.dir, notesDir, fmt.Sprintf("%d.md", id))
}

func (s *Store) writeNote(note core.Note) error {
	id, err := noteID(note.Name)
	if err != nil {
		return err
	}
	fm := frontmatter{
		Visibility: string(note.Visibility),
		CreateTime: note.CreateTime,
		Tags:       note.Tags,
	}
	for _, ref := range note.Attachments {
		fm.Attachments = append(fm.Attachments, attachmentMeta{
			Name: ref.Name, Filename: ref.Filename, MimeType: ref.MimeType,
		})
	}

	meta, err := yaml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("encode note metadata: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n")
	buf.WriteString(note.Content)

	if err := writeFileAtomic(s.notePath(id), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write note %s: %w", note.Name, err)
	}
	return nil
}

func (s *Store) readNote(id int) (core.Note, error) {
	raw, err := os.ReadFile(s.notePath(id))
	if err != nil {
		return core.Note{}, err
	}

	var fm frontmatter
	content := string(raw)
	if rest, ok := strings.CutPrefix(content, "---\n"); ok {
		if meta, body, ok := strings.Cut(rest, "\n---\n"); ok {
			if err := yaml.Unmarshal([]byte(meta+"\n"), &fm); err != nil {
				return core.Note{}, fmt.Errorf("decode note %d metadata: %w", id, err)
			}
			content = body
		}
	}

	note := core.Note{
		Name:       fmt.Sprintf("notes/%d", id),
		Content:    content,
		Tags:       fm.Tags,
		Visibility: core.Visibility(fm.Visibility),
		CreateTime: fm.CreateTime,
	}
	for _, m := range fm.Attachments {
		note.Attachments = append(note.Attachments, core.AttachmentRef{
			Name: m.Name, Filename: m.Filename, MimeType: m.MimeType,
		})
	}
	return note, nil
}

func (s *Store) readAll() ([]core.Note, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, notesDir))
	if err != nil {
		return nil, err
	}

	var notes []core.Note
	for _, e := range entries {
		id, err := strconv.Atoi(strings.TrimSuffix(e.Name(), ".md"))
		if err != nil {
			continue
		}
		note, err := s.readNote(id)
		if err != nil {
			s.logger.Warn("skipping unreadable note", "file", e.Name(), "err", err)
			continue
		}
		notes = append(notes, note)
	}

	// Newest first; the numeric suffix breaks creation-time ties.
	sort.SliceStable(notes, func(i, j int) bool {
		if !notes[i].CreateTime.Equal(notes[j].CreateTime) {
			return notes[i].CreateTime.After(notes[j].CreateTime)
		}
		return noteNum(notes[i].Name) > noteNum(notes[j].Name)
	})
	return notes, nil
}

func noteID(name string) (int, error) {
	raw, ok := strings.CutPrefix(name, "notes/")
	if !ok {
		return 0, fmt.Errorf("bad note name %q", name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("bad note name %q", name)
	}
	return id, nil
}

func noteNum(name string) int {
	n, _ := noteID(name)
	return n
}

func extractTags(content string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, m := range hashtag.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			tags = append(tags, m[1])
		}
	}
	return tags
}
