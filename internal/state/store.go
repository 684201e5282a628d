// Package state implements address book persistence to the filesystem.
package state

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/smileynet/addressbook/internal/book"
	"github.com/smileynet/addressbook/internal/document"
)

// ErrInvalidName indicates a book name is empty or contains path traversal components.
var ErrInvalidName = errors.New("state: invalid book name")

// FileStore persists each book as one JSON document under a base directory.
// Every call opens, fully reads or writes, and closes its file. There is no
// locking; one process per file is assumed.
type FileStore struct {
	baseDir string
	logger  *slog.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger for save and load events.
func WithLogger(l *slog.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileStore creates a FileStore that saves books under baseDir.
func NewFileStore(baseDir string, opts ...Option) *FileStore {
	s := &FileStore{
		baseDir: baseDir,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file a book name is stored in.
func (s *FileStore) Path(name string) (string, error) {
	return s.path(name)
}

// Save writes doc for the named book. The document is written to a temporary
// file in the same directory and renamed over the target, so a failed write
// leaves the previous file intact.
func (s *FileStore) Save(name string, doc document.Document) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("state: creating directory: %w", err)
	}

	tmp := filepath.Join(s.baseDir, "."+name+"."+uuid.NewString()+".tmp")
	if err := writeFile(tmp, doc); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("state: writing %s: %w", p, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("state: replacing %s: %w", p, err)
	}

	s.logger.Debug("book saved", "book", name, "path", p, "entries", doc.Len())
	return nil
}

func writeFile(path string, doc document.Document) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := document.Encode(f, doc); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load reads the document for the named book.
// Returns (doc, true, nil) if found, (zero, false, nil) if not found.
func (s *FileStore) Load(name string) (document.Document, bool, error) {
	p, err := s.path(name)
	if err != nil {
		return document.Document{}, false, err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("book not found", "book", name, "path", p)
			return document.Document{}, false, nil
		}
		return document.Document{}, false, fmt.Errorf("state: reading %s: %w", p, err)
	}
	defer f.Close()

	doc, err := document.Decode(f)
	if err != nil {
		return document.Document{}, false, fmt.Errorf("state: parsing %s: %w", p, err)
	}

	s.logger.Debug("book loaded", "book", name, "path", p, "entries", doc.Len())
	return doc, true, nil
}

// Remove deletes the file for the named book.
func (s *FileStore) Remove(name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("state: removing %s: %w", p, err)
	}
	return nil
}

// SaveBook serializes b and saves it under name.
func (s *FileStore) SaveBook(name string, b *book.Book) error {
	return s.Save(name, b.Serialize())
}

// LoadBook loads the named book, returning an empty book if none is stored.
func (s *FileStore) LoadBook(name string) (*book.Book, error) {
	doc, found, err := s.Load(name)
	if err != nil {
		return nil, err
	}
	if !found {
		return book.New(), nil
	}
	b, err := book.Deserialize(doc)
	if err != nil {
		p, _ := s.path(name)
		return nil, fmt.Errorf("state: parsing %s: %w", p, err)
	}
	return b, nil
}

// path returns the filesystem path for a book file.
// It rejects names that are empty, dot-segments, or contain path separators.
func (s *FileStore) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.baseDir, name+".json"), nil
}
