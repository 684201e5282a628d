package state

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/smileynet/addressbook/internal/book"
	"github.com/smileynet/addressbook/internal/contact"
	"github.com/smileynet/addressbook/internal/document"
	"github.com/smileynet/addressbook/internal/field"
)

func sampleBook() *book.Book {
	b := book.New()
	p := field.MustPhone("0123456789")
	bill := contact.New(field.NewName("Bill"), &p, field.MustBirthday("1.2.1990"))
	bill.AddPhone(field.MustPhone("0987654321"))
	b.AddRecord(bill)
	b.AddRecord(contact.New(field.NewName("Ann"), nil, field.Birthday{}))
	return b
}

func TestFileStore_SaveAndLoadBook(t *testing.T) {
	// Given a book to persist
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "books"))
	b := sampleBook()

	// When SaveBook is called
	if err := store.SaveBook("contacts", b); err != nil {
		t.Fatalf("SaveBook() error = %v", err)
	}

	// Then LoadBook returns the same contacts in order
	loaded, err := store.LoadBook("contacts")
	if err != nil {
		t.Fatalf("LoadBook() error = %v", err)
	}
	if !slices.Equal(loaded.Names(), []string{"Bill", "Ann"}) {
		t.Errorf("Names() = %v, want [Bill Ann]", loaded.Names())
	}
	if loaded.String() != b.String() {
		t.Errorf("String() = %q, want %q", loaded.String(), b.String())
	}
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	// Given a store
	dir := t.TempDir()
	store := NewFileStore(dir)

	// When a book is saved twice
	for i := 0; i < 2; i++ {
		if err := store.SaveBook("contacts", sampleBook()); err != nil {
			t.Fatalf("SaveBook() error = %v", err)
		}
	}

	// Then only the book file exists
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "contacts.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir entries = %v, want [contacts.json]", names)
	}
}

func TestFileStore_LoadNotFound(t *testing.T) {
	// Given an empty store
	store := NewFileStore(t.TempDir())

	// When Load is called for a nonexistent book
	_, found, err := store.Load("nonexistent")

	// Then it returns not found
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if found {
		t.Error("Load() found = true, want false")
	}

	// And LoadBook returns an empty book
	b, err := store.LoadBook("nonexistent")
	if err != nil {
		t.Fatalf("LoadBook() error = %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}

func TestFileStore_LoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "missing phones", content: `{"data": {"Bill": {"name": "Bill", "birthday": "None"}}}`, wantErr: document.ErrParse},
		{name: "not json", content: `not json`, wantErr: document.ErrParse},
		{name: "invalid phone", content: `{"data": {"Bill": {"name": "Bill", "phones": ["12"], "birthday": "None"}}}`, wantErr: field.ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given a hand-written book file
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "contacts.json"), []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			store := NewFileStore(dir)

			// When LoadBook is called
			b, err := store.LoadBook("contacts")

			// Then the parse error propagates and no book is returned
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("LoadBook() error = %v, want %v", err, tt.wantErr)
			}
			if b != nil {
				t.Error("LoadBook() returned a book on error")
			}
		})
	}
}

func TestFileStore_Remove(t *testing.T) {
	// Given a saved book
	store := NewFileStore(t.TempDir())
	if err := store.SaveBook("contacts", sampleBook()); err != nil {
		t.Fatalf("SaveBook() error = %v", err)
	}

	// When Remove is called twice
	if err := store.Remove("contacts"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := store.Remove("contacts"); err != nil {
		t.Errorf("second Remove() error = %v, want nil", err)
	}

	// Then Load returns not found
	_, found, _ := store.Load("contacts")
	if found {
		t.Error("Load() found = true after Remove, want false")
	}
}

func TestFileStore_PathTraversal(t *testing.T) {
	store := NewFileStore(t.TempDir())

	tests := []struct {
		name string
		id   string
	}{
		{name: "parent traversal", id: "../../etc/passwd"},
		{name: "slash in name", id: "foo/bar"},
		{name: "empty name", id: ""},
		{name: "dot dot", id: ".."},
		{name: "current dir", id: "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.Save(tt.id, document.Document{}); !errors.Is(err, ErrInvalidName) {
				t.Errorf("Save(%q) error = %v, want ErrInvalidName", tt.id, err)
			}
			if _, _, err := store.Load(tt.id); !errors.Is(err, ErrInvalidName) {
				t.Errorf("Load(%q) error = %v, want ErrInvalidName", tt.id, err)
			}
			if err := store.Remove(tt.id); !errors.Is(err, ErrInvalidName) {
				t.Errorf("Remove(%q) error = %v, want ErrInvalidName", tt.id, err)
			}
		})
	}
}

// recordingHandler captures log records for assertions.
type recordingHandler struct {
	mu       sync.Mutex
	messages []string
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, r.Message)
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestFileStore_LogsSaveAndLoad(t *testing.T) {
	// Given a store with a recording logger
	h := &recordingHandler{}
	store := NewFileStore(t.TempDir(), WithLogger(slog.New(h)))

	// When a book is saved and loaded
	if err := store.SaveBook("contacts", sampleBook()); err != nil {
		t.Fatalf("SaveBook() error = %v", err)
	}
	if _, err := store.LoadBook("contacts"); err != nil {
		t.Fatalf("LoadBook() error = %v", err)
	}

	// Then both events are logged
	if !slices.Equal(h.messages, []string{"book saved", "book loaded"}) {
		t.Errorf("messages = %v, want [book saved book loaded]", h.messages)
	}
}
