// Package book implements the address book: an insertion-ordered mapping from
// contact name to contact, with search, pagination, and conversion to and from
// the persisted document.
package book

import (
	"fmt"
	"iter"
	"strings"

	"github.com/smileynet/addressbook/internal/contact"
	"github.com/smileynet/addressbook/internal/field"
)

// NoMatches is returned by Search when nothing matches.
const NoMatches = "No matching records found."

// Book holds contacts keyed by name. Iteration follows insertion order; a key
// that is overwritten keeps its position.
type Book struct {
	keys    []string
	entries map[string]*contact.Contact
}

// New returns an empty book.
func New() *Book {
	return &Book{entries: make(map[string]*contact.Contact)}
}

// Len returns the number of contacts.
func (b *Book) Len() int { return len(b.keys) }

// Get returns the contact stored under name.
func (b *Book) Get(name string) (*contact.Contact, bool) {
	c, ok := b.entries[name]
	return c, ok
}

// Names returns the keys in iteration order.
func (b *Book) Names() []string {
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

// All yields every key and contact in iteration order.
func (b *Book) All() iter.Seq2[string, *contact.Contact] {
	return func(yield func(string, *contact.Contact) bool) {
		for _, k := range b.keys {
			if !yield(k, b.entries[k]) {
				return
			}
		}
	}
}

// AddRecord stores c under its name, replacing any contact already there.
func (b *Book) AddRecord(c *contact.Contact) contact.Outcome {
	b.put(c)
	return contact.Outcome{
		Status:  contact.StatusSaved,
		Message: fmt.Sprintf("Success!\nContact %s ", c),
	}
}

func (b *Book) put(c *contact.Contact) {
	key := c.Name().String()
	if _, ok := b.entries[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.entries[key] = c
}

// DeleteRecord removes the contact stored under name.
func (b *Book) DeleteRecord(name string) contact.Outcome {
	if _, ok := b.entries[name]; !ok {
		return contact.Outcome{
			Status:  contact.StatusNotFound,
			Message: fmt.Sprintf("No record found with name %s", name),
		}
	}
	delete(b.entries, name)
	for i, k := range b.keys {
		if k == name {
			b.keys = append(b.keys[:i], b.keys[i+1:]...)
			break
		}
	}
	return contact.Outcome{
		Status:  contact.StatusDeleted,
		Message: fmt.Sprintf("Record %s deleted", name),
	}
}

// Search scans contacts in order. A name matches contacts whose name contains
// it, ignoring case, and lists all their phones. A phone matches contacts
// holding exactly that number and lists the number. Other fields match
// nothing. Matching lines are newline-joined, or NoMatches is returned.
func (b *Book) Search(f field.Field) string {
	var results []string
	for name, c := range b.All() {
		switch q := f.(type) {
		case field.Name:
			if strings.Contains(strings.ToLower(c.Name().String()), strings.ToLower(q.String())) {
				results = append(results, fmt.Sprintf("%s : %s", name, joinPhones(c.Phones())))
			}
		case field.Phone:
			if c.HasPhone(q) {
				results = append(results, fmt.Sprintf("%s : %s", name, q))
			}
		}
	}
	if len(results) == 0 {
		return NoMatches
	}
	return strings.Join(results, "\n")
}

func joinPhones(phones []field.Phone) string {
	parts := make([]string, len(phones))
	for i, p := range phones {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

// String renders every contact on its own line.
func (b *Book) String() string {
	lines := make([]string, 0, len(b.keys))
	for _, c := range b.All() {
		lines = append(lines, c.String())
	}
	return strings.Join(lines, "\n")
}
