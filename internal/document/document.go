// Package document defines the persisted address book format and its JSON
// codec. Entry order is kept exactly as written, including duplicate keys, so
// a load followed by a save does not reorder a book.
//
// The format is:
//
//	{
//	  "data": {
//	    "<name>": {"name": "<name>", "phones": ["<digits>", ...], "birthday": "<d.m.yyyy>" | "None"}
//	  }
//	}
package document

import (
	"errors"
	"fmt"
)

// RootKey is the single top-level key of a document.
const RootKey = "data"

// ErrParse matches every *ParseError via errors.Is.
var ErrParse = errors.New("document: malformed")

// Document is an ordered list of serialized contacts.
type Document struct {
	Entries []Entry
}

// Entry is one key of the data mapping.
type Entry struct {
	Key    string
	Record Record
}

// Record is the serialized form of a contact. Birthday holds "None" when
// the contact has none.
type Record struct {
	Name     string
	Phones   []string
	Birthday string
}

// Len returns the number of entries.
func (d Document) Len() int { return len(d.Entries) }

// Add appends an entry keyed by the record's name.
func (d *Document) Add(r Record) {
	d.Entries = append(d.Entries, Entry{Key: r.Name, Record: r})
}

// ParseError reports a document that lacks the required structure or holds a
// value that cannot become a field. Path locates the offending value, for
// example `data["Bill"].phones[1]`.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

// Error describes the failure and its location.
func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path == "" {
		return fmt.Sprintf("document: %s", msg)
	}
	return fmt.Sprintf("document: %s: %s", e.Path, msg)
}

// Unwrap returns the underlying cause, if any.
func (e *ParseError) Unwrap() error { return e.Err }

// Is reports target == ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// EntryPath returns the path of a key inside the data mapping.
func EntryPath(key string) string {
	return fmt.Sprintf("%s[%q]", RootKey, key)
}
