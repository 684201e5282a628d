package book

import (
	"errors"
	"fmt"

	"github.com/smileynet/addressbook/internal/contact"
	"github.com/smileynet/addressbook/internal/document"
	"github.com/smileynet/addressbook/internal/field"
)

// Serialize converts the book to a document in iteration order.
func (b *Book) Serialize() document.Document {
	doc := document.Document{Entries: make([]document.Entry, 0, len(b.keys))}
	for key, c := range b.All() {
		phones := c.Phones()
		raw := make([]string, len(phones))
		for i, p := range phones {
			raw[i] = p.String()
		}
		doc.Entries = append(doc.Entries, document.Entry{
			Key: key,
			Record: document.Record{
				Name:     c.Name().String(),
				Phones:   raw,
				Birthday: c.Birthday().String(),
			},
		})
	}
	return doc
}

// Deserialize builds a book from doc in entry order. Phones are appended
// without the duplicate check so numbers already stored twice survive a load.
// A name seen again accumulates the later block's phones and takes its
// birthday. A phone or birthday that fails validation returns a
// *document.ParseError wrapping the *field.ValidationError; no partial book is
// returned.
func Deserialize(doc document.Document) (*Book, error) {
	b := New()
	for _, e := range doc.Entries {
		path := document.EntryPath(e.Key)

		name := field.NewName(e.Record.Name)
		birthday, err := field.NewBirthday(e.Record.Birthday)
		if err != nil {
			return nil, fieldError(path+".birthday", err)
		}
		phones := make([]field.Phone, len(e.Record.Phones))
		for i, raw := range e.Record.Phones {
			p, err := field.NewPhone(raw)
			if err != nil {
				return nil, fieldError(fmt.Sprintf("%s.phones[%d]", path, i), err)
			}
			phones[i] = p
		}

		c, ok := b.Get(name.String())
		if !ok {
			var first *field.Phone
			if len(phones) > 0 {
				first = &phones[0]
				phones = phones[1:]
			}
			c = contact.New(name, first, birthday)
			b.put(c)
		} else {
			c.SetBirthday(birthday)
		}
		for _, p := range phones {
			c.AddPhoneFromLoad(p)
		}
	}
	return b, nil
}

func fieldError(path string, err error) error {
	var ve *field.ValidationError
	if errors.As(err, &ve) {
		return &document.ParseError{Path: path, Message: ve.Detail(), Err: ve}
	}
	return &document.ParseError{Path: path, Err: err}
}
