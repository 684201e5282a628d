package document

import (
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// api writes two-space indented output without HTML escaping, so names
// round-trip byte for byte.
var api = jsoniter.Config{IndentionStep: 2}.Froze()

// Encode writes doc to w in entry order.
func Encode(w io.Writer, doc Document) error {
	stream := jsoniter.NewStream(api, w, 4096)

	stream.WriteObjectStart()
	stream.WriteObjectField(RootKey)
	if len(doc.Entries) == 0 {
		stream.WriteEmptyObject()
	} else {
		stream.WriteObjectStart()
		for i, e := range doc.Entries {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(e.Key)
			writeRecord(stream, e.Record)
		}
		stream.WriteObjectEnd()
	}
	stream.WriteObjectEnd()
	stream.WriteRaw("\n")

	if stream.Error != nil {
		return fmt.Errorf("document: encoding: %w", stream.Error)
	}
	if err := stream.Flush(); err != nil {
		return fmt.Errorf("document: writing: %w", err)
	}
	return nil
}

func writeRecord(stream *jsoniter.Stream, r Record) {
	stream.WriteObjectStart()
	stream.WriteObjectField("name")
	stream.WriteString(r.Name)
	stream.WriteMore()
	stream.WriteObjectField("phones")
	if len(r.Phones) == 0 {
		stream.WriteEmptyArray()
	} else {
		stream.WriteArrayStart()
		for i, p := range r.Phones {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteString(p)
		}
		stream.WriteArrayEnd()
	}
	stream.WriteMore()
	stream.WriteObjectField("birthday")
	stream.WriteString(r.Birthday)
	stream.WriteObjectEnd()
}

// Decode reads a whole document from r. It returns a *ParseError for
// malformed JSON, missing or unknown keys, wrong value types, and trailing
// content.
func Decode(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("document: reading: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte) (Document, error) {
	d := &decoder{iter: jsoniter.ParseBytes(api, data)}
	doc, err := d.document()
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

type decoder struct {
	iter *jsoniter.Iterator
	err  error
}

// fail records the first structural error and stops iteration.
func (d *decoder) fail(path, format string, args ...any) bool {
	if d.err == nil {
		d.err = &ParseError{Path: path, Message: fmt.Sprintf(format, args...)}
	}
	return false
}

// syntax converts an iterator error into a ParseError.
func (d *decoder) syntax(path string) error {
	if d.err != nil {
		return d.err
	}
	switch {
	case d.iter.Error == nil:
		return nil
	case errors.Is(d.iter.Error, io.EOF):
		// The iterator reports running out of input mid-value as io.EOF.
		return &ParseError{Path: path, Message: "unexpected end of input"}
	default:
		return &ParseError{Path: path, Message: "invalid JSON", Err: d.iter.Error}
	}
}

func (d *decoder) expect(path string, want jsoniter.ValueType, name string) bool {
	got := d.iter.WhatIsNext()
	if d.iter.Error != nil {
		return false
	}
	if got != want {
		return d.fail(path, "expected %s, found %s", name, valueTypeName(got))
	}
	return true
}

func (d *decoder) document() (Document, error) {
	var doc Document
	seenRoot := false

	if !d.expect("", jsoniter.ObjectValue, "object") {
		return Document{}, d.syntaxOrEmpty("")
	}
	d.iter.ReadObjectCB(func(_ *jsoniter.Iterator, key string) bool {
		if key != RootKey {
			return d.fail("", "unknown key %q", key)
		}
		seenRoot = true
		doc.Entries = doc.Entries[:0]
		return d.entries(&doc)
	})
	if err := d.syntax(""); err != nil {
		return Document{}, err
	}
	if !seenRoot {
		return Document{}, &ParseError{Message: fmt.Sprintf("missing key %q", RootKey)}
	}

	// Anything after the top-level object is an error; a clean end of input
	// surfaces as io.EOF.
	if next := d.iter.WhatIsNext(); d.iter.Error == nil {
		return Document{}, &ParseError{Message: fmt.Sprintf("unexpected %s after document", valueTypeName(next))}
	} else if !errors.Is(d.iter.Error, io.EOF) {
		return Document{}, &ParseError{Message: "invalid JSON", Err: d.iter.Error}
	}
	return doc, nil
}

func (d *decoder) syntaxOrEmpty(path string) error {
	if err := d.syntax(path); err != nil {
		return err
	}
	return &ParseError{Path: path, Message: "empty document"}
}

func (d *decoder) entries(doc *Document) bool {
	if !d.expect(RootKey, jsoniter.ObjectValue, "object") {
		return false
	}
	return d.iter.ReadObjectCB(func(_ *jsoniter.Iterator, key string) bool {
		rec, ok := d.record(EntryPath(key))
		if !ok {
			return false
		}
		doc.Entries = append(doc.Entries, Entry{Key: key, Record: rec})
		return true
	})
}

func (d *decoder) record(path string) (Record, bool) {
	var rec Record
	var hasName, hasPhones, hasBirthday bool

	if !d.expect(path, jsoniter.ObjectValue, "object") {
		return Record{}, false
	}
	ok := d.iter.ReadObjectCB(func(_ *jsoniter.Iterator, key string) bool {
		fieldPath := path + "." + key
		switch key {
		case "name":
			hasName = true
			return d.str(fieldPath, &rec.Name)
		case "birthday":
			hasBirthday = true
			return d.str(fieldPath, &rec.Birthday)
		case "phones":
			hasPhones = true
			return d.phones(fieldPath, &rec.Phones)
		default:
			return d.fail(path, "unknown key %q", key)
		}
	})
	if !ok || d.err != nil {
		return Record{}, false
	}

	switch {
	case !hasName:
		return Record{}, d.fail(path, "missing key %q", "name")
	case !hasPhones:
		return Record{}, d.fail(path, "missing key %q", "phones")
	case !hasBirthday:
		return Record{}, d.fail(path, "missing key %q", "birthday")
	}
	return rec, true
}

func (d *decoder) str(path string, dst *string) bool {
	if !d.expect(path, jsoniter.StringValue, "string") {
		return false
	}
	*dst = d.iter.ReadString()
	return d.iter.Error == nil
}

func (d *decoder) phones(path string, dst *[]string) bool {
	if !d.expect(path, jsoniter.ArrayValue, "array") {
		return false
	}
	phones := []string{}
	ok := d.iter.ReadArrayCB(func(_ *jsoniter.Iterator) bool {
		var p string
		if !d.str(fmt.Sprintf("%s[%d]", path, len(phones)), &p) {
			return false
		}
		phones = append(phones, p)
		return true
	})
	*dst = phones
	return ok && d.err == nil
}

func valueTypeName(t jsoniter.ValueType) string {
	switch t {
	case jsoniter.StringValue:
		return "string"
	case jsoniter.NumberValue:
		return "number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "boolean"
	case jsoniter.ArrayValue:
		return "array"
	case jsoniter.ObjectValue:
		return "object"
	default:
		return "invalid value"
	}
}
