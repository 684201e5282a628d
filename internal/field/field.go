// Package field implements the validated scalar values a contact is built from.
//
// Every value type has a single validating constructor. Types that allow
// reassignment expose a Set method that re-validates and leaves the current
// value untouched when the new one is rejected.
package field

import (
	"errors"
	"fmt"
	"regexp"
)

// Kind identifies which field a value is, for callers that dispatch on it.
type Kind string

const (
	KindName     Kind = "name"
	KindPhone    Kind = "phone"
	KindBirthday Kind = "birthday"
)

// Field is implemented by every validated value.
type Field interface {
	Kind() Kind
	String() string
}

// Verify at compile time that value types implement Field.
var (
	_ Field = Name{}
	_ Field = Phone{}
	_ Field = Birthday{}
)

// AbsentBirthday is the literal stored and rendered for a missing birthday.
const AbsentBirthday = "None"

var (
	// ErrInvalidPhone indicates a phone number is not 10-12 ASCII digits.
	ErrInvalidPhone = errors.New("Phone number must have a proper length and consist only of digits")

	// ErrInvalidBirthday indicates a birthday does not match d.m.yyyy.
	ErrInvalidBirthday = errors.New("Invalid birthday! Please input in format d.m.y")
)

// ValidationError reports a raw string that failed its field's format rule.
type ValidationError struct {
	Kind  Kind
	Value string
	Err   error
}

// Error returns the field's user-facing failure message.
func (e *ValidationError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the sentinel for the failed rule.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Detail includes the rejected value, for logs.
func (e *ValidationError) Detail() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Value, e.Err)
}

// Name is a contact name. It carries no constraint.
type Name struct {
	value string
}

// NewName wraps raw as a Name.
func NewName(raw string) Name {
	return Name{value: raw}
}

func (n Name) Kind() Kind     { return KindName }
func (n Name) String() string { return n.value }

// Phone is a phone number of 10, 11 or 12 ASCII digits.
type Phone struct {
	value string
}

// NewPhone validates raw and returns it as a Phone.
func NewPhone(raw string) (Phone, error) {
	if err := checkPhone(raw); err != nil {
		return Phone{}, err
	}
	return Phone{value: raw}, nil
}

// MustPhone is NewPhone that panics on invalid input. Use for literals and tests.
func MustPhone(raw string) Phone {
	p, err := NewPhone(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Set replaces the number after validating raw.
func (p *Phone) Set(raw string) error {
	if err := checkPhone(raw); err != nil {
		return err
	}
	p.value = raw
	return nil
}

func (p Phone) Kind() Kind     { return KindPhone }
func (p Phone) String() string { return p.value }

// Equal reports whether both numbers have the same digits.
func (p Phone) Equal(other Phone) bool {
	return p.value == other.value
}

func checkPhone(raw string) error {
	switch len(raw) {
	case 10, 11, 12:
	default:
		return &ValidationError{Kind: KindPhone, Value: raw, Err: ErrInvalidPhone}
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return &ValidationError{Kind: KindPhone, Value: raw, Err: ErrInvalidPhone}
		}
	}
	return nil
}

// birthdayPattern is day.month.year with 1-2 digit day and month. Calendar
// validity is not checked here.
var birthdayPattern = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`)

// Birthday is an optional d.m.yyyy date. The zero value is absent.
type Birthday struct {
	value string
}

// NewBirthday validates raw and returns it as a Birthday.
// The literal AbsentBirthday yields an absent birthday.
func NewBirthday(raw string) (Birthday, error) {
	var b Birthday
	if err := b.Set(raw); err != nil {
		return Birthday{}, err
	}
	return b, nil
}

// MustBirthday is NewBirthday that panics on invalid input.
func MustBirthday(raw string) Birthday {
	b, err := NewBirthday(raw)
	if err != nil {
		panic(err)
	}
	return b
}

// Set replaces the date after validating raw.
func (b *Birthday) Set(raw string) error {
	if raw == AbsentBirthday {
		b.value = ""
		return nil
	}
	if !birthdayPattern.MatchString(raw) {
		return &ValidationError{Kind: KindBirthday, Value: raw, Err: ErrInvalidBirthday}
	}
	b.value = raw
	return nil
}

// IsAbsent reports whether no birthday is set.
func (b Birthday) IsAbsent() bool { return b.value == "" }

func (b Birthday) Kind() Kind { return KindBirthday }

// String returns the raw date, or AbsentBirthday when absent.
func (b Birthday) String() string {
	if b.IsAbsent() {
		return AbsentBirthday
	}
	return b.value
}
