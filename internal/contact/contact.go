// Package contact models one person: a name, an ordered set of phone numbers,
// and an optional birthday.
package contact

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/smileynet/addressbook/internal/field"
)

// ErrCalendarDate indicates a birthday that passed format validation but does
// not exist on the calendar for the year it is evaluated in (31.02, or 29.02
// in a non-leap year).
var ErrCalendarDate = errors.New("contact: birthday is not a calendar date")

// Contact is a single address book record. The name is fixed at construction.
type Contact struct {
	name     field.Name
	phones   []field.Phone
	birthday field.Birthday
}

// New creates a contact with an optional first phone and birthday.
func New(name field.Name, phone *field.Phone, birthday field.Birthday) *Contact {
	c := &Contact{name: name, birthday: birthday}
	if phone != nil {
		c.phones = append(c.phones, *phone)
	}
	return c
}

// Name returns the contact's name.
func (c *Contact) Name() field.Name { return c.name }

// Phones returns a copy of the phone numbers in insertion order.
func (c *Contact) Phones() []field.Phone {
	out := make([]field.Phone, len(c.phones))
	copy(out, c.phones)
	return out
}

// Birthday returns the birthday, which may be absent.
func (c *Contact) Birthday() field.Birthday { return c.birthday }

// SetBirthday replaces the birthday.
func (c *Contact) SetBirthday(b field.Birthday) { c.birthday = b }

// HasPhone reports whether p is among the contact's numbers.
func (c *Contact) HasPhone(p field.Phone) bool {
	return c.indexOf(p) >= 0
}

func (c *Contact) indexOf(p field.Phone) int {
	for i, existing := range c.phones {
		if existing.Equal(p) {
			return i
		}
	}
	return -1
}

// AddPhone appends p unless the same number is already present.
func (c *Contact) AddPhone(p field.Phone) Outcome {
	if c.HasPhone(p) {
		return c.existsOutcome(p)
	}
	return c.AddPhoneFromLoad(p)
}

// AddPhoneFromLoad appends p without the duplicate check. It exists so
// loading a file keeps duplicate numbers that were already persisted.
func (c *Contact) AddPhoneFromLoad(p field.Phone) Outcome {
	c.phones = append(c.phones, p)
	return Outcome{
		Status:  StatusAdded,
		Message: fmt.Sprintf("phone %s add to %s", p, c.name),
	}
}

// ChangePhone replaces the first occurrence of old with replacement, keeping
// its position. Nothing changes if replacement is already present or old is
// missing.
func (c *Contact) ChangePhone(old, replacement field.Phone) Outcome {
	if c.HasPhone(replacement) {
		return c.existsOutcome(replacement)
	}
	i := c.indexOf(old)
	if i < 0 {
		return Outcome{
			Status:  StatusNotFound,
			Message: fmt.Sprintf("%s not in %s`s phones", old, c.name),
		}
	}
	c.phones[i] = replacement
	return Outcome{
		Status:  StatusChanged,
		Message: fmt.Sprintf("%s`s %s change to %s", c.name, old, replacement),
	}
}

func (c *Contact) existsOutcome(p field.Phone) Outcome {
	return Outcome{
		Status:  StatusExists,
		Message: fmt.Sprintf("%s already exist in %s`s phones", p, c.name),
	}
}

// DaysToBirthday describes how far the next birthday is from today,
// addressing the contact as displayName. Only the calendar date of today is
// used. A birthday that never falls on a real date in the target year returns
// an error wrapping ErrCalendarDate.
func (c *Contact) DaysToBirthday(displayName string, today time.Time) (string, error) {
	if c.birthday.IsAbsent() {
		return fmt.Sprintf("%s's birthday is unknown.", displayName), nil
	}

	day, month, year, err := splitDate(c.birthday.String())
	if err != nil {
		return "", err
	}
	if _, err := calendarDate(year, month, day); err != nil {
		return "", err
	}

	ty, tm, td := today.Date()
	start := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	next, err := calendarDate(ty, month, day)
	if err != nil {
		return "", err
	}
	if next.Before(start) {
		next, err = calendarDate(ty+1, month, day)
		if err != nil {
			return "", err
		}
	}

	switch days := int(next.Sub(start).Hours() / 24); days {
	case 0:
		return fmt.Sprintf("Today is %s's birthday!", displayName), nil
	case 1:
		return fmt.Sprintf("%s's birthday is tomorrow.", displayName), nil
	default:
		return fmt.Sprintf("%s's birthday is in %d day(s).", displayName, days), nil
	}
}

// splitDate parses a d.m.yyyy string already accepted by field.Birthday.
func splitDate(raw string) (day, month, year int, err error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrCalendarDate, raw)
	}
	nums := make([]int, 3)
	for i, part := range parts {
		n, convErr := strconv.Atoi(part)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrCalendarDate, raw)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}

// calendarDate builds a UTC midnight date, rejecting values time.Date would
// normalize into a different day.
func calendarDate(year, month, day int) (time.Time, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %02d.%02d.%04d", ErrCalendarDate, day, month, year)
	}
	return t, nil
}

// String renders "<name>: <phones>; Birthday: <date or Unknown>".
func (c *Contact) String() string {
	phones := make([]string, len(c.phones))
	for i, p := range c.phones {
		phones[i] = p.String()
	}
	birthday := "Unknown"
	if !c.birthday.IsAbsent() {
		birthday = c.birthday.String()
	}
	return fmt.Sprintf("%s: %s; Birthday: %s", c.name, strings.Join(phones, ", "), birthday)
}
