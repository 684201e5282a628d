package contact

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/smileynet/addressbook/internal/field"
)

func phoneStrings(c *Contact) []string {
	var out []string
	for _, p := range c.Phones() {
		out = append(out, p.String())
	}
	return out
}

func newBill(phones ...string) *Contact {
	c := New(field.NewName("Bill"), nil, field.Birthday{})
	for _, raw := range phones {
		c.AddPhoneFromLoad(field.MustPhone(raw))
	}
	return c
}

func TestNew_SeedsFirstPhone(t *testing.T) {
	// Given a name, a phone and a birthday
	p := field.MustPhone("0123456789")
	b := field.MustBirthday("1.2.1990")

	// When a contact is created
	c := New(field.NewName("Bill"), &p, b)

	// Then it holds exactly those values
	if got := phoneStrings(c); !slices.Equal(got, []string{"0123456789"}) {
		t.Errorf("Phones() = %v, want [0123456789]", got)
	}
	if c.Birthday().String() != "1.2.1990" {
		t.Errorf("Birthday() = %q, want %q", c.Birthday(), "1.2.1990")
	}
	if c.Name().String() != "Bill" {
		t.Errorf("Name() = %q, want %q", c.Name(), "Bill")
	}
}

func TestNew_WithoutPhone(t *testing.T) {
	c := New(field.NewName("Bill"), nil, field.Birthday{})

	if len(c.Phones()) != 0 {
		t.Errorf("Phones() len = %d, want 0", len(c.Phones()))
	}
}

func TestAddPhone(t *testing.T) {
	// Given a contact with one phone
	c := newBill("0123456789")

	// When a new number is added
	out := c.AddPhone(field.MustPhone("0987654321"))

	// Then it is appended
	if out.Status != StatusAdded {
		t.Errorf("Status = %q, want %q", out.Status, StatusAdded)
	}
	if out.String() != "phone 0987654321 add to Bill" {
		t.Errorf("String() = %q", out.String())
	}
	if got := phoneStrings(c); !slices.Equal(got, []string{"0123456789", "0987654321"}) {
		t.Errorf("Phones() = %v", got)
	}
}

func TestAddPhone_Duplicate(t *testing.T) {
	// Given a contact with one phone
	c := newBill("0123456789")

	// When the same number is added again
	out := c.AddPhone(field.MustPhone("0123456789"))

	// Then nothing changes and the outcome says it exists
	if out.Status != StatusExists {
		t.Errorf("Status = %q, want %q", out.Status, StatusExists)
	}
	if out.Mutated() {
		t.Error("Mutated() = true, want false")
	}
	if out.String() != "0123456789 already exist in Bill`s phones" {
		t.Errorf("String() = %q", out.String())
	}
	if len(c.Phones()) != 1 {
		t.Errorf("Phones() len = %d, want 1", len(c.Phones()))
	}
}

func TestAddPhoneFromLoad_KeepsDuplicates(t *testing.T) {
	// Given a contact with one phone
	c := newBill("0123456789")

	// When the same number is added through the load path
	out := c.AddPhoneFromLoad(field.MustPhone("0123456789"))

	// Then it grows regardless
	if out.Status != StatusAdded {
		t.Errorf("Status = %q, want %q", out.Status, StatusAdded)
	}
	if len(c.Phones()) != 2 {
		t.Errorf("Phones() len = %d, want 2", len(c.Phones()))
	}
}

func TestChangePhone(t *testing.T) {
	tests := []struct {
		name       string
		old        string
		repl       string
		wantStatus Status
		wantMsg    string
		wantPhones []string
	}{
		{
			name:       "replaces in place",
			old:        "1111111111",
			repl:       "9999999999",
			wantStatus: StatusChanged,
			wantMsg:    "Bill`s 1111111111 change to 9999999999",
			wantPhones: []string{"0000000000", "9999999999", "2222222222"},
		},
		{
			name:       "replacement already present",
			old:        "1111111111",
			repl:       "2222222222",
			wantStatus: StatusExists,
			wantMsg:    "2222222222 already exist in Bill`s phones",
			wantPhones: []string{"0000000000", "1111111111", "2222222222"},
		},
		{
			name:       "old missing",
			old:        "5555555555",
			repl:       "9999999999",
			wantStatus: StatusNotFound,
			wantMsg:    "5555555555 not in Bill`s phones",
			wantPhones: []string{"0000000000", "1111111111", "2222222222"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given a contact with three phones
			c := newBill("0000000000", "1111111111", "2222222222")

			// When a phone is changed
			out := c.ChangePhone(field.MustPhone(tt.old), field.MustPhone(tt.repl))

			// Then the outcome and sequence match
			if out.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", out.Status, tt.wantStatus)
			}
			if out.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", out.Message, tt.wantMsg)
			}
			if got := phoneStrings(c); !slices.Equal(got, tt.wantPhones) {
				t.Errorf("Phones() = %v, want %v", got, tt.wantPhones)
			}
		})
	}
}

func TestChangePhone_FirstOccurrenceOnly(t *testing.T) {
	// Given a loaded contact with a duplicated number
	c := newBill("1111111111", "1111111111")

	// When that number is changed
	c.ChangePhone(field.MustPhone("1111111111"), field.MustPhone("3333333333"))

	// Then only the first copy is replaced
	if got := phoneStrings(c); !slices.Equal(got, []string{"3333333333", "1111111111"}) {
		t.Errorf("Phones() = %v", got)
	}
}

func TestPhones_ReturnsCopy(t *testing.T) {
	c := newBill("0123456789")

	phones := c.Phones()
	phones[0] = field.MustPhone("9999999999")

	if c.Phones()[0].String() != "0123456789" {
		t.Error("mutating Phones() result changed the contact")
	}
}

func TestDaysToBirthday(t *testing.T) {
	today := time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		birthday string
		want     string
	}{
		{name: "unknown", birthday: field.AbsentBirthday, want: "Bill's birthday is unknown."},
		{name: "today", birthday: "10.06.1990", want: "Today is Bill's birthday!"},
		{name: "tomorrow", birthday: "11.6.1985", want: "Bill's birthday is tomorrow."},
		{name: "later this year", birthday: "20.06.2000", want: "Bill's birthday is in 10 day(s)."},
		{name: "rolls over to next year", birthday: "09.06.1990", want: "Bill's birthday is in 364 day(s)."},
		{name: "new year", birthday: "1.1.2001", want: "Bill's birthday is in 205 day(s)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given a contact with the birthday
			c := New(field.NewName("Bill"), nil, field.MustBirthday(tt.birthday))

			// When days to birthday is computed with a frozen today
			got, err := c.DaysToBirthday("Bill", today)

			// Then the matching message is returned
			if err != nil {
				t.Fatalf("DaysToBirthday() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DaysToBirthday() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDaysToBirthday_LeapDayInLeapYear(t *testing.T) {
	c := New(field.NewName("Bill"), nil, field.MustBirthday("29.02.2000"))

	got, err := c.DaysToBirthday("Bill", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))

	if err != nil {
		t.Fatalf("DaysToBirthday() error = %v", err)
	}
	if got != "Bill's birthday is in 59 day(s)." {
		t.Errorf("DaysToBirthday() = %q", got)
	}
}

func TestDaysToBirthday_IgnoresTimeOfDay(t *testing.T) {
	c := New(field.NewName("Ann"), nil, field.MustBirthday("11.06.1990"))

	late := time.Date(2024, time.June, 10, 23, 59, 59, 0, time.UTC)
	got, err := c.DaysToBirthday("Ann", late)

	if err != nil {
		t.Fatalf("DaysToBirthday() error = %v", err)
	}
	if got != "Ann's birthday is tomorrow." {
		t.Errorf("DaysToBirthday() = %q", got)
	}
}

func TestDaysToBirthday_CalendarErrors(t *testing.T) {
	tests := []struct {
		name     string
		birthday string
		today    time.Time
	}{
		{name: "impossible day", birthday: "31.02.2023", today: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "zero month", birthday: "1.0.1990", today: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "leap day in non-leap year", birthday: "29.02.2000", today: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{name: "leap day rolling into non-leap year", birthday: "29.02.2000", today: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(field.NewName("Bill"), nil, field.MustBirthday(tt.birthday))

			_, err := c.DaysToBirthday("Bill", tt.today)

			if !errors.Is(err, ErrCalendarDate) {
				t.Errorf("DaysToBirthday() error = %v, want ErrCalendarDate", err)
			}
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		c    *Contact
		want string
	}{
		{
			name: "phones and birthday",
			c: func() *Contact {
				c := newBill("0123456789", "0987654321")
				c.SetBirthday(field.MustBirthday("1.2.1990"))
				return c
			}(),
			want: "Bill: 0123456789, 0987654321; Birthday: 1.2.1990",
		},
		{
			name: "no birthday",
			c:    newBill("0123456789"),
			want: "Bill: 0123456789; Birthday: Unknown",
		},
		{
			name: "no phones",
			c:    newBill(),
			want: "Bill: ; Birthday: Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
