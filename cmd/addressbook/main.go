package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/addressbook/internal/book"
	"github.com/smileynet/addressbook/internal/config"
	"github.com/smileynet/addressbook/internal/contact"
	"github.com/smileynet/addressbook/internal/document"
	"github.com/smileynet/addressbook/internal/field"
	"github.com/smileynet/addressbook/internal/logging"
	"github.com/smileynet/addressbook/internal/pager"
	"github.com/smileynet/addressbook/internal/state"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// emptyBook is printed by show when the book has no contacts.
const emptyBook = "The book is empty."

// errConfig marks configuration failures for exit code mapping.
var errConfig = errors.New("config")

// Globals are flags shared by every command.
type Globals struct {
	Book string `help:"Book to open (file name without extension)." short:"b"`
}

// CLI is the top-level command structure for addressbook.
type CLI struct {
	Globals

	Version     kong.VersionFlag `help:"Show version." short:"V"`
	Add         AddCmd           `cmd:"" help:"Add a contact or add phones to an existing one."`
	Change      ChangeCmd        `cmd:"" help:"Replace one phone number of a contact."`
	Delete      DeleteCmd        `cmd:"" help:"Delete a contact."`
	Birthday    BirthdayCmd      `cmd:"" help:"Show how many days remain until a contact's birthday."`
	SetBirthday SetBirthdayCmd   `cmd:"" name:"set-birthday" help:"Set or clear a contact's birthday."`
	Search      SearchCmd        `cmd:"" help:"Search contacts by name fragment or exact phone."`
	Show        ShowCmd          `cmd:"" help:"Print every contact."`
	Pages       PagesCmd         `cmd:"" help:"Browse the book page by page."`
}

// session is an opened book plus everything a command needs to act on it.
type session struct {
	cfg    config.Config
	store  *state.FileStore
	name   string
	book   *book.Book
	out    io.Writer
	styled bool
	now    func() time.Time
	logger *slog.Logger
}

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/addressbook/config.yaml"),
		".addressbook/config.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession resolves config, applies global flag overrides and loads the book.
func openSession(g *Globals, w io.Writer) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errConfig, err)
	}
	if g.Book != "" {
		cfg.Storage.Book = g.Book
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errConfig, err)
	}

	logger := logging.New(cfg.Logging, os.Stderr)
	store := state.NewFileStore(cfg.Storage.Dir, state.WithLogger(logger))
	b, err := store.LoadBook(cfg.Storage.Book)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:    *cfg,
		store:  store,
		name:   cfg.Storage.Book,
		book:   b,
		out:    w,
		styled: !cfg.Display.Plain && pager.IsTTY(w),
		now:    time.Now,
		logger: logger,
	}, nil
}

// save persists the book.
func (s *session) save() error {
	if err := s.store.SaveBook(s.name, s.book); err != nil {
		return fmt.Errorf("saving %s: %w", s.name, err)
	}
	return nil
}

// saveIfMutated persists the book when any outcome changed it.
func (s *session) saveIfMutated(outcomes ...contact.Outcome) error {
	for _, o := range outcomes {
		if o.Mutated() {
			return s.save()
		}
	}
	return nil
}

// print writes one outcome line, colored by status on a terminal.
func (s *session) print(o contact.Outcome) {
	msg := o.String()
	if s.styled {
		msg = outcomeStyle(o.Status).Render(msg)
	}
	_, _ = fmt.Fprintln(s.out, msg)
}

// println writes plain text.
func (s *session) println(text string) {
	_, _ = fmt.Fprintln(s.out, text)
}

func outcomeStyle(st contact.Status) lipgloss.Style {
	switch st {
	case contact.StatusExists, contact.StatusNotFound:
		return lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "3", Dark: "11"})
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})
	}
}

// parsePhones validates every raw number before anything is mutated.
func parsePhones(raw ...string) ([]field.Phone, error) {
	phones := make([]field.Phone, 0, len(raw))
	for _, r := range raw {
		p, err := field.NewPhone(r)
		if err != nil {
			return nil, err
		}
		phones = append(phones, p)
	}
	return phones, nil
}

func notFound(name string) contact.Outcome {
	return contact.Outcome{
		Status:  contact.StatusNotFound,
		Message: fmt.Sprintf("No record found with name %s", name),
	}
}

// AddCmd creates a contact or extends an existing one.
type AddCmd struct {
	Name     string   `arg:"" help:"Contact name."`
	Phones   []string `arg:"" optional:"" help:"Phone numbers (10 to 12 digits)."`
	Birthday string   `help:"Birthday as d.m.yyyy." placeholder:"D.M.YYYY"`
}

// Run executes the add command.
func (a *AddCmd) Run(g *Globals) error {
	s, err := openSession(g, os.Stdout)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return a.run(s)
}

func (a *AddCmd) run(s *session) error {
	phones, err := parsePhones(a.Phones...)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	var birthday field.Birthday
	if a.Birthday != "" {
		if birthday, err = field.NewBirthday(a.Birthday); err != nil {
			return fmt.Errorf("add: %w", err)
		}
	}

	var outcomes []contact.Outcome
	if c, ok := s.book.Get(a.Name); ok {
		for _, p := range phones {
			outcomes = append(outcomes, c.AddPhone(p))
		}
		if a.Birthday != "" {
			c.SetBirthday(birthday)
			outcomes = append(outcomes, contact.Outcome{
				Status:  contact.StatusChanged,
				Message: fmt.Sprintf("%s`s birthday set to %s", c.Name(), birthday),
			})
		}
	} else {
		var first *field.Phone
		if len(phones) > 0 {
			first = &phones[0]
		}
		c := contact.New(field.NewName(a.Name), first, birthday)
		if len(phones) > 1 {
			for _, p := range phones[1:] {
				if o := c.AddPhone(p); !o.Mutated() {
					outcomes = append(outcomes, o)
				}
			}
		}
		outcomes = append(outcomes, s.book.AddRecord(c))
	}

	for _, o := range outcomes {
		s.print(o)
	}
	return s.saveIfMutated(outcomes...)
}

// ChangeCmd replaces one phone number.
type ChangeCmd struct {
	Name string `arg:"" help:"Contact name."`
	Old  string `arg:"" help:"Current phone number."`
	New  string `arg:"" help:"Replacement phone number."`
}

// Run executes the change command.
func (c *ChangeCmd) Run(g *Globals) error {
	s, err := openSession(g, os.Stdout)
	if err != nil {
		return fmt.Errorf("change: %w", err)
	}
	return c.run(s)
}

func (c *ChangeCmd) run(s *session) error {
	phones, err := parsePhones(c.Old, c.New)
	if err != nil {
		return fmt.Errorf("change: %w", err)
	}
	rec, ok := s.book.Get(c.Name)
	if !ok {
		s.print(notFound(c.Name))
		return nil
	}
	o := rec.ChangePhone(phones[0], phones[1])
	s.print(o)
	return s.saveIfMutated(o)
}

// DeleteCmd removes a contact.
type DeleteCmd struct {
	Name string `arg:"" help:"Contact name."`
}

// Run executes the delete command.
func (d *DeleteCmd) Run(g *Globals) error {
	s, err := openSession(g, os.Stdout)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return d.run(s)
}

func (d *DeleteCmd) run(s *session) error {
	o := s.book.DeleteRecord(d.Name)
	s.print(o)
	return s.saveIfMutated(o)
}

// BirthdayCmd prints the days remaining until a contact's next birthday.
type BirthdayCmd struct {
	Name string `arg:"" help:"Contact name."`
}

// Run executes the birthday command.
func (b *BirthdayCmd) Run(g *Globals) error {
	s, err := openSession(g, os.Stdout)
	if err != nil {
		return fmt.Errorf("birthday: %w", err)
	}
	return b.run(s)
}

func (b *BirthdayCmd) run(s *session) error {
	rec, ok := s.book.Get(b.Name)
	if !ok {
		s.print(notFound(b.Name))
		return nil
	}
	msg, err := rec.DaysToBirthday(b.Name, s.now())
	if err != nil {
		return fmt.Errorf("birthday: %w", err)
	}
	s.println(msg)
	return nil
}

// SetBirthdayCmd sets or clears a birthday.
type SetBirthdayCmd struct {
	Name string `arg:"" help:"Contact name."`
	Date string `arg:"" help:"Birthday as d.m.yyyy, or None to clear it."`
}

// Run executes the set-birthday command.
func (c *SetBirthdayCmd) Run(g *Globals) error {
	s, err := openSession(g, os.Stdout)
	if err != nil {
		return fmt.Errorf("set-birthday: %w", err)
	}
	return c.run(s)
}

func (c *SetBirthdayCmd) run(s *session) error {
	birthday, err := field.NewBirthday(c.Date)
	if err != nil {
		return fmt.Errorf("set-birthday: %w", err)
	}
	rec, ok := s.book.Get(c.Name)
	if !ok {
		s.print(notFound(c.Name))
		return nil
	}
	rec.SetBirthday(birthday)
	o := contact.Outcome{
		Status:  contact.StatusChanged,
		Message: fmt.Sprintf("%s`s birthday set to %s", rec.Name(), birthday),
	}
	s.print(o)
	return s.saveIfMutated(o)
}

// SearchCmd looks contacts up by name fragment or phone.
type SearchCmd struct {
	Term string `arg:"" help:"Name fragment, or a full phone number."`
}

// Run executes the search command.
func (c *SearchCmd) Run(g *Globals) error {
	s, err := openSession(g, os.Stdout)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return c.run(s)
}

func (c *SearchCmd) run(s *session) error {
	var f field.Field = field.NewName(c.Term)
	if p, err := field.NewPhone(c.Term); err == nil {
		f = p
	}
	s.println(s.book.Search(f))
	return nil
}

// ShowCmd prints the whole book.
type ShowCmd struct{}

// Run executes the show command.
func (c *ShowCmd) Run(g *Globals) error {
	s, err := openSession(g, os.Stdout)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	return c.run(s)
}

func (c *ShowCmd) run(s *session) error {
	if s.book.Len() == 0 {
		s.println(emptyBook)
		return nil
	}
	s.println(s.book.String())
	return nil
}

// PagesCmd shows the book in fixed-size pages.
type PagesCmd struct {
	Size    int  `help:"Contacts per page (default from config)." short:"n"`
	Partial bool `help:"Also show the trailing short page."`
	NoTUI   bool `help:"Force plain text output even if stdout is a TTY." default:"false"`
}

// Run executes the pages command.
func (c *PagesCmd) Run(g *Globals) error {
	s, err := openSession(g, os.Stdout)
	if err != nil {
		return fmt.Errorf("pages: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	display := pager.New(pager.Options{
		Writer:     s.out,
		ForcePlain: c.NoTUI || s.cfg.Display.Plain,
	})
	return c.run(ctx, s, display)
}

func (c *PagesCmd) run(ctx context.Context, s *session, display pager.Display) error {
	size := s.cfg.Pages.Size
	if c.Size != 0 {
		size = c.Size
	}
	if size < 1 {
		return fmt.Errorf("pages: %w: size must be at least 1, got %d", errConfig, size)
	}

	var opts []book.PageOption
	if c.Partial || s.cfg.Pages.IncludePartial {
		opts = append(opts, book.WithPartialPage())
	}
	pages := slices.Collect(s.book.Pages(size, opts...))
	s.logger.Debug("paging book", "book", s.name, "size", size, "pages", len(pages))

	return display.Show(ctx, pages)
}

const (
	exitSuccess    = 0
	exitUsage      = 1
	exitValidation = 2
	exitStorage    = 3
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	// Parse errors can wrap validation errors; check them first.
	if errors.Is(err, document.ErrParse) {
		return exitStorage
	}
	var ve *field.ValidationError
	if errors.As(err, &ve) || errors.Is(err, contact.ErrCalendarDate) {
		return exitValidation
	}
	if errors.Is(err, errConfig) {
		return exitUsage
	}
	return exitStorage
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("addressbook"),
		kong.Description("Keep contacts with phone numbers and birthdays."),
		kong.UsageOnError(),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
