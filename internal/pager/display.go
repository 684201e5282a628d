package pager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Display renders a sequence of pages.
type Display interface {
	Show(ctx context.Context, pages []string) error
}

// Options configures display creation.
type Options struct {
	Writer     io.Writer // Output destination (default: os.Stdout).
	Input      io.Reader // Key input for the TUI (default: os.Stdin).
	ForcePlain bool      // Force plain text even if TTY.
}

// New returns a TUI display when the writer is a TTY, or a plain text
// display otherwise. ForcePlain overrides TTY detection.
func New(opts Options) Display {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	if opts.ForcePlain || !IsTTY(opts.Writer) {
		return &PlainDisplay{w: opts.Writer}
	}
	return &TUIDisplay{w: opts.Writer, in: opts.Input}
}

// IsTTY reports whether w is connected to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainDisplay writes every page as numbered text lines.
type PlainDisplay struct {
	w io.Writer
}

// NewPlainDisplay returns a PlainDisplay writing to w.
func NewPlainDisplay(w io.Writer) *PlainDisplay {
	return &PlainDisplay{w: w}
}

// Show prints each page in order. It stops early if ctx is cancelled.
func (d *PlainDisplay) Show(ctx context.Context, pages []string) error {
	if len(pages) == 0 {
		_, err := fmt.Fprintln(d.w, EmptyMessage)
		return err
	}
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(d.w, "Page %d/%d\n%s\n", i+1, len(pages), page); err != nil {
			return err
		}
	}
	return nil
}

// TUIDisplay browses pages in a Bubble Tea program.
// Falls back to PlainDisplay if the program fails to start.
type TUIDisplay struct {
	w  io.Writer
	in io.Reader
}

// Show runs the page browser until the user quits or ctx is cancelled.
func (d *TUIDisplay) Show(ctx context.Context, pages []string) error {
	p := tea.NewProgram(NewModel(pages),
		tea.WithContext(ctx),
		tea.WithOutput(d.w),
		tea.WithInput(d.in),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return (&PlainDisplay{w: d.w}).Show(ctx, pages)
	}
	return nil
}
