package book

import (
	"fmt"
	"iter"
	"strings"
)

type pageConfig struct {
	partial bool
}

// PageOption configures Pages.
type PageOption func(*pageConfig)

// WithPartialPage also yields the trailing page when it holds fewer than size
// entries. By default that page is dropped.
func WithPartialPage() PageOption {
	return func(c *pageConfig) { c.partial = true }
}

// Pages yields the book in pages of size entries, each rendered as
// "<key>: <contact>" pairs joined by ", ". Every range over the result starts
// from the first page and reflects the book at that moment. A trailing
// partial page is dropped unless WithPartialPage is given. A size below 1
// yields nothing.
func (b *Book) Pages(size int, opts ...PageOption) iter.Seq[string] {
	var cfg pageConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(yield func(string) bool) {
		if size < 1 {
			return
		}
		keys := b.Names()
		count := len(keys) / size
		if cfg.partial && len(keys)%size != 0 {
			count++
		}
		for i := 0; i < count; i++ {
			end := min((i+1)*size, len(keys))
			if !yield(b.renderPage(keys[i*size : end])) {
				return
			}
		}
	}
}

// PageCount returns how many pages Pages would yield.
func (b *Book) PageCount(size int, opts ...PageOption) int {
	n := 0
	for range b.Pages(size, opts...) {
		n++
	}
	return n
}

func (b *Book) renderPage(keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, b.entries[k])
	}
	return strings.Join(parts, ", ")
}
