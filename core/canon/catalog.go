// Package canon provides the Bible book catalog: canonical names, OSIS IDs,
// chapter counts and the abbreviations accepted when resolving a book.
//
// The catalog is immutable once built and safe for concurrent use.
package canon

import (
	"strings"
	"sync"

	"github.com/FocuswithJustin/versefind/core/textnorm"
)

// variation is one accepted spelling of a book, pre-normalized.
type variation struct {
	norm string
	book *Book
}

// Catalog is an immutable set of books with name resolution.
type Catalog struct {
	books      []Book
	exact      map[string]*Book
	byOSIS     map[string]*Book
	variations []variation
}

// Default returns the shared catalog of the 66-book Protestant canon.
var Default = sync.OnceValue(func() *Catalog {
	return New(bookTable)
})

// New builds a catalog from the given books. Order is assigned from slice
// position; the input slice is copied.
func New(books []Book) *Catalog {
	c := &Catalog{
		books:  make([]Book, len(books)),
		exact:  make(map[string]*Book),
		byOSIS: make(map[string]*Book, len(books)),
	}
	copy(c.books, books)

	for i := range c.books {
		b := &c.books[i]
		b.Order = i + 1
		b.Synonyms = append([]string(nil), b.Synonyms...)
		c.byOSIS[strings.ToLower(b.OSIS)] = b

		for _, name := range b.Names() {
			norm := textnorm.Normalize(name)
			if norm == "" {
				continue
			}
			// First writer wins so a synonym never shadows a canonical name
			// listed earlier.
			if _, taken := c.exact[norm]; !taken {
				c.exact[norm] = b
			}
			c.variations = append(c.variations, variation{norm: norm, book: b})
		}
	}

	return c
}

// Books returns the books in canonical order.
func (c *Catalog) Books() []Book {
	out := make([]Book, len(c.books))
	copy(out, c.books)
	return out
}

// Len returns the number of books.
func (c *Catalog) Len() int {
	return len(c.books)
}

// CanonicalNames returns every canonical book name in canonical order.
func (c *Catalog) CanonicalNames() []string {
	names := make([]string, len(c.books))
	for i := range c.books {
		names[i] = c.books[i].Name
	}
	return names
}

// AllNameVariations returns every canonical name and synonym. The result
// may contain names that normalize to the same string.
func (c *Catalog) AllNameVariations() []string {
	var names []string
	for i := range c.books {
		names = append(names, c.books[i].Names()...)
	}
	return names
}

// Lookup returns the book whose canonical name or synonym normalizes to
// exactly the same string as name.
func (c *Catalog) Lookup(name string) (*Book, bool) {
	b, ok := c.exact[textnorm.Normalize(name)]
	return b, ok
}

// ByOSIS returns the book with the given OSIS ID (case-insensitive).
func (c *Catalog) ByOSIS(id string) (*Book, bool) {
	b, ok := c.byOSIS[strings.ToLower(strings.TrimSpace(id))]
	return b, ok
}

// Resolve maps a free-form book phrase to a book.
//
// Both sides are compared after textnorm.Normalize. A phrase matches a name
// when they are equal or one is a prefix of the other. Exact matches are
// preferred over prefix matches; among prefix matches the first book in
// canonical order wins.
func (c *Catalog) Resolve(phrase string) (*Book, bool) {
	norm := textnorm.Normalize(phrase)
	if norm == "" {
		return nil, false
	}

	if b, ok := c.exact[norm]; ok {
		return b, true
	}

	for _, v := range c.variations {
		if strings.HasPrefix(v.norm, norm) || strings.HasPrefix(norm, v.norm) {
			return v.book, true
		}
	}

	return nil, false
}
