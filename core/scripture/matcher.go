package scripture

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/FocuswithJustin/versefind/core/canon"
)

// verseSpecPattern matches one or more verse groups separated by commas.
const verseSpecPattern = `\d+(?:\s*-\s*\d+)?(?:,\s*\d+(?:\s*-\s*\d+)?)*`

// Matcher finds references in text using a book catalog.
// A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	catalog *canon.Catalog

	// reference matches "<book> <chapter>:<verse-spec>".
	// Groups: 1 book phrase, 2 chapter, 3 verse spec.
	reference *regexp.Regexp

	// chapterOnly matches a whole string of the form "<book> <chapter>".
	chapterOnly *regexp.Regexp
}

// NewMatcher compiles a Matcher for the given catalog.
func NewMatcher(c *canon.Catalog) *Matcher {
	books := bookAlternation(c)
	return &Matcher{
		catalog:     c,
		reference:   regexp.MustCompile(`(?i)\b(` + books + `)\.?\s+(\d+):(` + verseSpecPattern + `)`),
		chapterOnly: regexp.MustCompile(`(?i)^\s*(` + books + `)\.?\s+(\d+)\s*$`),
	}
}

// DefaultMatcher returns the shared Matcher over canon.Default.
var DefaultMatcher = sync.OnceValue(func() *Matcher {
	return NewMatcher(canon.Default())
})

// Catalog returns the catalog the matcher resolves books against.
func (m *Matcher) Catalog() *canon.Catalog {
	return m.catalog
}

// bookAlternation builds the regexp alternation over every book name
// variation. Longer names come first so "1 John" wins over "John" and
// "Song of Songs" over "Song" under leftmost-first matching. Internal spaces
// accept any whitespace run.
func bookAlternation(c *canon.Catalog) string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range c.AllNameVariations() {
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = strings.ReplaceAll(regexp.QuoteMeta(name), " ", `\s+`)
	}
	return strings.Join(parts, "|")
}

// FindReferences returns every reference in text in document order.
// References whose matched text is identical to an earlier one are dropped.
func (m *Matcher) FindReferences(text string) []Reference {
	var refs []Reference
	seen := make(map[string]bool)

	cursor := 0
	for cursor < len(text) {
		loc := m.reference.FindStringSubmatchIndex(text[cursor:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += cursor
			}
		}

		start, end := loc[0], loc[1]

		// \b cannot see the byte before the slice, so check it here.
		if start == cursor && !atWordBoundary(text, start) {
			cursor = start + 1
			continue
		}

		// RE2 has no lookahead; the verse spec must not stop inside a number.
		if end < len(text) && isDigit(text[end]) {
			cursor = end
			continue
		}

		book, ok := m.catalog.Resolve(text[loc[2]:loc[3]])
		if !ok {
			cursor = end
			continue
		}

		specStart := loc[6]
		specEnd := m.boundaryEnd(text, specStart, loc[7])
		end = specEnd
		cursor = end

		ref, err := buildReference(book, text[loc[4]:loc[5]], text[specStart:specEnd], text[start:end])
		if err != nil {
			continue
		}
		if seen[ref.Text] {
			continue
		}
		seen[ref.Text] = true
		refs = append(refs, ref)
	}

	return refs
}

// ParseReference reads raw as a single reference. The first reference in
// raw is returned; failing that, a bare "<book> <chapter>" is read as the
// first verse of that chapter.
func (m *Matcher) ParseReference(raw string) (Reference, bool) {
	if refs := m.FindReferences(raw); len(refs) > 0 {
		return refs[0], true
	}

	sub := m.chapterOnly.FindStringSubmatch(raw)
	if sub == nil {
		return Reference{}, false
	}
	book, ok := m.catalog.Resolve(sub[1])
	if !ok {
		return Reference{}, false
	}
	ref, err := chapterReference(book, sub[2], strings.TrimSpace(raw))
	if err != nil {
		return Reference{}, false
	}
	return ref, true
}

func atWordBoundary(text string, i int) bool {
	if i == 0 || i >= len(text) {
		return true
	}
	return isWordByte(text[i-1]) != isWordByte(text[i])
}

func isWordByte(b byte) bool {
	return b == '_' || isDigit(b) || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// FindReferences calls DefaultMatcher().FindReferences.
func FindReferences(text string) []Reference {
	return DefaultMatcher().FindReferences(text)
}

// ParseReference calls DefaultMatcher().ParseReference.
func ParseReference(raw string) (Reference, bool) {
	return DefaultMatcher().ParseReference(raw)
}
