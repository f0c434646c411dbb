package scripture

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/versefind/core/canon"
)

// verseSpecGrammar is the participle grammar for the part of a reference
// after the colon.
// Examples: "16", "16-17", "6-13,17-30", "6 - 13, 17-30"
//
//nolint:govet // participle grammar tags are not standard struct tags
type verseSpecGrammar struct {
	Groups []*verseGroupGrammar `@@ ( "," @@ )*`
}

//nolint:govet // participle grammar tags are not standard struct tags
type verseGroupGrammar struct {
	Start string  `@Int`
	End   *string `( "-" @Int )?`
}

var verseSpecLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[,\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var verseSpecParser = participle.MustBuild[verseSpecGrammar](
	participle.Lexer(verseSpecLexer),
	participle.Elide("Whitespace"),
)

// parseVerseSpec expands a verse specification into verse groups in the
// order they were written. Numbers are captured as text and converted as
// decimal so "08" reads as eight.
func parseVerseSpec(spec string) ([]VerseGroup, error) {
	parsed, err := verseSpecParser.ParseString("", spec)
	if err != nil {
		return nil, fmt.Errorf("invalid verse spec %q: %w", spec, err)
	}

	groups := make([]VerseGroup, 0, len(parsed.Groups))
	for _, g := range parsed.Groups {
		start, err := strconv.Atoi(g.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid verse %q: %w", g.Start, err)
		}
		end := start
		if g.End != nil {
			if end, err = strconv.Atoi(*g.End); err != nil {
				return nil, fmt.Errorf("invalid verse %q: %w", *g.End, err)
			}
		}
		groups = append(groups, VerseGroup{Start: start, End: end})
	}
	return groups, nil
}

// buildReference assembles a Reference from a resolved book, the chapter
// digits and the raw verse spec.
//
//   - several groups: Verse/VerseEnd span the lowest and highest verse of all groups
//   - one "N-M" group: Verse/VerseEnd are N and M as written
//   - one "N" group:   Verse is N and VerseEnd stays zero
func buildReference(book *canon.Book, chapterDigits, spec, text string) (Reference, error) {
	chapter, err := strconv.Atoi(chapterDigits)
	if err != nil {
		return Reference{}, fmt.Errorf("invalid chapter %q: %w", chapterDigits, err)
	}

	groups, err := parseVerseSpec(spec)
	if err != nil {
		return Reference{}, err
	}

	ref := Reference{
		Book:    book.Name,
		BookID:  book.OSIS,
		Chapter: chapter,
		Groups:  groups,
		Text:    text,
	}

	switch {
	case len(groups) > 1:
		lo, hi := groups[0].Start, groups[0].Start
		for _, g := range groups {
			lo = min(lo, g.Start, g.End)
			hi = max(hi, g.Start, g.End)
		}
		ref.Verse, ref.VerseEnd = lo, hi
	case strings.Contains(spec, "-"):
		ref.Verse, ref.VerseEnd = groups[0].Start, groups[0].End
	default:
		ref.Verse = groups[0].Start
	}

	ref.Canonical = canonicalString(book.Name, chapter, groups)
	return ref, nil
}

// chapterReference builds the reference for a bare "<book> <chapter>",
// which is read as the first verse of the chapter.
func chapterReference(book *canon.Book, chapterDigits, text string) (Reference, error) {
	chapter, err := strconv.Atoi(chapterDigits)
	if err != nil {
		return Reference{}, fmt.Errorf("invalid chapter %q: %w", chapterDigits, err)
	}

	groups := []VerseGroup{{Start: 1, End: 1}}
	return Reference{
		Book:      book.Name,
		BookID:    book.OSIS,
		Chapter:   chapter,
		Verse:     1,
		Groups:    groups,
		Text:      text,
		Canonical: canonicalString(book.Name, chapter, groups),
	}, nil
}

func canonicalString(book string, chapter int, groups []VerseGroup) string {
	var sb strings.Builder
	sb.WriteString(book)
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(chapter))
	sb.WriteString(":")
	for i, g := range groups {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(g.String())
	}
	return sb.String()
}
