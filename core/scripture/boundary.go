package scripture

import (
	"strings"
	"unicode"
)

// boundaryEnd returns where the verse spec text[specStart:specEnd] really
// ends.
//
// The verse-spec pattern is greedy, so in "Hebrews 13:2, 1 Peter 4:9" it
// captures "2, 1". When the part after the last comma is a bare number and
// "<number> <next word>" names a book, that number belongs to the next
// reference and the spec ends at the last comma instead. The scan resumes
// from there and picks up "1 Peter 4:9" on its next iteration.
//
// Only this one shape is corrected.
func (m *Matcher) boundaryEnd(text string, specStart, specEnd int) int {
	spec := text[specStart:specEnd]

	comma := strings.LastIndexByte(spec, ',')
	if comma < 0 {
		return specEnd
	}

	trailing := strings.TrimSpace(spec[comma+1:])
	if !isBareNumber(trailing) {
		return specEnd
	}

	word := nextWord(text[specEnd:])
	if word == "" {
		return specEnd
	}

	if _, ok := m.catalog.Resolve(trailing + " " + word); !ok {
		return specEnd
	}
	return specStart + comma
}

func isBareNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// nextWord returns the first whitespace-delimited word of s.
func nextWord(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[:i]
	}
	return s
}
