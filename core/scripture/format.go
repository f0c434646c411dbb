package scripture

import (
	"regexp"
	"strings"

	"github.com/FocuswithJustin/versefind/core/textnorm"
)

var (
	spaceAfterColon = regexp.MustCompile(`:\s+`)
	spaceAfterComma = regexp.MustCompile(`,\s+`)
	spacedDash      = regexp.MustCompile(`\s*-\s*`)

	// groupComma is a comma that introduces another verse group.
	groupComma = regexp.MustCompile(`,\s*(\d)`)
)

// displaySeparator replaces the comma between verse groups in display form.
const displaySeparator = " | "

// NormalizeReference returns the canonical form of raw ("Rom 8: 28" →
// "Romans 8:28"). Spacing is cleaned first; if the cleaned string then
// parses as a reference its canonical form is returned, otherwise the
// cleaned string is. NormalizeReference is idempotent.
func (m *Matcher) NormalizeReference(raw string) string {
	cleaned := cleanReference(raw)
	if ref, ok := m.ParseReference(cleaned); ok {
		return ref.Canonical
	}
	return cleaned
}

// cleanReference fixes spacing without touching book names: it removes
// whitespace after ':' and ',' and around '-' between digits.
func cleanReference(raw string) string {
	s := textnorm.CollapseSpace(raw)
	s = spaceAfterColon.ReplaceAllString(s, ":")
	s = spaceAfterComma.ReplaceAllString(s, ",")
	return collapseDigitDashes(s)
}

// collapseDigitDashes removes the whitespace around each '-' that has a
// digit on both sides.
func collapseDigitDashes(s string) string {
	var sb strings.Builder
	last := 0
	for _, loc := range spacedDash.FindAllStringIndex(s, -1) {
		start, end := loc[0], loc[1]
		if start == 0 || end == len(s) || !isDigit(s[start-1]) || !isDigit(s[end]) {
			continue
		}
		sb.WriteString(s[last:start])
		sb.WriteByte('-')
		last = end
	}
	sb.WriteString(s[last:])
	return sb.String()
}

// NormalizeReference calls DefaultMatcher().NormalizeReference.
func NormalizeReference(raw string) string {
	return DefaultMatcher().NormalizeReference(raw)
}

// FormatForDisplay replaces each comma that precedes a verse group with
// " | ": "Matthew 26:6-13,17-30" → "Matthew 26:6-13 | 17-30".
func FormatForDisplay(reference string) string {
	return groupComma.ReplaceAllString(reference, displaySeparator+"$1")
}

// FormatForAPI reverses FormatForDisplay. For any normalized reference r,
// FormatForAPI(FormatForDisplay(r)) == r.
func FormatForAPI(display string) string {
	return strings.ReplaceAll(display, displaySeparator, ",")
}

// FormatBookNameForAPI returns the book name as the verse service expects
// it. Canonical names are accepted as-is.
func FormatBookNameForAPI(name string) string {
	return strings.TrimSpace(name)
}
