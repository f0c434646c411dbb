// Package textnorm provides the text folding used to compare book names
// and the markup stripping applied to note content before detection.
//
// Normalize is for comparison only. It removes dashes, so it must never be
// applied to a verse specification.
package textnorm

import (
	"html"
	"regexp"
	"strings"
)

var (
	// punctuation is the character class removed by Normalize.
	punctuation = regexp.MustCompile(`[.,;:!?'"()\-–—]`)

	// htmlTag matches a single markup tag. This is not an HTML parser.
	htmlTag = regexp.MustCompile(`<[^>]*>`)

	// blockTag matches tags that separate content.
	blockTag = regexp.MustCompile(`(?i)</?(?:p|div|br|hr|li|ul|ol|dl|dt|dd|h[1-6]|tr|td|th|table|blockquote|pre|section|article|header|footer|title|head|body|html)\b[^>]*>`)
)

// Normalize lowercases text, strips punctuation, collapses whitespace runs
// to a single space and trims the result.
// Normalize is total and idempotent.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = punctuation.ReplaceAllString(text, "")
	return CollapseSpace(text)
}

// CollapseSpace replaces every run of whitespace with a single space and
// trims leading and trailing whitespace.
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// StripHTML removes markup tags, decodes character entities and collapses
// whitespace. Block tags become a space so adjacent paragraphs do not run
// together; inline tags are removed outright.
func StripHTML(text string) string {
	if !strings.ContainsAny(text, "<&") {
		return CollapseSpace(text)
	}
	text = blockTag.ReplaceAllString(text, " ")
	text = htmlTag.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	return CollapseSpace(text)
}

// Equivalent reports whether a and b are equal after normalization.
func Equivalent(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
