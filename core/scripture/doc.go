// Package scripture detects Bible references in free-form text and
// converts them between structured and string forms.
//
// The pipeline is:
//
//	text ─▶ StripHTML ─▶ Matcher scan ─▶ boundary correction ─▶ verse-spec parse ─▶ Reference
//
// A Matcher scans with an explicit cursor. Each candidate of the shape
// "<book> <chapter>:<verse-spec>" is resolved against the book catalog,
// corrected when its verse list swallowed the leading numeral of the next
// book name ("Hebrews 13:2, 1 Peter 4:9"), and parsed into verse groups.
//
// String forms:
//
//	Canonical  "Matthew 26:6-13,17-30"    storage key and API query
//	Display    "Matthew 26:6-13 | 17-30"  UI
//	Text       the substring as the user typed it
//
// Nothing in this package returns an error or panics on arbitrary input.
// Text that cannot be read as a reference simply produces no Reference.
// Matchers hold only immutable state and are safe for concurrent use.
package scripture
