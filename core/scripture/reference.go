package scripture

import (
	"encoding/json"
	"strconv"
	"strings"
)

// VerseGroup is one contiguous verse or verse range of a reference.
// Start == End for a single verse.
type VerseGroup struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// IsSingle reports whether the group covers exactly one verse.
func (g VerseGroup) IsSingle() bool {
	return g.Start == g.End
}

// Contains reports whether verse v falls inside the group.
func (g VerseGroup) Contains(v int) bool {
	lo, hi := g.Start, g.End
	if lo > hi {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

func (g VerseGroup) String() string {
	if g.IsSingle() {
		return strconv.Itoa(g.Start)
	}
	return strconv.Itoa(g.Start) + "-" + strconv.Itoa(g.End)
}

// Reference is a scripture reference found in text.
type Reference struct {
	// Book is the canonical book name (e.g., "Romans", never "Rom").
	Book string `json:"book"`

	// BookID is the OSIS book ID (e.g., "Rom").
	BookID string `json:"book_id"`

	Chapter int `json:"chapter"`

	// Verse is the verse number, or the lowest verse when VerseEnd is set.
	Verse int `json:"verse"`

	// VerseEnd is the highest verse covered by the reference. It is zero
	// when the reference was written as a single verse.
	VerseEnd int `json:"verse_end,omitempty"`

	// Groups are the verse groups in the order they were written.
	Groups []VerseGroup `json:"groups"`

	// Text is the matched substring with the user's spacing preserved.
	Text string `json:"reference"`

	// Canonical is "<book> <chapter>:<groups>" with no spaces inside the
	// verse list.
	Canonical string `json:"canonical"`
}

// IsRange reports whether the verse is expressed as a (Verse, VerseEnd)
// pair rather than a single number.
func (r Reference) IsRange() bool {
	return r.VerseEnd > 0
}

// Contains reports whether the reference covers chapter:verse.
func (r Reference) Contains(chapter, verse int) bool {
	if chapter != r.Chapter {
		return false
	}
	for _, g := range r.Groups {
		if g.Contains(verse) {
			return true
		}
	}
	return false
}

// OSIS returns the reference as a space-separated OSIS reference list,
// one element per verse group (e.g., "Matt.26.6-Matt.26.13 Matt.26.17-Matt.26.30").
func (r Reference) OSIS() string {
	if r.BookID == "" {
		return ""
	}

	prefix := r.BookID + "." + strconv.Itoa(r.Chapter) + "."
	parts := make([]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		if g.IsSingle() {
			parts = append(parts, prefix+strconv.Itoa(g.Start))
			continue
		}
		parts = append(parts, prefix+strconv.Itoa(g.Start)+"-"+prefix+strconv.Itoa(g.End))
	}
	return strings.Join(parts, " ")
}

func (r Reference) String() string {
	return r.Canonical
}

// DetectionType classifies what a detection found.
type DetectionType string

const (
	// TypeNone is serialized as JSON null.
	TypeNone DetectionType = ""

	// TypeReference means explicit references such as "John 3:16" were found.
	TypeReference DetectionType = "reference"

	// TypeText and TypeBoth are reserved for recognizing quoted verse text.
	// Detect never produces them.
	TypeText DetectionType = "text"
	TypeBoth DetectionType = "both"
)

// MarshalJSON encodes TypeNone as null.
func (t DetectionType) MarshalJSON() ([]byte, error) {
	if t == TypeNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(t))
}

// UnmarshalJSON accepts null as TypeNone.
func (t *DetectionType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = TypeNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = DetectionType(s)
	return nil
}

// DetectionConfidence is reported whenever at least one reference is found.
const DetectionConfidence = 0.9

// Detection is the result of scanning a piece of text.
type Detection struct {
	IsScripture  bool          `json:"is_scripture"`
	Type         DetectionType `json:"type"`
	References   []Reference   `json:"references"`
	Confidence   float64       `json:"confidence"`
	DetectedText string        `json:"detected_text,omitempty"`
}

// Primary returns the first reference, if any.
func (d Detection) Primary() (Reference, bool) {
	if len(d.References) == 0 {
		return Reference{}, false
	}
	return d.References[0], true
}
