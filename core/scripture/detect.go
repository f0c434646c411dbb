package scripture

import (
	"github.com/FocuswithJustin/versefind/core/textnorm"
)

// NETBibleCopyright is the attribution shown alongside NET Bible text.
const NETBibleCopyright = "Scripture quoted by permission. Quotations designated (NET) are from the NET Bible® copyright ©1996, 2019 by Biblical Studies Press, L.L.C. http://netbible.com All rights reserved."

// Detect scans note content for references. Markup tags are stripped
// before scanning.
func (m *Matcher) Detect(text string) Detection {
	cleaned := textnorm.StripHTML(text)

	refs := m.FindReferences(cleaned)
	if len(refs) == 0 {
		return Detection{References: []Reference{}}
	}

	return Detection{
		IsScripture:  true,
		Type:         TypeReference,
		References:   refs,
		Confidence:   DetectionConfidence,
		DetectedText: cleaned,
	}
}

// PrimaryReference returns the matched text of the first reference in text.
func (m *Matcher) PrimaryReference(text string) (string, bool) {
	ref, ok := m.Detect(text).Primary()
	if !ok {
		return "", false
	}
	return ref.Text, true
}

// Detect calls DefaultMatcher().Detect.
func Detect(text string) Detection {
	return DefaultMatcher().Detect(text)
}

// PrimaryReference calls DefaultMatcher().PrimaryReference.
func PrimaryReference(text string) (string, bool) {
	return DefaultMatcher().PrimaryReference(text)
}
