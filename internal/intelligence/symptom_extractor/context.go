package symptom_extractor

import (
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Context extraction
// ---------------------------------------------------------------------------

// contextPattern builds the sentence-window pattern for one code. The first
// alternative anchors on the code and runs through one separator (period,
// em-dash or hyphen) to the end of the following clause; the second takes the
// whole sentence containing the code. The leftmost match wins.
func contextPattern(code string) (*regexp.Regexp, error) {
	c := escapeCode(code)
	return regexp.Compile(`(?i)\b` + c + `\b[^.]*[.—\-][^.]*\.|[^.]*\b` + c + `\b[^.]*\.`)
}

// ExtractContext returns the trimmed sentence-level window of text that
// mentions code, or "" when text or code is empty or the code is absent.
// It is pure: the same inputs always yield the same output.
func ExtractContext(text, code string) string {
	if text == "" || code == "" {
		return ""
	}
	re, err := contextPattern(code)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(re.FindString(text))
}

//Personal.AI order the ending
