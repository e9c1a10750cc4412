// Package diagnosis holds the ICD-10 code type and the wire types exchanged
// with a diagnosis engine. It is importable by SDK users of pkg/client.
package diagnosis

import (
	"regexp"
	"strings"
)

// CategoryLength is the number of leading characters that form an ICD-10
// category ("E78" for "E78.2").
const CategoryLength = 3

var codePattern = regexp.MustCompile(`^[A-Z][0-9][0-9](\.[0-9]+)?$`)

// Code is an ICD-10 code such as "O14.2" or "I63". Codes read from corpora are
// kept verbatim; Valid reports whether they follow the usual shape.
type Code string

func (c Code) String() string {
	return string(c)
}

// Key is a normalized form suitable for map and cache keys.
func (c Code) Key() string {
	return "icd_" + c.normalize()
}

func (c Code) normalize() string {
	return strings.Replace(strings.ToLower(strings.TrimSpace(string(c))), ".", "", -1)
}

// Category returns the first CategoryLength characters, or the whole code
// when it is shorter.
func (c Code) Category() string {
	r := []rune(string(c))
	if len(r) <= CategoryLength {
		return string(c)
	}
	return string(r[:CategoryLength])
}

// Valid reports whether c matches Letter Digit Digit ( "." Digit+ )?.
func (c Code) Valid() bool {
	return codePattern.MatchString(string(c))
}

// SameCategory reports whether both codes are non-empty and share a category.
func (c Code) SameCategory(other Code) bool {
	if c == "" || other == "" {
		return false
	}
	return c.Category() == other.Category()
}

// ─────────────────────────────────────────────────────────────────────────────
// Wire types
// ─────────────────────────────────────────────────────────────────────────────

// Candidate is one ranked diagnosis returned by the engine. Order in the
// response is significant; index 0 is the top prediction.
type Candidate struct {
	ICDCodes          []string `json:"icd_codes"`
	Diagnosis         string   `json:"diagnosis"`
	LikelihoodPercent float64  `json:"likelihood_percent"`
}

// PrimaryCode returns the first code of the candidate, or "" if it has none.
func (c Candidate) PrimaryCode() Code {
	if len(c.ICDCodes) == 0 {
		return ""
	}
	return Code(c.ICDCodes[0])
}

// DiagnoseRequest is the default request body. Clients may rename the query
// field through configuration, in which case they build the body themselves.
type DiagnoseRequest struct {
	Symptoms string `json:"symptoms"`
}

// DiagnoseResponse is the engine's response. An absent diagnoses array
// decodes to an empty list.
type DiagnoseResponse struct {
	Diagnoses []Candidate `json:"diagnoses"`
}

// ChatRequest is the body sent to the engine's chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the chat endpoint's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

//Personal.AI order the ending
