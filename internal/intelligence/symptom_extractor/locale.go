package symptom_extractor

import (
	"fmt"
	"strings"
)

// Locale carries the language-specific pieces of extraction and query
// rendering: section labels, the query template and the placeholder.
type Locale struct {
	Name string

	// Labels are regular-expression fragments for section headers that
	// introduce symptom lists, matched case-insensitively before a colon.
	Labels []string

	QueryPrefix string
	Separator   string
	// LastSeparator joins the final two phrases; empty means Separator.
	LastSeparator string
	Terminator    string
	Placeholder   string
}

// Russian is the default locale. Protocol corpora are Russian clinical
// guidelines.
var Russian = Locale{
	Name:        "ru",
	Labels:      []string{`жалоб[а-я]*`, `симптом[а-я]*`, `признак[а-я]*`},
	QueryPrefix: "Пациент обратился с жалобами на: ",
	Separator:   ", ",
	Terminator:  ".",
	Placeholder: "Жалобы по протоколу.",
}

// English renders English-language corpora.
var English = Locale{
	Name:          "en",
	Labels:        []string{`complaint[a-z]*`, `symptom[a-z]*`, `sign[a-z]*`},
	QueryPrefix:   "Patient presents with complaints of: ",
	Separator:     ", ",
	LastSeparator: " and ",
	Terminator:    ".",
	Placeholder:   "Complaints per protocol.",
}

// LocaleByName resolves "ru" or "en".
func LocaleByName(name string) (Locale, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ru":
		return Russian, nil
	case "en":
		return English, nil
	default:
		return Locale{}, fmt.Errorf("symptom_extractor: unknown locale %q", name)
	}
}

// RenderQuery joins phrases into the locale's query sentence.
func (l Locale) RenderQuery(phrases []string) string {
	var body string
	switch {
	case len(phrases) == 0:
		body = ""
	case len(phrases) == 1 || l.LastSeparator == "":
		body = strings.Join(phrases, l.Separator)
	default:
		body = strings.Join(phrases[:len(phrases)-1], l.Separator) + l.LastSeparator + phrases[len(phrases)-1]
	}
	return l.QueryPrefix + body + l.Terminator
}

func (l Locale) sectionPattern() string {
	return `(?i)(?:` + strings.Join(l.Labels, "|") + `):([^.\n]+)`
}

//Personal.AI order the ending
