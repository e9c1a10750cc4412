// Package symptom_extractor turns protocol prose into synthetic patient
// queries. For a (text, code) pair it finds the sentence window mentioning the
// code, pulls candidate symptom phrases through an ordered chain of
// strategies, and renders them as a complaint sentence.
package symptom_extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
)

const (
	// maxQueryPhrases is how many phrases a query lists.
	maxQueryPhrases = 3
	// fallbackRunes bounds the raw-text fallback query.
	fallbackRunes = 200
)

// Extraction is the result of running the strategy chain.
type Extraction struct {
	Phrases  []string
	Strategy string
	Context  string
}

// Synthesis is a rendered query plus how it was produced.
type Synthesis struct {
	Query    string
	Strategy string
	Phrases  []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDictionary replaces the built-in dictionary.
func WithDictionary(d *Dictionary) Option {
	return func(e *Extractor) {
		if d != nil {
			e.dict = d
		}
	}
}

// WithLocale selects the language of labels and query template.
func WithLocale(l Locale) Option {
	return func(e *Extractor) { e.locale = l }
}

// WithLogger attaches a logger for debug tracing of strategy choice.
func WithLogger(l logging.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// Extractor holds the immutable dictionary, locale and strategy chain. It has
// no mutable state and may be shared.
type Extractor struct {
	dict       *Dictionary
	locale     Locale
	logger     logging.Logger
	strategies []Strategy
}

// NewExtractor builds an Extractor with the default dictionary and the
// Russian locale unless overridden.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		dict:   DefaultDictionary(),
		locale: Russian,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.strategies = []Strategy{
		dictionaryStrategy(e.dict),
		sectionStrategy(e.locale),
		sentenceStrategy(),
	}
	return e
}

// Strategies returns the chain in evaluation order.
func (e *Extractor) Strategies() []Strategy {
	out := make([]Strategy, len(e.strategies))
	copy(out, e.strategies)
	return out
}

// Locale returns the configured locale.
func (e *Extractor) Locale() Locale {
	return e.locale
}

// ExtractSymptoms returns the phrases of the first strategy yielding a
// non-empty list, or nil.
func (e *Extractor) ExtractSymptoms(text, code string) []string {
	return e.ExtractWithSource(text, code).Phrases
}

// ExtractWithSource is ExtractSymptoms plus the name of the winning strategy
// (StrategyNone when every strategy came back empty).
func (e *Extractor) ExtractWithSource(text, code string) Extraction {
	in := Input{Text: text, Code: code, Context: ExtractContext(text, code)}
	for _, s := range e.strategies {
		if phrases := s.Fn(in); len(phrases) > 0 {
			return Extraction{Phrases: phrases, Strategy: s.Name, Context: in.Context}
		}
	}
	return Extraction{Strategy: StrategyNone, Context: in.Context}
}

// SynthesizeQuery renders a non-empty patient query for code from text.
func (e *Extractor) SynthesizeQuery(text, code string) string {
	return e.Synthesize(text, code).Query
}

// Synthesize renders the query and reports how it was produced. With
// phrases, the first maxQueryPhrases go into the locale template. Without,
// the context (or full text) truncated to fallbackRunes is used, and the
// locale placeholder when even that is blank.
func (e *Extractor) Synthesize(text, code string) Synthesis {
	ex := e.ExtractWithSource(text, code)

	if len(ex.Phrases) > 0 {
		selected := ex.Phrases
		if len(selected) > maxQueryPhrases {
			selected = selected[:maxQueryPhrases]
		}
		e.logger.Debug("query synthesized",
			logging.String("code", code),
			logging.String("strategy", ex.Strategy),
			logging.Int("phrases", len(ex.Phrases)))
		return Synthesis{Query: e.locale.RenderQuery(selected), Strategy: ex.Strategy, Phrases: selected}
	}

	source := ex.Context
	if source == "" {
		source = text
	}
	query := strings.TrimSpace(truncateRunes(source, fallbackRunes))
	if query == "" {
		query = e.locale.Placeholder
	}
	e.logger.Debug("query fell back to raw text",
		logging.String("code", code),
		logging.Bool("placeholder", query == e.locale.Placeholder))
	return Synthesis{Query: query, Strategy: StrategyNone}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

//Personal.AI order the ending
