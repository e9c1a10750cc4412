package symptom_extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Strategy names, reported with every extraction.
const (
	StrategyDictionary = "dictionary"
	StrategySection    = "section"
	StrategySentence   = "sentence"
	StrategyNone       = "none"
)

const (
	// contextMinRunes is the length a context must exceed to replace the full
	// text as the working text.
	contextMinRunes = 50

	maxSectionSegments = 5
	maxSentences       = 3
	sentenceMinRunes   = 20
	sentenceMaxRunes   = 200
)

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	sentenceSplitRe = regexp.MustCompile(`[.;]`)
)

// Input is what every strategy sees for one (document, code) pair.
type Input struct {
	Text    string
	Code    string
	Context string
}

// Working returns the context when it is longer than contextMinRunes, else
// the full text.
func (in Input) Working() string {
	if utf8.RuneCountInString(in.Context) > contextMinRunes {
		return in.Context
	}
	return in.Text
}

// Strategy is one step of the extraction chain. Fn must be pure.
type Strategy struct {
	Name string
	Fn   func(in Input) []string
}

// dictionaryStrategy returns the curated phrases for the code verbatim.
func dictionaryStrategy(dict *Dictionary) Strategy {
	return Strategy{
		Name: StrategyDictionary,
		Fn: func(in Input) []string {
			return dict.Lookup(in.Code)
		},
	}
}

// sectionStrategy collects up to maxSectionSegments labeled segments
// ("жалобы: ...") from the working text, each running to the next period or
// newline.
func sectionStrategy(locale Locale) Strategy {
	re := regexp.MustCompile(locale.sectionPattern())
	return Strategy{
		Name: StrategySection,
		Fn: func(in Input) []string {
			matches := re.FindAllStringSubmatch(in.Working(), maxSectionSegments)
			var out []string
			for _, m := range matches {
				if seg := strings.TrimSpace(m[1]); seg != "" {
					out = append(out, seg)
				}
			}
			return out
		},
	}
}

// sentenceStrategy splits the whitespace-collapsed working text on periods
// and semicolons and keeps the first maxSentences fragments of moderate
// length.
func sentenceStrategy() Strategy {
	return Strategy{
		Name: StrategySentence,
		Fn: func(in Input) []string {
			collapsed := whitespaceRe.ReplaceAllString(in.Working(), " ")
			var out []string
			for _, frag := range sentenceSplitRe.Split(collapsed, -1) {
				frag = strings.TrimSpace(frag)
				n := utf8.RuneCountInString(frag)
				if n <= sentenceMinRunes || n >= sentenceMaxRunes {
					continue
				}
				out = append(out, frag)
				if len(out) == maxSentences {
					break
				}
			}
			return out
		},
	}
}

//Personal.AI order the ending
