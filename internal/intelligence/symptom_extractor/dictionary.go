package symptom_extractor

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/DiagBench/pkg/errors"
)

// ---------------------------------------------------------------------------
// Dictionary
// ---------------------------------------------------------------------------

// Dictionary maps ICD codes to curated, ordered symptom phrases. It is
// immutable after construction; lookups return copies.
type Dictionary struct {
	entries map[string][]string
}

// NewDictionary copies entries into a new Dictionary. Codes are trimmed and
// phrases are stored as given. Whitespace-only phrases are dropped, and codes
// left without phrases are omitted.
func NewDictionary(entries map[string][]string) *Dictionary {
	d := &Dictionary{entries: make(map[string][]string, len(entries))}
	for code, phrases := range entries {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		kept := make([]string, 0, len(phrases))
		for _, p := range phrases {
			if strings.TrimSpace(p) != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			d.entries[code] = kept
		}
	}
	return d
}

// Lookup returns the stored phrases for code in curated order, or nil.
func (d *Dictionary) Lookup(code string) []string {
	if d == nil {
		return nil
	}
	phrases, ok := d.entries[code]
	if !ok {
		return nil
	}
	out := make([]string, len(phrases))
	copy(out, phrases)
	return out
}

// Codes returns the dictionary's codes in sorted order.
func (d *Dictionary) Codes() []string {
	if d == nil {
		return nil
	}
	codes := make([]string, 0, len(d.entries))
	for c := range d.entries {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Len is the number of codes with curated phrases.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// LoadDictionary reads a YAML mapping of code to phrase list:
//
//	O14.2:
//	  - головная боль
//	  - рвота
func LoadDictionary(path string) (*Dictionary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeFatalIO, "cannot read symptom dictionary %q", path)
	}
	var entries map[string][]string
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeDictionaryFormat, "cannot parse symptom dictionary %q", path)
	}
	d := NewDictionary(entries)
	if d.Len() == 0 {
		return nil, errors.Newf(errors.ErrCodeDictionaryFormat, "symptom dictionary %q has no entries", path)
	}
	return d, nil
}

// DefaultDictionary returns the built-in curated dictionary.
func DefaultDictionary() *Dictionary {
	return NewDictionary(defaultEntries)
}

var defaultEntries = map[string][]string{
	"O14.2": {
		"боль в правом верхнем квадранте живота",
		"головная боль",
		"рвота",
		"повышенное артериальное давление",
		"снижение тромбоцитов",
		"повышение трансаминаз",
	},
	"E78.0": {
		"повышенный холестерин",
		"гиперхолестеринемия",
		"ХС-ЛПНП выше нормы",
		"боль в груди",
		"раннее развитие ИБС",
	},
	"E78.2": {
		"смешанная гиперлипидемия",
		"повышенные триглицериды",
		"высокий холестерин",
		"семейная история ССЗ",
	},
	"I63": {
		"инсульт",
		"острое нарушение мозгового кровообращения",
		"ишемический инсульт",
		"атеросклероз мозговых артерий",
	},
	"I70.2": {
		"атеросклероз артерий конечностей",
		"боль в ногах при ходьбе",
		"перемежающаяся хромота",
		"поражение периферических артерий",
	},
	"I21": {
		"острый инфаркт миокарда",
		"боль в груди",
		"острый коронарный синдром",
		"ИБС",
	},
	"I20": {
		"стенокардия",
		"боль в загрудинной области",
		"ишемическая болезнь сердца",
		"боль при физической нагрузке",
	},
}

//Personal.AI order the ending
