package symptom_extractor

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/turtacn/DiagBench/pkg/types/diagnosis"
)

// Ranker scores every dictionary code against a free-text query by the share
// of its curated phrases that occur in the query. It backs the reference
// engine served by `diagbench serve`.
type Ranker struct {
	codes   []string
	phrases map[string][]string
	folded  map[string][]string
}

// NewRanker indexes d. A nil d means the built-in dictionary.
func NewRanker(d *Dictionary) *Ranker {
	if d == nil {
		d = DefaultDictionary()
	}
	r := &Ranker{
		codes:   d.Codes(),
		phrases: make(map[string][]string, d.Len()),
		folded:  make(map[string][]string, d.Len()),
	}
	for _, code := range r.codes {
		ps := d.Lookup(code)
		r.phrases[code] = ps
		f := make([]string, len(ps))
		for i, p := range ps {
			f[i] = fold(p)
		}
		r.folded[code] = f
	}
	return r
}

func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// Rank returns up to limit candidates, best first. Codes with no phrase in
// the query are left out; ties go to the lexically smaller code. A limit of
// zero or less means no limit.
func (r *Ranker) Rank(query string, limit int) []diagnosis.Candidate {
	q := fold(query)
	if strings.TrimSpace(q) == "" {
		return []diagnosis.Candidate{}
	}

	type scored struct {
		code  string
		share float64
		found []string
	}
	var hits []scored
	for _, code := range r.codes {
		var found []string
		for i, p := range r.folded[code] {
			if strings.Contains(q, p) {
				found = append(found, r.phrases[code][i])
			}
		}
		if len(found) == 0 {
			continue
		}
		hits = append(hits, scored{code: code, share: float64(len(found)) / float64(len(r.folded[code])), found: found})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].share != hits[j].share {
			return hits[i].share > hits[j].share
		}
		return hits[i].code < hits[j].code
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]diagnosis.Candidate, 0, len(hits))
	for _, h := range hits {
		out = append(out, diagnosis.Candidate{
			ICDCodes:          []string{h.code},
			Diagnosis:         strings.Join(h.found, ", "),
			LikelihoodPercent: math.Round(h.share*1000) / 10,
		})
	}
	return out
}

//Personal.AI order the ending
