package ragcheck

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/DiagBench/pkg/errors"
)

// Keyword is one term expected in a reply. Matching is case-insensitive
// substring containment, so stems such as "родоразреш" cover inflections.
type Keyword struct {
	Term   string  `yaml:"term" json:"term"`
	Weight float64 `yaml:"weight,omitempty" json:"weight,omitempty"`
}

// weight returns the effective weight; unset or non-positive counts as 1.
func (k Keyword) weight() float64 {
	if k.Weight <= 0 {
		return 1
	}
	return k.Weight
}

// UnmarshalYAML accepts either a bare string or a {term, weight} mapping.
func (k *Keyword) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		k.Term = node.Value
		k.Weight = 0
		return nil
	}
	type plain Keyword
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*k = Keyword(p)
	return nil
}

// Case is one question with the keywords a grounded answer should mention.
type Case struct {
	Name     string    `yaml:"name" json:"name"`
	Question string    `yaml:"question" json:"question"`
	Keywords []Keyword `yaml:"keywords" json:"keywords"`
}

type caseFile struct {
	Cases []Case `yaml:"cases"`
}

// Terms lists the keyword terms in order.
func (c Case) Terms() []string {
	out := make([]string, len(c.Keywords))
	for i, k := range c.Keywords {
		out[i] = k.Term
	}
	return out
}

func terms(ts ...string) []Keyword {
	out := make([]Keyword, len(ts))
	for i, t := range ts {
		out[i] = Keyword{Term: t}
	}
	return out
}

// DefaultCases returns the built-in clinical question set.
func DefaultCases() []Case {
	return []Case{
		{
			Name:     "HELLP синдром - симптомы",
			Question: "Какие основные симптомы HELLP синдрома?",
			Keywords: terms("боль", "головная боль", "тромбоцит", "АСТ", "АЛТ"),
		},
		{
			Name:     "Дислипидемия - анализы",
			Question: "Какие анализы нужны при дислипидемии?",
			Keywords: terms("холестерин", "триглицерид", "печен", "АЛТ", "креатинин"),
		},
		{
			Name:     "HELLP синдром - лечение",
			Question: "Как лечить HELLP синдром?",
			Keywords: terms("магний", "родоразреш", "лабеталол", "тромбоцит"),
		},
		{
			Name:     "Гипертензия - диагностика",
			Question: "Какие критерии диагноза преэклампсии?",
			Keywords: terms("АД", "артериальное", "протеинурия"),
		},
	}
}

// LoadCases reads a YAML case file:
//
//	cases:
//	  - name: HELLP
//	    question: Какие симптомы?
//	    keywords: [боль, {term: АЛТ, weight: 2}]
func LoadCases(path string) ([]Case, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeFatalIO, "read ragcheck cases %q", path)
	}
	var f caseFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeTestSetParse, "parse ragcheck cases %q", path)
	}
	if len(f.Cases) == 0 {
		return nil, errors.Newf(errors.ErrCodeEmptyTestSet, "ragcheck cases %q define no cases", path)
	}
	for i, c := range f.Cases {
		if strings.TrimSpace(c.Question) == "" {
			return nil, errors.Newf(errors.ErrCodeTestSetParse, "ragcheck case %d has no question", i+1)
		}
		if len(c.Keywords) == 0 {
			return nil, errors.Newf(errors.ErrCodeTestSetParse, "ragcheck case %d has no keywords", i+1)
		}
		if c.Name == "" {
			f.Cases[i].Name = c.Question
		}
	}
	return f.Cases, nil
}

//Personal.AI order the ending
