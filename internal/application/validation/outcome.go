package validation

import (
	"time"

	"github.com/turtacn/DiagBench/internal/domain/testset"
	"github.com/turtacn/DiagBench/pkg/errors"
	"github.com/turtacn/DiagBench/pkg/types/diagnosis"
)

// Reason classifies a case outcome.
type Reason string

const (
	ReasonMatched      Reason = "matched"
	ReasonNoDiagnoses  Reason = "no_diagnoses"
	ReasonCodeMismatch Reason = "code_mismatch"
	ReasonServiceError Reason = "service_error"
)

// Reasons lists every reason in reporting order.
var Reasons = []Reason{ReasonMatched, ReasonCodeMismatch, ReasonNoDiagnoses, ReasonServiceError}

// Outcome is the verdict for one test case.
type Outcome struct {
	Index     int              `json:"index"`
	Case      testset.TestCase `json:"case"`
	Matched   bool             `json:"matched"`
	MatchKind MatchKind        `json:"match_kind,omitempty"`
	Reason    Reason           `json:"reason"`
	FoundCode string           `json:"found_code,omitempty"`

	// Top is the engine's first candidate, nil when there was none.
	Top *diagnosis.Candidate `json:"top,omitempty"`
	// Alternatives holds the leading candidates on a code mismatch.
	Alternatives []diagnosis.Candidate `json:"alternatives,omitempty"`

	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Stats aggregates outcomes. Rate is Passed/Total and is only meaningful
// when RateDefined is true, which requires Total > 0.
type Stats struct {
	Total           int            `json:"total"`
	Passed          int            `json:"passed"`
	Failed          int            `json:"failed"`
	ExactMatches    int            `json:"exact_matches"`
	CategoryMatches int            `json:"category_matches"`
	ByReason        map[Reason]int `json:"by_reason"`
	Rate            float64        `json:"rate"`
	RateDefined     bool           `json:"rate_defined"`
}

// Add folds one outcome into the counters. Call Finalize afterwards.
func (s *Stats) Add(o Outcome) {
	if s.ByReason == nil {
		s.ByReason = make(map[Reason]int, len(Reasons))
	}
	s.Total++
	s.ByReason[o.Reason]++
	if o.Matched {
		s.Passed++
		switch o.MatchKind {
		case MatchExact:
			s.ExactMatches++
		case MatchCategory:
			s.CategoryMatches++
		}
		return
	}
	s.Failed++
}

// Finalize computes the rate. With zero cases the rate stays undefined.
func (s *Stats) Finalize() {
	if s.Total == 0 {
		s.Rate = 0
		s.RateDefined = false
		return
	}
	s.Rate = float64(s.Passed) / float64(s.Total)
	s.RateDefined = true
}

// Tally builds finalized Stats from outcomes.
func Tally(outcomes []Outcome) Stats {
	var s Stats
	s.ByReason = make(map[Reason]int, len(Reasons))
	for _, o := range outcomes {
		s.Add(o)
	}
	s.Finalize()
	return s
}

// Report is the result of one validation run.
type Report struct {
	RunID      string    `json:"run_id"`
	Source     string    `json:"source,omitempty"`
	Endpoint   string    `json:"endpoint,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcomes   []Outcome `json:"outcomes"`
	Stats      Stats     `json:"stats"`
}

// Verdict turns the report into the process-level result: nil when every
// case passed, ErrCodeValidationFailed when any failed, and
// ErrCodeEmptyTestSet for a zero-case run when failOnEmpty is set.
func (r *Report) Verdict(failOnEmpty bool) error {
	if r.Stats.Total == 0 {
		if failOnEmpty {
			return errors.New(errors.ErrCodeEmptyTestSet, "")
		}
		return nil
	}
	if r.Stats.Failed > 0 {
		return errors.Newf(errors.ErrCodeValidationFailed, "%d of %d test cases failed", r.Stats.Failed, r.Stats.Total)
	}
	return nil
}

//Personal.AI order the ending
