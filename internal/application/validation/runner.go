// Package validation replays a labeled test set against a diagnosis engine
// and scores each answer with the exact-or-category match policy.
//
// The run is strictly sequential: each engine call finishes before the next
// case starts. A failing case is recorded and the run moves on; only a
// cancelled context ends it early.
package validation

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/DiagBench/internal/domain/testset"
	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/types/diagnosis"
)

// DefaultTopAlternatives is how many candidates a mismatch keeps.
const DefaultTopAlternatives = 3

// ============================================================================
// Dependencies
// ============================================================================

// Diagnoser is the engine under test.
type Diagnoser interface {
	Diagnose(ctx context.Context, query string) ([]diagnosis.Candidate, error)
}

// DiagnoserFunc adapts a function to Diagnoser.
type DiagnoserFunc func(ctx context.Context, query string) ([]diagnosis.Candidate, error)

func (f DiagnoserFunc) Diagnose(ctx context.Context, query string) ([]diagnosis.Candidate, error) {
	return f(ctx, query)
}

// Observer is notified of every outcome in order and of the final report.
// Observer errors are logged and never change the result of the run.
type Observer interface {
	OnOutcome(ctx context.Context, runID string, o Outcome) error
	OnComplete(ctx context.Context, r *Report) error
}

// CaseSource yields test cases one at a time and io.EOF at the end.
type CaseSource interface {
	Next() (testset.TestCase, error)
}

// NewSliceSource yields cases in order.
func NewSliceSource(cases []testset.TestCase) CaseSource {
	return &sliceSource{cases: cases}
}

type sliceSource struct {
	cases []testset.TestCase
	pos   int
}

func (s *sliceSource) Next() (testset.TestCase, error) {
	if s.pos >= len(s.cases) {
		return testset.TestCase{}, io.EOF
	}
	tc := s.cases[s.pos]
	s.pos++
	return tc, nil
}

// ============================================================================
// Runner
// ============================================================================

// Option configures a Runner.
type Option func(*Runner)

func WithLogger(l logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithObserver appends an observer. Observers are called in the order added.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithTopAlternatives sets how many candidates a mismatch keeps.
func WithTopAlternatives(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.topN = n
		}
	}
}

// WithEndpoint records the engine address in reports.
func WithEndpoint(endpoint string) Option {
	return func(r *Runner) { r.endpoint = endpoint }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// Runner evaluates test cases against a Diagnoser.
type Runner struct {
	diagnoser Diagnoser
	logger    logging.Logger
	observers []Observer
	topN      int
	endpoint  string
	now       func() time.Time
}

// NewRunner builds a Runner around d.
func NewRunner(d Diagnoser, opts ...Option) *Runner {
	r := &Runner{
		diagnoser: d,
		logger:    logging.NewNopLogger(),
		topN:      DefaultTopAlternatives,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates cases in order.
func (r *Runner) Run(ctx context.Context, cases []testset.TestCase) (*Report, error) {
	return r.RunSource(ctx, "", NewSliceSource(cases))
}

// RunSource evaluates cases pulled from src until io.EOF. Only a read error
// from src or a cancelled ctx is returned as an error; the partial report is
// returned alongside it.
func (r *Runner) RunSource(ctx context.Context, source string, src CaseSource) (*Report, error) {
	report := &Report{
		RunID:     uuid.New().String(),
		Source:    source,
		Endpoint:  r.endpoint,
		StartedAt: r.now(),
		Outcomes:  []Outcome{},
	}
	log := r.logger.With(logging.String("run_id", report.RunID))
	log.Info("validation started", logging.String("source", source), logging.String("endpoint", r.endpoint))

	finish := func() {
		report.FinishedAt = r.now()
		report.Stats = Tally(report.Outcomes)
	}

	for idx := 1; ; idx++ {
		if err := ctx.Err(); err != nil {
			finish()
			return report, err
		}
		tc, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			finish()
			return report, err
		}

		o := r.Evaluate(ctx, idx, tc)
		report.Outcomes = append(report.Outcomes, o)
		r.logOutcome(log, o)
		for _, obs := range r.observers {
			if oerr := obs.OnOutcome(ctx, report.RunID, o); oerr != nil {
				log.Warn("outcome observer failed", logging.Int("index", idx), logging.Err(oerr))
			}
		}
	}

	finish()
	s := report.Stats
	log.Info("validation finished",
		logging.Int("total", s.Total),
		logging.Int("passed", s.Passed),
		logging.Int("failed", s.Failed),
		logging.Float64("rate", s.Rate),
		logging.Bool("rate_defined", s.RateDefined))

	for _, obs := range r.observers {
		if oerr := obs.OnComplete(ctx, report); oerr != nil {
			log.Warn("completion observer failed", logging.Err(oerr))
		}
	}
	return report, nil
}

// Evaluate runs one case. It never returns an error: engine failures become
// a service_error outcome.
func (r *Runner) Evaluate(ctx context.Context, idx int, tc testset.TestCase) Outcome {
	o := Outcome{Index: idx, Case: tc}

	start := r.now()
	candidates, err := r.diagnoser.Diagnose(ctx, tc.Query)
	o.Duration = r.now().Sub(start)

	switch {
	case err != nil:
		o.Reason = ReasonServiceError
		o.Error = err.Error()
	case len(candidates) == 0:
		o.Reason = ReasonNoDiagnoses
	default:
		top := candidates[0]
		o.Top = &top
		o.FoundCode = top.PrimaryCode().String()
		o.MatchKind = Classify(o.FoundCode, tc.GT)
		if o.MatchKind != MatchNone {
			o.Matched = true
			o.Reason = ReasonMatched
		} else {
			o.Reason = ReasonCodeMismatch
			n := r.topN
			if n > len(candidates) {
				n = len(candidates)
			}
			o.Alternatives = append([]diagnosis.Candidate(nil), candidates[:n]...)
		}
	}
	return o
}

func (r *Runner) logOutcome(log logging.Logger, o Outcome) {
	fields := []logging.Field{
		logging.Int("index", o.Index),
		logging.String("gt", o.Case.GT),
		logging.String("reason", string(o.Reason)),
		logging.Duration("elapsed", o.Duration),
	}
	switch o.Reason {
	case ReasonMatched:
		log.Debug("case passed", append(fields, logging.String("found", o.FoundCode), logging.String("match", string(o.MatchKind)))...)
	case ReasonServiceError:
		log.Warn("case errored", append(fields, logging.String("error", o.Error))...)
	default:
		log.Info("case failed", append(fields, logging.String("found", o.FoundCode))...)
	}
}

//Personal.AI order the ending
