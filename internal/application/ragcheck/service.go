// Package ragcheck scores the engine's free-text chat answers by weighted
// keyword coverage against a small set of clinical questions.
package ragcheck

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/errors"
)

// DefaultThreshold is the minimum coverage percentage for a passing case.
const DefaultThreshold = 60.0

// Chatter sends one message to the chat endpoint and returns the reply.
type Chatter interface {
	Chat(ctx context.Context, message string) (string, error)
}

// ChatterFunc adapts a function to Chatter.
type ChatterFunc func(ctx context.Context, message string) (string, error)

func (f ChatterFunc) Chat(ctx context.Context, message string) (string, error) {
	return f(ctx, message)
}

// Result is the verdict for one case.
type Result struct {
	Case     Case          `json:"case"`
	Reply    string        `json:"reply,omitempty"`
	Score    float64       `json:"score"`
	Passed   bool          `json:"passed"`
	Found    []string      `json:"found"`
	Missing  []string      `json:"missing"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report aggregates a run.
type Report struct {
	Threshold float64  `json:"threshold"`
	Results   []Result `json:"results"`
	Passed    int      `json:"passed"`
	Failed    int      `json:"failed"`
}

// Verdict is nil when every case passed.
func (r *Report) Verdict() error {
	if r.Failed > 0 {
		return errors.Newf(errors.ErrCodeRAGCheckFailed, "%d of %d ragcheck cases failed", r.Failed, len(r.Results))
	}
	return nil
}

// Coverage computes the weighted share (0..100) of keywords contained in
// reply. Both sides are lowercased. An empty keyword list scores 0.
func Coverage(reply string, keywords []Keyword) (score float64, found, missing []string) {
	lower := strings.ToLower(reply)
	var total, hit float64
	found = []string{}
	missing = []string{}
	for _, k := range keywords {
		w := k.weight()
		total += w
		if strings.Contains(lower, strings.ToLower(k.Term)) {
			hit += w
			found = append(found, k.Term)
		} else {
			missing = append(missing, k.Term)
		}
	}
	if total == 0 {
		return 0, found, missing
	}
	return hit / total * 100, found, missing
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithThreshold sets the passing coverage; values outside (0, 100] are
// ignored.
func WithThreshold(t float64) Option {
	return func(s *Service) {
		if t > 0 && t <= 100 {
			s.threshold = t
		}
	}
}

// Service runs ragcheck cases sequentially.
type Service struct {
	chat      Chatter
	logger    logging.Logger
	threshold float64
}

func NewService(chat Chatter, opts ...Option) *Service {
	s := &Service{chat: chat, logger: logging.NewNopLogger(), threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Threshold returns the effective passing coverage.
func (s *Service) Threshold() float64 {
	return s.threshold
}

// Run evaluates every case. A chat failure fails that case only. A
// cancelled ctx stops the run and returns the partial report with ctx.Err().
func (s *Service) Run(ctx context.Context, cases []Case) (*Report, error) {
	rep := &Report{Threshold: s.threshold, Results: make([]Result, 0, len(cases))}
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		res := s.Evaluate(ctx, c)
		if res.Passed {
			rep.Passed++
		} else {
			rep.Failed++
		}
		rep.Results = append(rep.Results, res)
	}
	s.logger.Info("ragcheck finished",
		logging.Int("total", len(rep.Results)),
		logging.Int("passed", rep.Passed),
		logging.Int("failed", rep.Failed))
	return rep, nil
}

// Evaluate runs one case.
func (s *Service) Evaluate(ctx context.Context, c Case) Result {
	start := time.Now()
	reply, err := s.chat.Chat(ctx, c.Question)
	res := Result{Case: c, Duration: time.Since(start)}
	if err != nil {
		res.Error = err.Error()
		res.Missing = c.Terms()
		res.Found = []string{}
		s.logger.Warn("ragcheck case errored", logging.String("case", c.Name), logging.Err(err))
		return res
	}

	res.Reply = reply
	res.Score, res.Found, res.Missing = Coverage(reply, c.Keywords)
	res.Passed = res.Score >= s.threshold
	s.logger.Debug("ragcheck case scored",
		logging.String("case", c.Name),
		logging.String("score", fmt.Sprintf("%.0f%%", res.Score)),
		logging.Bool("passed", res.Passed))
	return res
}

//Personal.AI order the ending
