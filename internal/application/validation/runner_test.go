package validation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/DiagBench/internal/domain/testset"
	"github.com/turtacn/DiagBench/internal/testutil"
	apperrors "github.com/turtacn/DiagBench/pkg/errors"
	"github.com/turtacn/DiagBench/pkg/types/diagnosis"
)

// ============================================================================
// Mocks
// ============================================================================

type mockDiagnoser struct {
	mock.Mock
}

func (m *mockDiagnoser) Diagnose(ctx context.Context, query string) ([]diagnosis.Candidate, error) {
	args := m.Called(ctx, query)
	var out []diagnosis.Candidate
	if v := args.Get(0); v != nil {
		out = v.([]diagnosis.Candidate)
	}
	return out, args.Error(1)
}

type recordingObserver struct {
	outcomes []Outcome
	report   *Report
	err      error
}

func (r *recordingObserver) OnOutcome(_ context.Context, _ string, o Outcome) error {
	r.outcomes = append(r.outcomes, o)
	return r.err
}

func (r *recordingObserver) OnComplete(_ context.Context, rep *Report) error {
	r.report = rep
	return r.err
}

func cand(code string, pct float64) diagnosis.Candidate {
	return diagnosis.Candidate{ICDCodes: []string{code}, Diagnosis: "dx " + code, LikelihoodPercent: pct}
}

// ============================================================================
// Suite
// ============================================================================

type RunnerSuite struct {
	suite.Suite
	diag *mockDiagnoser
	log  *testutil.MockLogger
	ctx  context.Context
}

func (s *RunnerSuite) SetupTest() {
	s.diag = &mockDiagnoser{}
	s.log = testutil.NewMockLogger()
	s.ctx = context.Background()
}

func (s *RunnerSuite) TearDownTest() {
	s.diag.AssertExpectations(s.T())
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerSuite))
}

func (s *RunnerSuite) TestExactAndCategoryMatches() {
	s.diag.On("Diagnose", mock.Anything, "q1").Return([]diagnosis.Candidate{cand("O14.2", 90)}, nil).Once()
	s.diag.On("Diagnose", mock.Anything, "q2").Return([]diagnosis.Candidate{cand("E78.0", 70), cand("E78.2", 20)}, nil).Once()

	rep, err := NewRunner(s.diag).Run(s.ctx, []testset.TestCase{
		{Query: "q1", GT: "O14.2"},
		{Query: "q2", GT: "E78.2"},
	})
	s.Require().NoError(err)

	s.Len(rep.Outcomes, 2)
	s.Equal(MatchExact, rep.Outcomes[0].MatchKind)
	s.Equal(MatchCategory, rep.Outcomes[1].MatchKind)
	s.Equal("E78.0", rep.Outcomes[1].FoundCode)
	s.Empty(rep.Outcomes[1].Alternatives)

	s.Equal(2, rep.Stats.Passed)
	s.Equal(1, rep.Stats.ExactMatches)
	s.Equal(1, rep.Stats.CategoryMatches)
	s.True(rep.Stats.RateDefined)
	s.InDelta(1.0, rep.Stats.Rate, 1e-9)
	s.NoError(rep.Verdict(true))
}

func (s *RunnerSuite) TestMismatchKeepsTopThree() {
	s.diag.On("Diagnose", mock.Anything, "q").Return([]diagnosis.Candidate{
		cand("I20", 60), cand("I25", 20), cand("I63", 10), cand("I21", 5),
	}, nil).Once()

	rep, err := NewRunner(s.diag).Run(s.ctx, []testset.TestCase{{Query: "q", GT: "I21"}})
	s.Require().NoError(err)

	o := rep.Outcomes[0]
	s.False(o.Matched)
	s.Equal(ReasonCodeMismatch, o.Reason)
	s.Equal("I20", o.FoundCode)
	s.Require().NotNil(o.Top)
	s.Equal(60.0, o.Top.LikelihoodPercent)
	s.Len(o.Alternatives, 3)
	s.Equal("I63", o.Alternatives[2].ICDCodes[0])
}

func (s *RunnerSuite) TestTopCandidateWithoutCodes() {
	s.diag.On("Diagnose", mock.Anything, "q").Return([]diagnosis.Candidate{{Diagnosis: "unknown"}}, nil).Once()

	rep, err := NewRunner(s.diag).Run(s.ctx, []testset.TestCase{{Query: "q", GT: "I21"}})
	s.Require().NoError(err)
	s.Equal(ReasonCodeMismatch, rep.Outcomes[0].Reason)
	s.Empty(rep.Outcomes[0].FoundCode)
}

func (s *RunnerSuite) TestNoDiagnoses() {
	s.diag.On("Diagnose", mock.Anything, "q").Return([]diagnosis.Candidate{}, nil).Once()

	rep, err := NewRunner(s.diag).Run(s.ctx, []testset.TestCase{{Query: "q", GT: "I21"}})
	s.Require().NoError(err)
	s.Equal(ReasonNoDiagnoses, rep.Outcomes[0].Reason)
	s.Nil(rep.Outcomes[0].Top)
	s.Equal(1, rep.Stats.ByReason[ReasonNoDiagnoses])
}

// Ten cases where the engine fails on two of them: the run continues and
// the rate is computed over all ten.
func (s *RunnerSuite) TestServiceErrorsDoNotAbortRun() {
	var cases []testset.TestCase
	for i := 0; i < 10; i++ {
		q := fmt.Sprintf("q%d", i)
		cases = append(cases, testset.TestCase{Query: q, GT: "I21"})
		switch i {
		case 3, 7:
			s.diag.On("Diagnose", mock.Anything, q).Return(nil, errors.New("connection refused")).Once()
		default:
			s.diag.On("Diagnose", mock.Anything, q).Return([]diagnosis.Candidate{cand("I21", 80)}, nil).Once()
		}
	}

	rep, err := NewRunner(s.diag, WithLogger(s.log)).Run(s.ctx, cases)
	s.Require().NoError(err)

	s.Equal(10, rep.Stats.Total)
	s.Equal(8, rep.Stats.Passed)
	s.Equal(2, rep.Stats.Failed)
	s.Equal(2, rep.Stats.ByReason[ReasonServiceError])
	s.InDelta(0.8, rep.Stats.Rate, 1e-9)
	s.Equal("connection refused", rep.Outcomes[3].Error)
	s.Equal(4, rep.Outcomes[3].Index)
	s.Len(s.log.Find("warn", "case errored"), 2)

	err = rep.Verdict(true)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeValidationFailed))
}

func (s *RunnerSuite) TestEmptyTestSet() {
	rep, err := NewRunner(s.diag).Run(s.ctx, nil)
	s.Require().NoError(err)

	s.Equal(0, rep.Stats.Total)
	s.False(rep.Stats.RateDefined)
	s.Zero(rep.Stats.Rate)
	s.NotNil(rep.Outcomes)

	s.True(apperrors.IsCode(rep.Verdict(true), apperrors.ErrCodeEmptyTestSet))
	s.NoError(rep.Verdict(false))
}

func (s *RunnerSuite) TestObserversSeeEveryOutcomeInOrder() {
	s.diag.On("Diagnose", mock.Anything, mock.Anything).Return([]diagnosis.Candidate{cand("I21", 80)}, nil).Times(3)
	obs := &recordingObserver{err: errors.New("broker down")}

	rep, err := NewRunner(s.diag, WithObserver(obs), WithLogger(s.log)).Run(s.ctx, []testset.TestCase{
		{Query: "a", GT: "I21"}, {Query: "b", GT: "I20"}, {Query: "c", GT: "I21"},
	})
	s.Require().NoError(err)

	s.Require().Len(obs.outcomes, 3)
	s.Equal([]int{1, 2, 3}, []int{obs.outcomes[0].Index, obs.outcomes[1].Index, obs.outcomes[2].Index})
	s.Same(rep, obs.report)
	s.Len(s.log.Find("warn", "outcome observer failed"), 3)
	s.True(s.log.HasMessage("warn", "completion observer failed"))
}

func (s *RunnerSuite) TestCancelledContextStopsRun() {
	ctx, cancel := context.WithCancel(s.ctx)
	s.diag.On("Diagnose", mock.Anything, "a").Run(func(mock.Arguments) { cancel() }).
		Return([]diagnosis.Candidate{cand("I21", 80)}, nil).Once()

	rep, err := NewRunner(s.diag).Run(ctx, []testset.TestCase{{Query: "a", GT: "I21"}, {Query: "b", GT: "I21"}})
	s.ErrorIs(err, context.Canceled)
	s.Require().NotNil(rep)
	s.Equal(1, rep.Stats.Total)
}

func (s *RunnerSuite) TestDurationsUseClock() {
	s.diag.On("Diagnose", mock.Anything, "q").Return([]diagnosis.Candidate{cand("I21", 80)}, nil).Once()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	rep, err := NewRunner(s.diag, WithClock(clock), WithEndpoint("http://engine/api/diagnose")).
		Run(s.ctx, []testset.TestCase{{Query: "q", GT: "I21"}})
	s.Require().NoError(err)
	s.Equal(time.Second, rep.Outcomes[0].Duration)
	s.True(rep.FinishedAt.After(rep.StartedAt))
	s.Equal("http://engine/api/diagnose", rep.Endpoint)
	s.NotEmpty(rep.RunID)
}

// ============================================================================
// Plain tests
// ============================================================================

type errSource struct{}

func (errSource) Next() (testset.TestCase, error) { return testset.TestCase{}, errors.New("disk") }

func TestRunSource_ReadError(t *testing.T) {
	r := NewRunner(DiagnoserFunc(func(context.Context, string) ([]diagnosis.Candidate, error) { return nil, nil }))
	rep, err := r.RunSource(context.Background(), "x.jsonl", errSource{})
	require.Error(t, err)
	assert.Equal(t, "x.jsonl", rep.Source)
	assert.Equal(t, 0, rep.Stats.Total)
}

func TestSliceSource(t *testing.T) {
	src := &sliceSource{cases: []testset.TestCase{{Query: "a"}}}
	tc, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", tc.Query)
	_, err = src.Next()
	assert.Equal(t, io.EOF, err)
}

func TestTally(t *testing.T) {
	s := Tally([]Outcome{
		{Matched: true, MatchKind: MatchExact, Reason: ReasonMatched},
		{Reason: ReasonCodeMismatch},
		{Reason: ReasonNoDiagnoses},
		{Matched: true, MatchKind: MatchCategory, Reason: ReasonMatched},
	})
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 2, s.Failed)
	assert.InDelta(t, 0.5, s.Rate, 1e-9)
	assert.Equal(t, map[Reason]int{ReasonMatched: 2, ReasonCodeMismatch: 1, ReasonNoDiagnoses: 1}, s.ByReason)
}

func TestObserverFuncs_NilFields(t *testing.T) {
	var f ObserverFuncs
	assert.NoError(t, f.OnOutcome(context.Background(), "r", Outcome{}))
	assert.NoError(t, f.OnComplete(context.Background(), &Report{}))
}

//Personal.AI order the ending
