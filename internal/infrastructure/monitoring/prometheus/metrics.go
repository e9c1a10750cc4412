package prometheus

import (
	"context"
	"strconv"
	"time"

	"github.com/turtacn/DiagBench/internal/application/ragcheck"
	"github.com/turtacn/DiagBench/internal/application/validation"
)

// EvalMetrics holds every DiagBench metric.
type EvalMetrics struct {
	// Generation
	CorpusDocumentsTotal CounterVec
	GeneratedCasesTotal  CounterVec

	// Validation
	ValidationCasesTotal CounterVec
	DiagnoseDuration     HistogramVec
	ValidationPassRate   GaugeVec
	ValidationRunsTotal  CounterVec
	ResponseCacheTotal   CounterVec

	// RAG check
	RAGCheckCasesTotal CounterVec
	RAGCheckScore      GaugeVec

	// Reference engine
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
}

var (
	DefaultDiagnoseDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120}
	DefaultHTTPDurationBuckets     = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25}
)

// NewEvalMetrics registers all metrics on c.
func NewEvalMetrics(c MetricsCollector) *EvalMetrics {
	return &EvalMetrics{
		CorpusDocumentsTotal: c.RegisterCounter("corpus_documents_total",
			"Corpus lines processed by generation, by outcome.", "status"),
		GeneratedCasesTotal: c.RegisterCounter("generated_cases_total",
			"Test cases emitted, by the extraction strategy that produced the query.", "strategy"),

		ValidationCasesTotal: c.RegisterCounter("validation_cases_total",
			"Validated test cases, by result and reason.", "result", "reason"),
		DiagnoseDuration: c.RegisterHistogram("diagnose_duration_seconds",
			"Latency of diagnosis calls made during validation.", DefaultDiagnoseDurationBuckets, "result"),
		ValidationPassRate: c.RegisterGauge("validation_pass_rate",
			"Fraction of test cases passed in the last run.", "source"),
		ValidationRunsTotal: c.RegisterCounter("validation_runs_total",
			"Completed validation runs, by verdict.", "verdict"),
		ResponseCacheTotal: c.RegisterCounter("response_cache_total",
			"Diagnosis response cache lookups, by result.", "result"),

		RAGCheckCasesTotal: c.RegisterCounter("ragcheck_cases_total",
			"Keyword-coverage cases evaluated, by result.", "result"),
		RAGCheckScore: c.RegisterGauge("ragcheck_score_percent",
			"Keyword coverage of the last reply per case.", "case"),

		HTTPRequestsTotal: c.RegisterCounter("http_requests_total",
			"Reference engine requests.", "method", "path", "status"),
		HTTPRequestDuration: c.RegisterHistogram("http_request_duration_seconds",
			"Reference engine request latency.", DefaultHTTPDurationBuckets, "method", "path"),
	}
}

// RecordCorpusDocument implements generation.Metrics.
func (m *EvalMetrics) RecordCorpusDocument(status string) {
	m.CorpusDocumentsTotal.WithLabelValues(status).Inc()
}

// RecordGeneratedCase implements generation.Metrics.
func (m *EvalMetrics) RecordGeneratedCase(strategy string) {
	m.GeneratedCasesTotal.WithLabelValues(strategy).Inc()
}

// RecordCacheLookup counts a response cache read; result is one of the
// validation.Lookup* values.
func (m *EvalMetrics) RecordCacheLookup(result string) {
	m.ResponseCacheTotal.WithLabelValues(result).Inc()
}

// RecordRAGResult counts one ragcheck case and keeps its score.
func (m *EvalMetrics) RecordRAGResult(r ragcheck.Result) {
	m.RAGCheckCasesTotal.WithLabelValues(resultLabel(r.Passed, r.Error != "")).Inc()
	m.RAGCheckScore.WithLabelValues(r.Case.Name).Set(r.Score)
}

// RecordHTTPRequest counts one reference engine request.
func (m *EvalMetrics) RecordHTTPRequest(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func resultLabel(passed, errored bool) string {
	switch {
	case errored:
		return "error"
	case passed:
		return "pass"
	default:
		return "fail"
	}
}

// ----------------------------------------------------------------------------
// validation.Observer
// ----------------------------------------------------------------------------

// OnOutcome counts the case and observes the call latency.
func (m *EvalMetrics) OnOutcome(_ context.Context, _ string, o validation.Outcome) error {
	result := resultLabel(o.Matched, o.Reason == validation.ReasonServiceError)
	m.ValidationCasesTotal.WithLabelValues(result, string(o.Reason)).Inc()
	m.DiagnoseDuration.WithLabelValues(result).Observe(o.Duration.Seconds())
	return nil
}

// OnComplete records the run verdict and, when defined, the pass rate.
func (m *EvalMetrics) OnComplete(_ context.Context, rep *validation.Report) error {
	verdict := "pass"
	switch {
	case rep.Stats.Total == 0:
		verdict = "empty"
	case rep.Stats.Failed > 0:
		verdict = "fail"
	}
	m.ValidationRunsTotal.WithLabelValues(verdict).Inc()
	if rep.Stats.RateDefined {
		m.ValidationPassRate.WithLabelValues(rep.Source).Set(rep.Stats.Rate)
	}
	return nil
}

var _ validation.Observer = (*EvalMetrics)(nil)

//Personal.AI order the ending
