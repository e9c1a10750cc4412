package prometheus

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DiagBench/internal/application/ragcheck"
	"github.com/turtacn/DiagBench/internal/application/validation"
	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/errors"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "diagbench"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrape(t *testing.T, c MetricsCollector) string {
	t.Helper()
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestRegister_Idempotent(t *testing.T) {
	c := newTestCollector(t)
	a := c.RegisterCounter("things_total", "help", "kind")
	b := c.RegisterCounter("things_total", "help", "kind")
	a.WithLabelValues("x").Inc()
	b.WithLabelValues("x").Inc()

	n, err := testutil.GatherAndCount(c.Gatherer(), "diagbench_things_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, scrape(t, c), `diagbench_things_total{kind="x"} 2`)
}

func TestRegister_TypeMismatchIsNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("dup", "help")
	g := c.RegisterGauge("dup", "help")
	assert.NotPanics(t, func() { g.WithLabelValues().Set(3) })
}

func TestEvalMetrics_Generation(t *testing.T) {
	m := NewEvalMetrics(newTestCollector(t))
	m.RecordCorpusDocument("emitted")
	m.RecordCorpusDocument("emitted")
	m.RecordCorpusDocument("no_codes")
	m.RecordGeneratedCase("dictionary")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CorpusDocumentsTotal.(counterVec).CounterVec.WithLabelValues("emitted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GeneratedCasesTotal.(counterVec).CounterVec.WithLabelValues("dictionary")))
}

func TestEvalMetrics_ValidationObserver(t *testing.T) {
	c := newTestCollector(t)
	m := NewEvalMetrics(c)
	ctx := context.Background()

	outcomes := []validation.Outcome{
		{Matched: true, Reason: validation.ReasonMatched, Duration: 100 * time.Millisecond},
		{Reason: validation.ReasonCodeMismatch, Duration: 200 * time.Millisecond},
		{Reason: validation.ReasonServiceError},
	}
	for _, o := range outcomes {
		require.NoError(t, m.OnOutcome(ctx, "run-1", o))
	}
	rep := &validation.Report{Source: "test_set.jsonl", Outcomes: outcomes, Stats: validation.Tally(outcomes)}
	require.NoError(t, m.OnComplete(ctx, rep))

	cases := m.ValidationCasesTotal.(counterVec).CounterVec
	assert.Equal(t, 1.0, testutil.ToFloat64(cases.WithLabelValues("pass", "matched")))
	assert.Equal(t, 1.0, testutil.ToFloat64(cases.WithLabelValues("fail", "code_mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(cases.WithLabelValues("error", "service_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationRunsTotal.(counterVec).CounterVec.WithLabelValues("fail")))
	assert.InDelta(t, 1.0/3.0, testutil.ToFloat64(m.ValidationPassRate.(gaugeVec).GaugeVec.WithLabelValues("test_set.jsonl")), 1e-9)

	out := scrape(t, c)
	assert.Contains(t, out, "diagbench_diagnose_duration_seconds_count")
}

func TestEvalMetrics_EmptyRunLeavesRateUnset(t *testing.T) {
	c := newTestCollector(t)
	m := NewEvalMetrics(c)
	rep := &validation.Report{Source: "empty.jsonl", Stats: validation.Tally(nil)}
	require.NoError(t, m.OnComplete(context.Background(), rep))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationRunsTotal.(counterVec).CounterVec.WithLabelValues("empty")))
	assert.NotContains(t, scrape(t, c), `validation_pass_rate{`)
}

func TestEvalMetrics_RAGAndHTTP(t *testing.T) {
	m := NewEvalMetrics(newTestCollector(t))
	m.RecordRAGResult(ragcheck.Result{Case: ragcheck.Case{Name: "HELLP"}, Score: 80, Passed: true})
	m.RecordRAGResult(ragcheck.Result{Case: ragcheck.Case{Name: "ОНМК"}, Error: "timeout"})
	m.RecordHTTPRequest(http.MethodPost, "/api/diagnose", 200, 3*time.Millisecond)
	m.RecordCacheLookup(validation.LookupHit)

	rag := m.RAGCheckCasesTotal.(counterVec).CounterVec
	assert.Equal(t, 1.0, testutil.ToFloat64(rag.WithLabelValues("pass")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rag.WithLabelValues("error")))
	assert.Equal(t, 80.0, testutil.ToFloat64(m.RAGCheckScore.(gaugeVec).GaugeVec.WithLabelValues("HELLP")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.(counterVec).CounterVec.WithLabelValues("POST", "/api/diagnose", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResponseCacheTotal.(counterVec).CounterVec.WithLabelValues("hit")))
}

func TestPush(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestCollector(t)
	NewEvalMetrics(c).RecordGeneratedCase("section")

	require.NoError(t, c.Push(context.Background(), srv.URL, "diagbench"))
	assert.True(t, strings.HasPrefix(gotPath, "/metrics/job/diagbench"))
	assert.NotEmpty(t, gotBody)
}

func TestPush_EmptyURLIsNoop(t *testing.T) {
	assert.NoError(t, newTestCollector(t).Push(context.Background(), "", "job"))
}

func TestPush_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newTestCollector(t).Push(context.Background(), srv.URL, "diagbench")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExternalService))
}

func TestNewMetricsCollector_RuntimeMetrics(t *testing.T) {
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "diagbench", RuntimeMetrics: true}, nil)
	require.NoError(t, err)
	assert.Contains(t, scrape(t, c), "go_goroutines")

	assert.NotContains(t, scrape(t, newTestCollector(t)), "go_goroutines")
}

//Personal.AI order the ending
