// Package prometheus exposes DiagBench's evaluation metrics. Batch commands
// (generate, validate, ragcheck) push the registry to a Pushgateway when
// they finish; serve scrapes it at /metrics.
package prometheus

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/pkg/errors"
)

// MetricsCollector owns a private registry.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
	Gatherer() prometheus.Gatherer
	Push(ctx context.Context, url, job string) error
}

type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

type Counter interface {
	Inc()
	Add(delta float64)
}

type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

type Gauge interface {
	Set(value float64)
}

type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

type Histogram interface {
	Observe(value float64)
}

// CollectorConfig holds configuration for the collector.
type CollectorConfig struct {
	// Namespace prefixes every metric name ("diagbench_validation_cases_total").
	Namespace string
	// RuntimeMetrics adds the Go runtime and process collectors. Only the
	// long-running reference engine turns it on; pushed batch runs would
	// overwrite them with one-off values.
	RuntimeMetrics bool
}

type prometheusCollector struct {
	namespace string
	registry  *prometheus.Registry
	logger    logging.Logger

	mu     sync.Mutex
	byName map[string]prometheus.Collector
}

// NewMetricsCollector creates a collector with its own registry.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, errors.InvalidConfig("metrics namespace is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	registry := prometheus.NewRegistry()
	if cfg.RuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}),
		)
	}
	return &prometheusCollector{
		namespace: cfg.Namespace,
		registry:  registry,
		logger:    logger,
		byName:    make(map[string]prometheus.Collector),
	}, nil
}

func (c *prometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (c *prometheusCollector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// Push sends every registered metric to the Pushgateway at url, replacing the
// job's previous group. An empty url is a no-op.
func (c *prometheusCollector) Push(ctx context.Context, url, job string) error {
	if url == "" {
		return nil
	}
	start := time.Now()
	if err := push.New(url, job).Gatherer(c.registry).PushContext(ctx); err != nil {
		return errors.Wrapf(err, errors.ErrCodeExternalService, "push metrics to %s", url)
	}
	c.logger.Debug("metrics pushed",
		logging.String("pushgateway", url),
		logging.String("job", job),
		logging.Duration("elapsed", time.Since(start)))
	return nil
}

// register adds col under name, or returns the collector already there so
// that registering the same metric twice shares one series.
func (c *prometheusCollector) register(kind, name string, col prometheus.Collector) prometheus.Collector {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.byName[name]; ok {
		return existing
	}
	if err := c.registry.Register(col); err != nil {
		c.logger.Error("metric registration failed",
			logging.String("name", name), logging.String("kind", kind), logging.Err(err))
		return nil
	}
	c.byName[name] = col
	return col
}

func (c *prometheusCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	col := c.register("counter", name, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace, Name: name, Help: help,
	}, labels))
	if v, ok := col.(*prometheus.CounterVec); ok {
		return counterVec{v}
	}
	c.mismatch(name, "counter", col)
	return noopCounterVec{}
}

func (c *prometheusCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	col := c.register("gauge", name, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.namespace, Name: name, Help: help,
	}, labels))
	if v, ok := col.(*prometheus.GaugeVec); ok {
		return gaugeVec{v}
	}
	c.mismatch(name, "gauge", col)
	return noopGaugeVec{}
}

// RegisterHistogram uses prometheus.DefBuckets when buckets is nil.
func (c *prometheusCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	col := c.register("histogram", name, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace, Name: name, Help: help, Buckets: buckets,
	}, labels))
	if v, ok := col.(*prometheus.HistogramVec); ok {
		return histogramVec{v}
	}
	c.mismatch(name, "histogram", col)
	return noopHistogramVec{}
}

func (c *prometheusCollector) mismatch(name, want string, got prometheus.Collector) {
	if got == nil {
		return
	}
	c.logger.Warn("metric already registered with another type",
		logging.String("name", name), logging.String("want", want))
}

// ─────────────────────────────────────────────────────────────────────────────
// Wrappers
// ─────────────────────────────────────────────────────────────────────────────

type counterVec struct{ *prometheus.CounterVec }

func (v counterVec) WithLabelValues(lvs ...string) Counter {
	return v.CounterVec.WithLabelValues(lvs...)
}

type gaugeVec struct{ *prometheus.GaugeVec }

func (v gaugeVec) WithLabelValues(lvs ...string) Gauge { return v.GaugeVec.WithLabelValues(lvs...) }

type histogramVec struct{ *prometheus.HistogramVec }

func (v histogramVec) WithLabelValues(lvs ...string) Histogram {
	return v.HistogramVec.WithLabelValues(lvs...)
}

// The noop vectors stand in when registration fails so callers never nil-check.
type noopCounterVec struct{}

func (noopCounterVec) WithLabelValues(...string) Counter { return noopMetric{} }

type noopGaugeVec struct{}

func (noopGaugeVec) WithLabelValues(...string) Gauge { return noopMetric{} }

type noopHistogramVec struct{}

func (noopHistogramVec) WithLabelValues(...string) Histogram { return noopMetric{} }

type noopMetric struct{}

func (noopMetric) Inc()            {}
func (noopMetric) Add(float64)     {}
func (noopMetric) Set(float64)     {}
func (noopMetric) Observe(float64) {}

//Personal.AI order the ending
