// Package prometheus provides metrics registration and exposition for the
// SupplyGuard-Compliance platform.
package prometheus

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
)

// MetricsCollector defines the interface for metrics collection.  Components
// register their instruments through this interface so that tests can swap in
// a no-op implementation.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
}

// CounterVec wraps prometheus.CounterVec.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// Counter wraps prometheus.Counter.
type Counter interface {
	Inc()
	Add(delta float64)
}

// GaugeVec wraps prometheus.GaugeVec.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

// Gauge wraps prometheus.Gauge.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
}

// HistogramVec wraps prometheus.HistogramVec.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

// Histogram wraps prometheus.Histogram.
type Histogram interface {
	Observe(value float64)
}

// CollectorConfig holds configuration for the collector.
type CollectorConfig struct {
	Namespace            string
	EnableProcessMetrics bool
	EnableGoMetrics      bool
	ConstLabels          map[string]string
}

type prometheusCollector struct {
	registry *prometheus.Registry
	config   CollectorConfig
	mu       sync.Mutex
	logger   logging.Logger
}

// NewMetricsCollector creates a MetricsCollector backed by a dedicated
// prometheus registry.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("prometheus: namespace is required")
	}

	registry := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{
			Namespace: cfg.Namespace,
		}))
	}
	if cfg.EnableGoMetrics {
		registry.MustRegister(prometheus.NewGoCollector())
	}

	return &prometheusCollector{
		registry: registry,
		config:   cfg,
		logger:   logger,
	}, nil
}

type counterVec struct{ v *prometheus.CounterVec }

func (c counterVec) WithLabelValues(lvs ...string) Counter { return c.v.WithLabelValues(lvs...) }

type gaugeVec struct{ v *prometheus.GaugeVec }

func (g gaugeVec) WithLabelValues(lvs ...string) Gauge { return g.v.WithLabelValues(lvs...) }

type histogramVec struct{ v *prometheus.HistogramVec }

func (h histogramVec) WithLabelValues(lvs ...string) Histogram {
	return h.v.WithLabelValues(lvs...)
}

func (c *prometheusCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   c.config.Namespace,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
	}, labels)
	c.registry.MustRegister(v)
	return counterVec{v: v}
}

func (c *prometheusCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   c.config.Namespace,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
	}, labels)
	c.registry.MustRegister(v)
	return gaugeVec{v: v}
}

func (c *prometheusCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	v := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   c.config.Namespace,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: c.config.ConstLabels,
	}, labels)
	c.registry.MustRegister(v)
	return histogramVec{v: v}
}

func (c *prometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ─────────────────────────────────────────────────────────────────────────────
// Nop implementation for tests
// ─────────────────────────────────────────────────────────────────────────────

type nopCollector struct{}

type nopCounter struct{}

func (nopCounter) Inc()          {}
func (nopCounter) Add(_ float64) {}

type nopGauge struct{}

func (nopGauge) Set(_ float64) {}
func (nopGauge) Inc()          {}
func (nopGauge) Dec()          {}

type nopHistogram struct{}

func (nopHistogram) Observe(_ float64) {}

type nopCounterVec struct{}

func (nopCounterVec) WithLabelValues(_ ...string) Counter { return nopCounter{} }

type nopGaugeVec struct{}

func (nopGaugeVec) WithLabelValues(_ ...string) Gauge { return nopGauge{} }

type nopHistogramVec struct{}

func (nopHistogramVec) WithLabelValues(_ ...string) Histogram { return nopHistogram{} }

func (nopCollector) RegisterCounter(_, _ string, _ ...string) CounterVec { return nopCounterVec{} }
func (nopCollector) RegisterGauge(_, _ string, _ ...string) GaugeVec     { return nopGaugeVec{} }
func (nopCollector) RegisterHistogram(_, _ string, _ []float64, _ ...string) HistogramVec {
	return nopHistogramVec{}
}
func (nopCollector) Handler() http.Handler { return http.NotFoundHandler() }

// NewNopCollector returns a MetricsCollector that discards every observation.
func NewNopCollector() MetricsCollector { return nopCollector{} }
