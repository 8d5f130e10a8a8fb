package prometheus

// AppMetrics holds all application metrics for the compliance platform.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	// Entity resolution
	ResolutionsTotal      CounterVec // outcome: matched|suggested|created|conflict
	ResolutionConfidence  HistogramVec
	ResolutionDuration    HistogramVec
	CanonicalEntitiesTotal GaugeVec

	// Assessment
	AssessmentsTotal     CounterVec // verdict: PASS|CONDITIONAL|FAIL
	AssessmentDuration   HistogramVec
	AssessmentScore      HistogramVec
	SignalFailuresTotal  CounterVec // signal: sanctions|designation|media|graph

	// Graph
	GraphQueryDuration      HistogramVec
	GraphContribution       HistogramVec
	GraphWriteFailuresTotal CounterVec

	// Infrastructure
	DBQueryDuration      HistogramVec
	CacheHitsTotal       CounterVec
	CacheMissesTotal     CounterVec
	EventsPublishedTotal CounterVec
}

// Default buckets
var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultDBDurationBuckets   = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultScoreBuckets        = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
)

// NewAppMetrics registers all platform metrics on the given collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")

	m.ResolutionsTotal = collector.RegisterCounter("entity_resolutions_total", "Entity resolution outcomes", "outcome")
	m.ResolutionConfidence = collector.RegisterHistogram("entity_resolution_confidence", "Resolution confidence score", DefaultScoreBuckets, "outcome")
	m.ResolutionDuration = collector.RegisterHistogram("entity_resolution_duration_seconds", "Entity resolution duration", DefaultHTTPDurationBuckets)
	m.CanonicalEntitiesTotal = collector.RegisterGauge("canonical_entities_total", "Canonical entities in the corpus", "kind")

	m.AssessmentsTotal = collector.RegisterCounter("assessments_total", "Completed assessments", "verdict")
	m.AssessmentDuration = collector.RegisterHistogram("assessment_duration_seconds", "Assessment run duration", DefaultHTTPDurationBuckets)
	m.AssessmentScore = collector.RegisterHistogram("assessment_score", "Aggregate risk score", DefaultScoreBuckets)
	m.SignalFailuresTotal = collector.RegisterCounter("signal_failures_total", "Degraded (fail-open) signal producers", "signal")

	m.GraphQueryDuration = collector.RegisterHistogram("graph_query_duration_seconds", "Graph traversal duration", DefaultDBDurationBuckets, "query_type")
	m.GraphContribution = collector.RegisterHistogram("graph_risk_contribution", "Graph risk contribution", []float64{0, 10, 20, 30, 40, 50})
	m.GraphWriteFailuresTotal = collector.RegisterCounter("graph_write_failures_total", "Failed graph node/edge writes")

	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Relational query duration", DefaultDBDurationBuckets, "query_type")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Kafka events published", "topic", "status")

	return m
}

// NewNopAppMetrics returns AppMetrics wired to a discarding collector,
// for use in tests and in components constructed without monitoring.
func NewNopAppMetrics() *AppMetrics { return NewAppMetrics(NewNopCollector()) }
