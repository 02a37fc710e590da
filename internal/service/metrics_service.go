package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/openlearn-hub-api/internal/models"
)

// Submission outcomes used as metric labels.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	filterDuration  prometheus.Histogram
	filterResults   prometheus.Histogram
	submissions     *prometheus.CounterVec
	intakeQueued    prometheus.Gauge

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	filterCount          uint64
	filterDurationTotal  uint64
	acceptedCount        uint64
	rejectedCount        uint64
	queuedCount          int64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	filterDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_filter_duration_seconds",
		Help:    "Duration of catalog filter evaluations",
		Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
	})

	filterResults := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_filter_results",
		Help:    "Number of resources returned per filter evaluation",
		Buckets: prometheus.LinearBuckets(0, 5, 10),
	})

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "submissions_total",
		Help: "Contribution submissions by outcome and issue kind",
	}, []string{"outcome", "kind"})

	intakeQueued := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "submission_intake_pending",
		Help: "Accepted submissions waiting in the intake queue",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		filterDuration, filterResults, submissions, intakeQueued, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		filterDuration:  filterDuration,
		filterResults:   filterResults,
		submissions:     submissions,
		intakeQueued:    intakeQueued,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveFilter records one filter evaluation and the size of its result.
func (m *MetricsService) ObserveFilter(duration time.Duration, results int) {
	if m == nil {
		return
	}
	m.filterDuration.Observe(duration.Seconds())
	m.filterResults.Observe(float64(results))
	atomic.AddUint64(&m.filterCount, 1)
	atomic.AddUint64(&m.filterDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordSubmissionAccepted counts a submission that passed validation.
func (m *MetricsService) RecordSubmissionAccepted() {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(OutcomeAccepted, "").Inc()
	atomic.AddUint64(&m.acceptedCount, 1)
}

// RecordSubmissionRejected counts a rejected submission once per failing issue kind.
func (m *MetricsService) RecordSubmissionRejected(errs models.FieldErrors) {
	if m == nil {
		return
	}
	seen := make(map[models.IssueKind]struct{}, len(errs))
	for _, issue := range errs {
		if _, ok := seen[issue.Kind]; ok {
			continue
		}
		seen[issue.Kind] = struct{}{}
		m.submissions.WithLabelValues(OutcomeRejected, string(issue.Kind)).Inc()
	}
	atomic.AddUint64(&m.rejectedCount, 1)
}

// SetIntakeQueued publishes the current intake backlog.
func (m *MetricsService) SetIntakeQueued(pending int) {
	if m == nil {
		return
	}
	m.intakeQueued.Set(float64(pending))
	atomic.StoreInt64(&m.queuedCount, int64(pending))
}

// Snapshot returns aggregated metrics suitable for the stats endpoint.
func (m *MetricsService) Snapshot() models.ServiceStats {
	if m == nil {
		return models.ServiceStats{GeneratedAt: time.Now().UTC()}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	filters := atomic.LoadUint64(&m.filterCount)
	filterDuration := atomic.LoadUint64(&m.filterDurationTotal)

	var cacheRatio float64
	if totalLookups := hits + misses; totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgFilterMs float64
	if filters > 0 {
		avgFilterMs = float64(filterDuration) / float64(filters) / float64(time.Millisecond)
	}

	return models.ServiceStats{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		FilterEvaluations:        filters,
		AverageFilterDurationMs:  avgFilterMs,
		SubmissionsAccepted:      atomic.LoadUint64(&m.acceptedCount),
		SubmissionsRejected:      atomic.LoadUint64(&m.rejectedCount),
		SubmissionsQueued:        int(atomic.LoadInt64(&m.queuedCount)),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
