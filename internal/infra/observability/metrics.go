// Package observability holds the Prometheus metrics of the API.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Cache names used as label values.
const (
	CacheSummaryHistory = "summary_history"
)

// Advice outcomes used as label values.
const (
	AdviceOutcomeSuccess     = "success"
	AdviceOutcomeError       = "error"
	AdviceOutcomeUnavailable = "unavailable"
)

// Metrics holds all Prometheus metrics of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Registry owns these metrics and backs the /metrics endpoint.
	Registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	adviceRequests  *prometheus.CounterVec
	adviceDuration  prometheus.Histogram
	tokensUsed      *prometheus.CounterVec
	expensesCreated prometheus.Counter
}

// NewMetrics creates a private registry and registers every metric in it, so
// repeated calls in tests never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_http_requests_total",
				Help: "Total HTTP requests by route and status.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spendwise_http_request_duration_seconds",
				Help:    "Duration of HTTP requests by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		adviceRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_advice_requests_total",
				Help: "Advice generator calls by outcome.",
			},
			[]string{"outcome"},
		),
		adviceDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spendwise_advice_duration_seconds",
				Help:    "Duration of advice generator calls.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20},
			},
		),
		tokensUsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_llm_tokens_total",
				Help: "Total LLM tokens consumed.",
			},
			[]string{"type"},
		),
		expensesCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "spendwise_expenses_created_total",
				Help: "Total expenses recorded.",
			},
		),
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// ObserveAdvice records one advice generator call.
func (m *Metrics) ObserveAdvice(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.adviceRequests.WithLabelValues(outcome).Inc()
	m.adviceDuration.Observe(d.Seconds())
}

// RecordTokens records prompt and completion token usage.
func (m *Metrics) RecordTokens(prompt, completion int) {
	if m == nil {
		return
	}
	m.tokensUsed.WithLabelValues("prompt").Add(float64(prompt))
	m.tokensUsed.WithLabelValues("completion").Add(float64(completion))
}

// IncrExpenseCreated increments the recorded-expense counter.
func (m *Metrics) IncrExpenseCreated() {
	if m == nil {
		return
	}
	m.expensesCreated.Inc()
}

// CacheHitRatio returns hits / (hits + misses) for the cache, or 0 before any lookup.
func (m *Metrics) CacheHitRatio(cache string) float64 {
	if m == nil {
		return 0
	}
	hits := getCounterValue(m.cacheHits, cache)
	misses := getCounterValue(m.cacheMisses, cache)
	if hits+misses == 0 {
		return 0
	}
	return hits / (hits + misses)
}

// getCounterValue extracts the current value of a CounterVec for a label.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
