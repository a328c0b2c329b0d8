package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "flightboard"

// Metrics holds the service's prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	responses        *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	batchSize        prometheus.Gauge
	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	tokenRefreshes   prometheus.Counter
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the collectors on reg
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		responses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Responses served by operation and data source",
		}, []string{"operation", "source"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Flight cache lookups by result",
		}, []string{"result"}),
		batchSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_batch_flights",
			Help:      "Number of flights in the most recently stored batch",
		}),
		providerRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Outbound provider requests by provider and outcome",
		}, []string{"provider", "outcome"}),
		providerLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Outbound provider request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		tokenRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_token_refreshes_total",
			Help:      "Fare provider access token exchanges",
		}),
	}
}

// Handler exposes the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveResponse counts a served response
func (m *Metrics) ObserveResponse(operation, source string) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(operation, source).Inc()
}

// ObserveCacheLookup counts a cache hit or miss
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// SetBatchSize records the size of the latest stored batch
func (m *Metrics) SetBatchSize(n int) {
	if m == nil {
		return
	}
	m.batchSize.Set(float64(n))
}

// ObserveProviderRequest records one outbound call
func (m *Metrics) ObserveProviderRequest(provider string, took time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.providerRequests.WithLabelValues(provider, outcome).Inc()
	m.providerLatency.WithLabelValues(provider).Observe(took.Seconds())
}

// ObserveTokenRefresh counts a token exchange
func (m *Metrics) ObserveTokenRefresh() {
	if m == nil {
		return
	}
	m.tokenRefreshes.Inc()
}
