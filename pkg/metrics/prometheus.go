package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal  *prometheus.CounterVec
	cacheFailures *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	holdings      prometheus.Gauge
	currentValue  prometheus.Gauge
}

// New creates a recorder registered on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		fetchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpull_portfolio_fetches_total",
				Help: "Portfolio fetches by the source that served them",
			},
			[]string{"source"},
		),
		cacheFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpull_cache_failures_total",
				Help: "Swallowed cache failures by operation",
			},
			[]string{"op"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpull_errors_total",
				Help: "Errors propagated to callers by kind",
			},
			[]string{"kind"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpull_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		holdings: f.NewGauge(prometheus.GaugeOpts{
			Name: "stockpull_holdings",
			Help: "Number of holdings in the last loaded portfolio",
		}),
		currentValue: f.NewGauge(prometheus.GaugeOpts{
			Name: "stockpull_portfolio_current_value",
			Help: "Current value of the last loaded portfolio",
		}),
	}
}

// RecordFetch counts a fetch served from source.
func (r *Recorder) RecordFetch(source string) {
	r.fetchesTotal.WithLabelValues(source).Inc()
}

// RecordCacheFailure counts a cache failure that was not propagated.
func (r *Recorder) RecordCacheFailure(op string) {
	r.cacheFailures.WithLabelValues(op).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordPortfolio sets the portfolio gauges.
func (r *Recorder) RecordPortfolio(holdings int, currentValue float64) {
	r.holdings.Set(float64(holdings))
	r.currentValue.Set(currentValue)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordFetch(string) {}
func (Nop) RecordCacheFailure(string) {}
func (Nop) RecordError(string) {}
func (Nop) RecordLatency(string, float64) {}
func (Nop) RecordPortfolio(int, float64) {}
