// metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomeHTTPError      = "http_error"
	OutcomeTransportError = "transport_error"
)

// Refresh outcomes.
const (
	RefreshSuccess = "success"
	RefreshFailure = "failure"
	RefreshSkipped = "skipped" // no refresh token stored
)

// Collector records client activity. All methods are safe on a nil *Collector,
// which is what the client uses when metrics are not configured.
type Collector struct {
	requests *prometheus.CounterVec
	refresh  *prometheus.CounterVec
	retries  prometheus.Counter
	duration *prometheus.HistogramVec
}

// NewCollector creates the client metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apiclient_requests_total",
				Help: "Total number of request attempts by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		refresh: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apiclient_token_refresh_total",
				Help: "Total number of access token refreshes by outcome",
			},
			[]string{"outcome"},
		),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "apiclient_retries_total",
			Help: "Total number of requests retried after a token refresh",
		}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "apiclient_request_duration_seconds",
				Help:    "Histogram of request attempt durations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	if reg != nil {
		for _, col := range []prometheus.Collector{c.requests, c.refresh, c.retries, c.duration} {
			if err := reg.Register(col); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// ObserveRequest records one attempt.
func (c *Collector) ObserveRequest(method, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(method, outcome).Inc()
	c.duration.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveRefresh records one refresh decision.
func (c *Collector) ObserveRefresh(outcome string) {
	if c == nil {
		return
	}
	c.refresh.WithLabelValues(outcome).Inc()
}

// ObserveRetry records a retry issued after a refresh.
func (c *Collector) ObserveRetry() {
	if c == nil {
		return
	}
	c.retries.Inc()
}
