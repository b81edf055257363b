// Package metrics exposes Prometheus metrics of the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Исходы аутентификации
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder is what handlers and workers report to
type Recorder interface {
	RecordAuth(method, outcome string)
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordRevocation()
	RecordPruned(count int)
	RecordRevokedTokens(count int)
}

// Collector implements Recorder on top of Prometheus
type Collector struct {
	authAttempts    *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	revocations     prometheus.Counter
	pruned          prometheus.Counter
	revokedTokens   prometheus.Gauge
}

// NewCollector creates a Collector and registers it on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		authAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophtodo_auth_attempts_total",
			Help: "Authentication attempts by method and outcome",
		}, []string{"method", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophtodo_http_requests_total",
			Help: "HTTP requests by method, route pattern and status",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gophtodo_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		revocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gophtodo_tokens_revoked_total",
			Help: "Tokens revoked by logout",
		}),
		pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gophtodo_revoked_tokens_pruned_total",
			Help: "Expired revocation entries removed",
		}),
		revokedTokens: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gophtodo_revoked_tokens",
			Help: "Revocation entries currently stored",
		}),
	}

	reg.MustRegister(
		c.authAttempts,
		c.requests,
		c.requestDuration,
		c.revocations,
		c.pruned,
		c.revokedTokens,
	)

	return c
}

// RecordAuth counts an authentication attempt
func (c *Collector) RecordAuth(method, outcome string) {
	c.authAttempts.WithLabelValues(method, outcome).Inc()
}

// RecordRequest counts a served request and observes its latency
func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRevocation counts a logout
func (c *Collector) RecordRevocation() {
	c.revocations.Inc()
}

// RecordPruned adds the number of pruned revocation entries
func (c *Collector) RecordPruned(count int) {
	c.pruned.Add(float64(count))
}

// RecordRevokedTokens sets the number of stored revocation entries
func (c *Collector) RecordRevokedTokens(count int) {
	c.revokedTokens.Set(float64(count))
}

// Handler returns the scrape endpoint handler
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop discards everything. Used when metrics are disabled and in tests.
type Noop struct{}

func (Noop) RecordAuth(string, string)                        {}
func (Noop) RecordRequest(string, string, int, time.Duration) {}
func (Noop) RecordRevocation()                                {}
func (Noop) RecordPruned(int)                                 {}
func (Noop) RecordRevokedTokens(int)                          {}
