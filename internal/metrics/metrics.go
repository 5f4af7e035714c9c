// Package metrics exposes Prometheus instrumentation for the scoring engine
// and its HTTP surface. All methods are nil-receiver safe so instrumentation
// stays optional in tests and offline commands.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors on a private registry, keeping test
// processes from fighting over the global default registry.
type Metrics struct {
	registry *prometheus.Registry

	scoresTotal   *prometheus.CounterVec
	scoreDuration prometheus.Histogram
	weightUpdates prometheus.Counter
	auditsTotal   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		scoresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartrecruiter_scores_total",
			Help: "Candidate scorings performed, by judgment availability.",
		}, []string{"llm_available"}),
		scoreDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "smartrecruiter_score_duration_seconds",
			Help:    "Wall time of one candidate scoring, external calls included.",
			Buckets: prometheus.DefBuckets,
		}),
		weightUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smartrecruiter_weight_updates_total",
			Help: "Successful adaptive weight recalibrations.",
		}),
		auditsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartrecruiter_fairness_audits_total",
			Help: "Fairness audits performed, by bias outcome.",
		}, []string{"bias_detected"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartrecruiter_http_requests_total",
			Help: "HTTP requests served, by route and status class.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smartrecruiter_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.scoresTotal,
		m.scoreDuration,
		m.weightUpdates,
		m.auditsTotal,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Handler serves the metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveScore(d time.Duration, judgmentAvailable bool) {
	if m == nil {
		return
	}
	m.scoresTotal.WithLabelValues(strconv.FormatBool(judgmentAvailable)).Inc()
	m.scoreDuration.Observe(d.Seconds())
}

func (m *Metrics) WeightUpdated() {
	if m == nil {
		return
	}
	m.weightUpdates.Inc()
}

func (m *Metrics) ObserveAudit(biasDetected bool) {
	if m == nil {
		return
	}
	m.auditsTotal.WithLabelValues(strconv.FormatBool(biasDetected)).Inc()
}

func (m *Metrics) ObserveHTTP(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}
