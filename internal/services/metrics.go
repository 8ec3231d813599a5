package services

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	UpstreamDuration *prometheus.HistogramVec
	UpstreamRequests *prometheus.CounterVec
	Verdicts         *prometheus.CounterVec
	PlanDuration     prometheus.Histogram
	HTTPRequests     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		UpstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fpl_helper_upstream_duration_seconds",
				Help:    "Duration of upstream provider calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"service", "endpoint"},
		),

		UpstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fpl_helper_upstream_requests_total",
				Help: "Upstream provider calls by response status",
			},
			[]string{"service", "endpoint", "status"},
		),

		Verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fpl_helper_plan_verdicts_total",
				Help: "Transfer plan verdicts issued",
			},
			[]string{"verdict"},
		),

		PlanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fpl_helper_plan_duration_seconds",
				Help:    "Time spent in the transfer search",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fpl_helper_http_requests_total",
				Help: "HTTP requests served by route and status",
			},
			[]string{"route", "status"},
		),
	}

	m.registry.MustRegister(
		m.UpstreamDuration,
		m.UpstreamRequests,
		m.Verdicts,
		m.PlanDuration,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveUpstream satisfies providers.Observer.
func (m *Metrics) ObserveUpstream(service, endpoint, status string, elapsed time.Duration) {
	m.UpstreamDuration.WithLabelValues(service, endpoint).Observe(elapsed.Seconds())
	m.UpstreamRequests.WithLabelValues(service, endpoint, status).Inc()
}

func (m *Metrics) ObserveVerdict(verdict string) {
	m.Verdicts.WithLabelValues(verdict).Inc()
}

func (m *Metrics) ObservePlan(elapsed time.Duration) {
	m.PlanDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRequest(route, status string) {
	m.HTTPRequests.WithLabelValues(route, status).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
