package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of the report service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	reportsRendered    *prometheus.CounterVec
	renderFailures     *prometheus.CounterVec
	renderDuration     *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
}

// New creates the collectors on a dedicated registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		reportsRendered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sales_reports_rendered_total",
				Help: "Total number of reports rendered",
			},
			[]string{"format"},
		),
		renderFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sales_report_render_failures_total",
				Help: "Total number of reports that failed to render",
			},
			[]string{"format"},
		),
		renderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sales_report_render_duration_seconds",
				Help:    "Duration of report rendering in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"format"},
		),
		validationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sales_report_validation_failures_total",
				Help: "Total number of rejected report submissions",
			},
			[]string{"source"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sales_report_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// ObserveRender records the outcome of one render call.
func (m *Metrics) ObserveRender(format string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
	if err != nil {
		m.renderFailures.WithLabelValues(format).Inc()
		return
	}
	m.reportsRendered.WithLabelValues(format).Inc()
}

// ObserveValidationFailure records a rejected submission; source is form or
// api.
func (m *Metrics) ObserveValidationFailure(source string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(source).Inc()
}

// ObserveRequest records a served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
