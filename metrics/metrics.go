// Package metrics holds the Prometheus collectors of the service. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LoginAttemptsTotal   *prometheus.CounterVec
	TokenRefreshesTotal  *prometheus.CounterVec
	TokenRevocations     prometheus.Counter
	AuthRejectionsTotal  *prometheus.CounterVec
	RateLimitedTotal     prometheus.Counter
	UploadsTotal         *prometheus.CounterVec
	EventsPublishedTotal *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agriadmin_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agriadmin_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agriadmin_login_attempts_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		TokenRefreshesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agriadmin_token_refreshes_total",
				Help: "Refresh-token exchanges by outcome",
			},
			[]string{"outcome"},
		),
		TokenRevocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agriadmin_token_revocations_total",
			Help: "Tokens written to the revocation ledger",
		}),
		AuthRejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agriadmin_auth_rejections_total",
				Help: "Requests rejected by the access-control gate",
			},
			[]string{"reason"},
		),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agriadmin_rate_limited_total",
			Help: "Requests rejected by the login rate limiter",
		}),
		UploadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agriadmin_uploads_total",
				Help: "File uploads by outcome",
			},
			[]string{"outcome"},
		),
		EventsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agriadmin_events_published_total",
				Help: "Audit events by type and outcome",
			},
			[]string{"type", "outcome"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.LoginAttemptsTotal,
		m.TokenRefreshesTotal,
		m.TokenRevocations,
		m.AuthRejectionsTotal,
		m.RateLimitedTotal,
		m.UploadsTotal,
		m.EventsPublishedTotal,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Middleware records count and latency per route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Login(outcome string) {
	if m != nil {
		m.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Refresh(outcome string) {
	if m != nil {
		m.TokenRefreshesTotal.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Revoked() {
	if m != nil {
		m.TokenRevocations.Inc()
	}
}

func (m *Metrics) Rejected(reason string) {
	if m != nil {
		m.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) RateLimited() {
	if m != nil {
		m.RateLimitedTotal.Inc()
	}
}

func (m *Metrics) Upload(outcome string) {
	if m != nil {
		m.UploadsTotal.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Event(eventType, outcome string) {
	if m != nil {
		m.EventsPublishedTotal.WithLabelValues(eventType, outcome).Inc()
	}
}

// StatusClass is used as the outcome label for HTTP-driven counters.
func StatusClass(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "error"
	case status >= http.StatusBadRequest:
		return "rejected"
	default:
		return "ok"
	}
}
