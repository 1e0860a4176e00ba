package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	intentsTotal      *prometheus.CounterVec
	planErrors        *prometheus.CounterVec
	actionsPerIntent  *prometheus.HistogramVec
}

// NewMetrics registers the collectors on a private registry so that several
// servers can live in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		intentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codepay_intents_total",
			Help: "Intents by kind and lifecycle event.",
		}, []string{"kind", "event"}),
		planErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codepay_plan_errors_total",
			Help: "Intent plans rejected by kind.",
		}, []string{"kind"}),
		actionsPerIntent: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "codepay_intent_actions",
			Help:    "Number of actions in a planned intent.",
			Buckets: prometheus.LinearBuckets(1, 4, 10),
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.intentsTotal,
		m.planErrors,
		m.actionsPerIntent,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) observeActions(kind string, actions int) {
	m.actionsPerIntent.WithLabelValues(kind).Observe(float64(actions))
}

func (m *Metrics) observeEvent(kind, event string) {
	m.intentsTotal.WithLabelValues(kind, event).Inc()
}

func (m *Metrics) observePlanError(kind string) {
	m.planErrors.WithLabelValues(kind).Inc()
}
