// Package metrics holds the Prometheus collectors of the topology service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "topograph"

// Collector owns its own registry so tests can create fresh instances.
type Collector struct {
	registry *prometheus.Registry

	Resolves            *prometheus.CounterVec
	UnresolvedBindings  *prometheus.CounterVec
	ViewActions         *prometheus.CounterVec
	ActiveSessions      prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		Resolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_total",
			Help:      "Topology graph resolutions by filter type",
		}, []string{"filter"}),
		UnresolvedBindings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_bindings_total",
			Help:      "Bindings dropped during resolution, by failing side",
		}, []string{"side"}),
		ViewActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_actions_total",
			Help:      "View actions applied to sessions",
		}, []string{"action"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of mounted viewer sessions",
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		c.Resolves,
		c.UnresolvedBindings,
		c.ViewActions,
		c.ActiveSessions,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveResolve(filter string, unresolvedBySide map[string]int) {
	c.Resolves.WithLabelValues(filter).Inc()
	for side, n := range unresolvedBySide {
		c.UnresolvedBindings.WithLabelValues(side).Add(float64(n))
	}
}

func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
