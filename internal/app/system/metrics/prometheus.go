// Package metrics exposes reconciliation and HTTP telemetry to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/reconcile"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records reconciler and HTTP metrics. It implements
// reconcile.Observer.
type Collector struct {
	reg       *prometheus.Registry
	namespace string
	once      sync.Once

	reconcileRuns     *prometheus.CounterVec
	reconcileDuration prometheus.Histogram
	batchRequests     *prometheus.CounterVec
	batchSize         *prometheus.HistogramVec
	notifications     *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

var _ reconcile.Observer = (*Collector)(nil)

// New creates a Collector.
//
// Parameters:
//   - reg: registry to register on (a fresh registry is created if nil)
//   - namespace: metrics namespace (defaults to "volunteerhub" if empty)
func New(reg *prometheus.Registry, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "volunteerhub"
	}
	return &Collector{reg: reg, namespace: namespace}
}

func (c *Collector) ensureRegistered() {
	c.once.Do(func() {
		c.reconcileRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.namespace,
			Subsystem: "reconcile",
			Name:      "runs_total",
			Help:      "Reconciliation runs by outcome (unchanged, committed, or error kind).",
		}, []string{"outcome"})

		c.reconcileDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: c.namespace,
			Subsystem: "reconcile",
			Name:      "duration_seconds",
			Help:      "Wall time of reconciliation runs in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms .. ~2.5s
		})

		c.batchRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.namespace,
			Subsystem: "reconcile",
			Name:      "batches_total",
			Help:      "Assign/unassign batches sent, by action and result (success|failure).",
		}, []string{"action", "result"})

		c.batchSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: c.namespace,
			Subsystem: "reconcile",
			Name:      "batch_size",
			Help:      "Number of volunteers per batch by action.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}, []string{"action"})

		c.notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.namespace,
			Subsystem: "notifications",
			Name:      "created_total",
			Help:      "Notifications created by type.",
		}, []string{"type"})

		c.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"})

		c.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: c.namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"})

		c.reg.MustRegister(c.reconcileRuns)
		c.reg.MustRegister(c.reconcileDuration)
		c.reg.MustRegister(c.batchRequests)
		c.reg.MustRegister(c.batchSize)
		c.reg.MustRegister(c.notifications)
		c.reg.MustRegister(c.httpRequests)
		c.reg.MustRegister(c.httpDuration)
	})
}

// ReconcileFinished records one reconciliation run.
func (c *Collector) ReconcileFinished(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.ensureRegistered()
	c.reconcileRuns.WithLabelValues(outcome).Inc()
	c.reconcileDuration.Observe(elapsed.Seconds())
}

// BatchApplied records one assign or unassign batch.
func (c *Collector) BatchApplied(action string, size int, err error) {
	if c == nil {
		return
	}
	c.ensureRegistered()
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.batchRequests.WithLabelValues(action, result).Inc()
	c.batchSize.WithLabelValues(action).Observe(float64(size))
}

// NotificationsCreated adds n to the created counter for typ. A nil
// Collector records nothing.
func (c *Collector) NotificationsCreated(typ string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.ensureRegistered()
	c.notifications.WithLabelValues(typ).Add(float64(n))
}

// Middleware counts requests by chi route pattern. Unmatched routes are
// labelled "unmatched" to keep label cardinality bounded.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	c.ensureRegistered()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		c.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	c.ensureRegistered()
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
