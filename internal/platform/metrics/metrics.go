// Package metrics exposes Prometheus instrumentation for rxgate.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rxgate/rxgate/pkg/apperror"
)

// Metrics holds the collectors rxgate records during request handling.
type Metrics struct {
	registry *prometheus.Registry

	HTTPDuration *prometheus.HistogramVec

	OrdersReceived     prometheus.Counter
	OrdersDeduplicated prometheus.Counter

	PrescriptionsSaved     prometheus.Counter
	PrescriptionsForwarded prometheus.Counter

	WebhookFailures *prometheus.CounterVec
}

// New creates a Metrics with its own registry so tests can run in parallel
// without collector collisions.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rxgate_http_request_duration_seconds",
			Help:    "HTTP request latency by method, path and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		OrdersReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rxgate_orders_received_total",
			Help: "Orders accepted through the intake endpoint.",
		}),
		OrdersDeduplicated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rxgate_orders_deduplicated_total",
			Help: "Intake submissions skipped because the order already existed.",
		}),
		PrescriptionsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rxgate_prescriptions_saved_total",
			Help: "Prescriptions persisted through the direct path.",
		}),
		PrescriptionsForwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rxgate_prescriptions_forwarded_total",
			Help: "Prescriptions handed to the forwarding webhook.",
		}),
		WebhookFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rxgate_webhook_failures_total",
			Help: "Failed outbound webhook calls by endpoint.",
		}, []string{"endpoint"}),
	}

	reg.MustRegister(
		m.HTTPDuration,
		m.OrdersReceived,
		m.OrdersDeduplicated,
		m.PrescriptionsSaved,
		m.PrescriptionsForwarded,
		m.WebhookFailures,
	)
	return m
}

// Middleware records request duration for every handled route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				status = apperror.StatusOf(err)
			}
			m.HTTPDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
			).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return echo.WrapHandler(h)
}
