// Package metrics exposes Prometheus collectors for the HTTP surface and the
// auto-rebalance sweep.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "better_wealth"

// Metrics owns a private registry so that tests can build as many instances
// as they like. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestCount    *prometheus.CounterVec

	sweepPortfolios *prometheus.CounterVec
	sweepOrders     prometheus.Counter
	sweepDuration   prometheus.Histogram
	sweepLastRun    prometheus.Gauge
}

// New creates the collectors and registers them together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"route", "method", "status"},
		),
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),

		sweepPortfolios: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "rebalance_sweep",
				Name:      "portfolios_total",
				Help:      "Portfolios handled by the auto-rebalance sweep, by outcome",
			},
			[]string{"outcome"},
		),
		sweepOrders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "rebalance_sweep",
			Name:      "orders_total",
			Help:      "Pending orders recorded by the auto-rebalance sweep",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "rebalance_sweep",
			Name:      "duration_seconds",
			Help:      "Duration of auto-rebalance sweeps",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		sweepLastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "rebalance_sweep",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last auto-rebalance sweep finished",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestDuration,
		m.requestCount,
		m.sweepPortfolios,
		m.sweepOrders,
		m.sweepDuration,
		m.sweepLastRun,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one served request. route is the matched route
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestCount.WithLabelValues(route, method, code).Inc()
	m.requestDuration.WithLabelValues(route, method, code).Observe(d.Seconds())
}

// SweepOutcome is what one sweep did.
type SweepOutcome struct {
	Rebalanced int
	Skipped    int
	Failed     int
	Orders     int
	Duration   time.Duration
	FinishedAt time.Time
}

// ObserveSweep records the outcome of one auto-rebalance sweep.
func (m *Metrics) ObserveSweep(o SweepOutcome) {
	if m == nil {
		return
	}
	m.sweepPortfolios.WithLabelValues("rebalanced").Add(float64(o.Rebalanced))
	m.sweepPortfolios.WithLabelValues("skipped").Add(float64(o.Skipped))
	m.sweepPortfolios.WithLabelValues("failed").Add(float64(o.Failed))
	m.sweepOrders.Add(float64(o.Orders))
	m.sweepDuration.Observe(o.Duration.Seconds())
	m.sweepLastRun.Set(float64(o.FinishedAt.Unix()))
}
