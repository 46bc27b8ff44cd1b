package monitoring

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/GriffinCanCode/webload/internal/browser"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	BytesTotal      *prometheus.CounterVec
	RedirectLimits  prometheus.Counter

	// Snapshot for summaries - track current values
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds running totals.
type Snapshot struct {
	TotalRequests int64
	TotalErrors   int64
	TotalBytes    int64
	TotalDuration float64
}

// NewMetrics creates a new metrics collector on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webload_requests_total",
				Help: "Total number of requests sent by browse sessions",
			},
			[]string{"kind", "method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webload_request_duration_seconds",
				Help:    "Request total time in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"kind"},
		),
		BytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webload_downloaded_bytes_total",
				Help: "Total response bytes downloaded",
			},
			[]string{"kind"},
		),
		RedirectLimits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "webload_redirect_limit_total",
				Help: "Number of redirect chains cut short by the redirect budget",
			},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records a browser event.
func (m *Metrics) Observe(e browser.Event) {
	if e.Kind == browser.EventRedirectLimit {
		m.RedirectLimits.Inc()
		return
	}

	kind := string(e.Kind)
	m.RequestsTotal.WithLabelValues(kind, e.Method, strconv.Itoa(e.Status)).Inc()
	m.RequestDuration.WithLabelValues(kind).Observe(e.Elapsed)
	m.BytesTotal.WithLabelValues(kind).Add(float64(e.Size))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalBytes += e.Size
	m.snapshot.TotalDuration += e.Elapsed
	if e.Status >= 400 {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// Snapshot returns the running totals.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// WriteTextfile writes all metrics in the Prometheus text format, atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

var _ browser.Observer = (*Metrics)(nil)
