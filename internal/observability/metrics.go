package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the application server.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec   // labels: path, status
	RequestDuration *prometheus.HistogramVec // labels: path
	AppMode         *prometheus.GaugeVec     // labels: mode={development,production}; 1 for the active mode
}

// NewMetrics creates and registers all server metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.AppMode,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forecast_app",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by path and status code.",
		}, []string{"path", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "forecast_app",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request handling duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}, []string{"path"}),
		AppMode: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "forecast_app",
			Name:      "mode",
			Help:      "1 for the active application mode, 0 otherwise.",
		}, []string{"mode"}),
	}
}
