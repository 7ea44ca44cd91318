package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsLabelOperation = "operation"
	metricsLabelResult    = "result"
)

// MetricsCollector receives orchestrator observations.
type MetricsCollector interface {
	ObserveFetch(op string, d time.Duration, err error)
}

type PrometheusMetrics struct {
	FetchDuration *prometheus.HistogramVec
}

func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	return &PrometheusMetrics{
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "external_fetch_duration_seconds",
			Help:      "Wall-clock duration of external fan-out fetches.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 1.5, 2, 3, 5},
		}, []string{metricsLabelOperation, metricsLabelResult}),
	}
}

func (m *PrometheusMetrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.FetchDuration)
}

func (m *PrometheusMetrics) ObserveFetch(op string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.FetchDuration.WithLabelValues(op, result).Observe(d.Seconds())
}

type disabledMetrics struct{}

func (disabledMetrics) ObserveFetch(string, time.Duration, error) {}
