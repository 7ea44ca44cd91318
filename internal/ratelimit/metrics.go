package ratelimit

import "github.com/prometheus/client_golang/prometheus"

const metricsLabelDecision = "decision"

// MetricsCollector receives limiter observations.
type MetricsCollector interface {
	IncDecision(allowed bool)
	SetKeys(n int)
}

type PrometheusMetrics struct {
	Decisions *prometheus.CounterVec
	Keys      prometheus.Gauge
}

func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	return &PrometheusMetrics{
		Decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_decisions_total",
			Help:      "Number of rate limiter decisions by outcome.",
		}, []string{metricsLabelDecision}),
		Keys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limit_keys",
			Help:      "Number of client keys tracked by the rate limiter.",
		}),
	}
}

func (m *PrometheusMetrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.Decisions, m.Keys)
}

func (m *PrometheusMetrics) IncDecision(allowed bool) {
	val := "denied"
	if allowed {
		val = "allowed"
	}
	m.Decisions.WithLabelValues(val).Inc()
}

func (m *PrometheusMetrics) SetKeys(n int) { m.Keys.Set(float64(n)) }

type disabledMetrics struct{}

func (disabledMetrics) IncDecision(bool) {}
func (disabledMetrics) SetKeys(int)      {}
