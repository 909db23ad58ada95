package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors for pipeline runs.
type Metrics struct {
	ordersProcessed *prometheus.CounterVec
	stageFailures   *prometheus.CounterVec
}

// NewMetrics creates and registers pipeline metrics under the namespace.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		ordersProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_processed_total",
				Help:      "Orders processed, labeled by validation status",
			},
			[]string{"status"},
		),
		stageFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_stage_failures_total",
				Help:      "Pipeline stage failures, labeled by stage",
			},
			[]string{"stage"},
		),
	}

	prometheus.MustRegister(m.ordersProcessed, m.stageFailures)
	return m
}

// OrderProcessed records one completed pipeline run.
func (m *Metrics) OrderProcessed(status string) {
	m.ordersProcessed.WithLabelValues(status).Inc()
}

// StageFailed records a failure in the named stage.
func (m *Metrics) StageFailed(stage string) {
	m.stageFailures.WithLabelValues(stage).Inc()
}
