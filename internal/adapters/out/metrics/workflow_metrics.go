// Package metrics exposes the fulfillment workflow as Prometheus collectors.
package metrics

import (
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics implements ports.WorkflowMetrics with Prometheus counters.
type WorkflowMetrics struct {
	transitions   *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	earnings      *prometheus.CounterVec
	earningsMinor *prometheus.CounterVec
}

// NewWorkflowMetrics creates the collectors and registers them with reg.
func NewWorkflowMetrics(reg prometheus.Registerer) (*WorkflowMetrics, error) {
	m := &WorkflowMetrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logistics_order_operations_total",
				Help: "Committed order operations by the status they left the order in.",
			},
			[]string{"operation", "status"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logistics_order_rejections_total",
				Help: "Order operations refused, by error kind.",
			},
			[]string{"operation", "kind"},
		),
		earnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logistics_partner_earnings_total",
				Help: "Partner fees credited.",
			},
			[]string{"kind"},
		),
		earningsMinor: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logistics_partner_earnings_minor_units_total",
				Help: "Sum of partner fees credited, in minor currency units.",
			},
			[]string{"kind"},
		),
	}

	for _, c := range []prometheus.Collector{m.transitions, m.rejections, m.earnings, m.earningsMinor} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *WorkflowMetrics) ObserveTransition(operation string, status order.Status) {
	m.transitions.WithLabelValues(operation, string(status)).Inc()
}

func (m *WorkflowMetrics) ObserveRejection(operation string, err error) {
	m.rejections.WithLabelValues(operation, errs.Kind(err)).Inc()
}

func (m *WorkflowMetrics) ObserveEarning(kind order.EarningKind, amount kernel.Money) {
	m.earnings.WithLabelValues(string(kind)).Inc()
	m.earningsMinor.WithLabelValues(string(kind)).Add(float64(amount))
}
