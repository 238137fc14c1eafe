package ports

import (
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
)

// WorkflowMetrics receives counters of the fulfillment workflow.
type WorkflowMetrics interface {
	// ObserveTransition counts a committed operation and the status it left the order in.
	ObserveTransition(operation string, status order.Status)

	// ObserveRejection counts an operation refused with err.
	ObserveRejection(operation string, err error)

	// ObserveEarning counts a credited partner fee.
	ObserveEarning(kind order.EarningKind, amount kernel.Money)
}
