package ports

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/order"
)

// OrderChangedTopic is the event name of OrderChangedEvent.
const OrderChangedTopic = "order.changed"

// OrderChangedEvent announces the state of an order after a committed change.
type OrderChangedEvent struct {
	OrderID               string    `json:"order_id"`
	Number                string    `json:"number"`
	Status                string    `json:"status"`
	Mode                  string    `json:"mode"`
	ReturnStatus          string    `json:"return_status,omitempty"`
	BranchID              string    `json:"branch_id,omitempty"`
	DeliveryPartnerID     string    `json:"delivery_partner_id,omitempty"`
	DeliveryPartnerStatus string    `json:"delivery_partner_status,omitempty"`
	Version               int64     `json:"version"`
	OccurredAt            time.Time `json:"occurred_at"`
}

// NewOrderChangedEvent builds the event of an order's current state.
func NewOrderChangedEvent(o *order.Order) OrderChangedEvent {
	e := OrderChangedEvent{
		OrderID:               o.ID().String(),
		Number:                o.Number(),
		Status:                string(o.Status()),
		Mode:                  string(o.Mode()),
		ReturnStatus:          string(o.ReturnStatus()),
		DeliveryPartnerStatus: string(o.DeliveryPartnerStatus()),
		Version:               o.Version(),
		OccurredAt:            o.UpdatedAt(),
	}
	if id := o.BranchID(); id != nil {
		e.BranchID = id.String()
	}
	if id := o.DeliveryPartnerID(); id != nil {
		e.DeliveryPartnerID = id.String()
	}
	return e
}

// OrderEventPublisher delivers order events to downstream consumers
// (notifications, analytics). Delivery is at-least-once from the publisher's
// point of view; consumers deduplicate by (order_id, version).
type OrderEventPublisher interface {
	PublishOrderChanged(ctx context.Context, events ...OrderChangedEvent) error
}
