package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/services"
)

// CancelOrderCommandHandler cancels pending, processing or confirmed orders.
// Payment and refund are settled synchronously by the order.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory, env Env) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "cancel_order"),
	}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutateOrder(ctx, h.uowFactory, "cancel_order", cmd.OrderID(),
		func(_ context.Context, _ UoW, o *order.Order, now time.Time) error {
			if err := h.policy.Authorize(cmd.Actor(), services.CapCancelOrder, services.OrderRelationship(o)); err != nil {
				return err
			}
			return o.Cancel(now, cmd.Reason())
		})
}
