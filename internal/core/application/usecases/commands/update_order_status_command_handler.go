package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/services"
)

// UpdateOrderStatusCommandHandler applies admin-driven transitions.
type UpdateOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewUpdateOrderStatusCommandHandler(uowFactory UoWFactory, env Env) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "update_order_status"),
	}
}

func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutateOrder(ctx, h.uowFactory, "update_order_status", cmd.OrderID(),
		func(_ context.Context, _ UoW, o *order.Order, now time.Time) error {
			if err := h.policy.Authorize(cmd.Actor(), services.CapUpdateOrderStatus, services.OrderRelationship(o)); err != nil {
				return err
			}
			return o.UpdateStatus(cmd.Status(), now, cmd.Notes())
		})
}
