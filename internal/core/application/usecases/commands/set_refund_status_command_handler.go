package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/services"
)

// SetRefundStatusCommandHandler records refund progress decided by an admin.
type SetRefundStatusCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewSetRefundStatusCommandHandler(uowFactory UoWFactory, env Env) SetRefundStatusCommandHandler {
	return SetRefundStatusCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "set_refund_status"),
	}
}

func (h *SetRefundStatusCommandHandler) Handle(ctx context.Context, cmd SetRefundStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutateOrder(ctx, h.uowFactory, "set_refund_status", cmd.OrderID(),
		func(_ context.Context, _ UoW, o *order.Order, now time.Time) error {
			if err := h.policy.Authorize(cmd.Actor(), services.CapSetRefundStatus, services.OrderRelationship(o)); err != nil {
				return err
			}
			return o.SetRefundStatus(cmd.Status(), cmd.Amount(), now)
		})
}
