package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/services"
)

// RequestReturnCommandHandler switches a delivered order to the return track.
// Nothing is written when any returned line fails validation.
type RequestReturnCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewRequestReturnCommandHandler(uowFactory UoWFactory, env Env) RequestReturnCommandHandler {
	return RequestReturnCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "request_return"),
	}
}

func (h *RequestReturnCommandHandler) Handle(ctx context.Context, cmd RequestReturnCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutateOrder(ctx, h.uowFactory, "request_return", cmd.OrderID(),
		func(_ context.Context, _ UoW, o *order.Order, now time.Time) error {
			if err := h.policy.Authorize(cmd.Actor(), services.CapRequestReturn, services.OrderRelationship(o)); err != nil {
				return err
			}
			return o.RequestReturn(cmd.Reason(), cmd.Items(), now)
		})
}
