package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/services"
)

// SetReturnApprovalCommandHandler approves or rejects a pending return.
type SetReturnApprovalCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewSetReturnApprovalCommandHandler(uowFactory UoWFactory, env Env) SetReturnApprovalCommandHandler {
	return SetReturnApprovalCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "set_return_approval"),
	}
}

func (h *SetReturnApprovalCommandHandler) Handle(ctx context.Context, cmd SetReturnApprovalCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutateOrder(ctx, h.uowFactory, "set_return_approval", cmd.OrderID(),
		func(_ context.Context, _ UoW, o *order.Order, now time.Time) error {
			if err := h.policy.Authorize(cmd.Actor(), services.CapSetReturnApproval, services.OrderRelationship(o)); err != nil {
				return err
			}
			return o.SetReturnApproval(cmd.Approved(), cmd.Reason(), now)
		})
}
