package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/services"
)

// RejectAssignmentCommandHandler records a partner's refusal: the order is
// freed for a new offer and leaves the partner's current orders.
type RejectAssignmentCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewRejectAssignmentCommandHandler(uowFactory UoWFactory, env Env) RejectAssignmentCommandHandler {
	return RejectAssignmentCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "reject_assignment"),
	}
}

func (h *RejectAssignmentCommandHandler) Handle(ctx context.Context, cmd RejectAssignmentCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutateOrder(ctx, h.uowFactory, "reject_assignment", cmd.OrderID(),
		func(ctx context.Context, uow UoW, o *order.Order, now time.Time) error {
			if err := h.policy.Authorize(cmd.Actor(), services.CapRejectAssignment, services.OrderRelationship(o)); err != nil {
				return err
			}

			partnerRepo := uow.DeliveryPartnerRepository()
			p, err := partnerRepo.GetForUpdate(ctx, cmd.Actor().UserID)
			if err != nil {
				return err
			}

			if err = h.negotiator.Reject(o, p, cmd.Reason(), now); err != nil {
				return err
			}

			return partnerRepo.Update(ctx, p)
		})
}
