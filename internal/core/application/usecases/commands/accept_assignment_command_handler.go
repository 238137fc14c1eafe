package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/services"
)

// AcceptAssignmentCommandHandler records the offered partner's acceptance.
// Only the partner named by the offer passes the access policy.
type AcceptAssignmentCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewAcceptAssignmentCommandHandler(uowFactory UoWFactory, env Env) AcceptAssignmentCommandHandler {
	return AcceptAssignmentCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "accept_assignment"),
	}
}

func (h *AcceptAssignmentCommandHandler) Handle(ctx context.Context, cmd AcceptAssignmentCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutateOrder(ctx, h.uowFactory, "accept_assignment", cmd.OrderID(),
		func(ctx context.Context, uow UoW, o *order.Order, now time.Time) error {
			if err := h.policy.Authorize(cmd.Actor(), services.CapAcceptAssignment, services.OrderRelationship(o)); err != nil {
				return err
			}

			partnerRepo := uow.DeliveryPartnerRepository()
			p, err := partnerRepo.GetForUpdate(ctx, cmd.Actor().UserID)
			if err != nil {
				return err
			}

			if err = h.negotiator.Accept(o, p, now); err != nil {
				return err
			}

			return partnerRepo.Update(ctx, p)
		})
}
