package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/services"
	"logistics/internal/pkg/errs"
)

// OfferToPartnerCommandHandler opens the negotiation between an order and a
// partner on its branch roster. The order, the partner's current orders and
// the assignment record are written in one transaction.
type OfferToPartnerCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewOfferToPartnerCommandHandler(uowFactory UoWFactory, env Env) OfferToPartnerCommandHandler {
	return OfferToPartnerCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "offer_to_partner"),
	}
}

func (h *OfferToPartnerCommandHandler) Handle(ctx context.Context, cmd OfferToPartnerCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutateOrder(ctx, h.uowFactory, "offer_to_partner", cmd.OrderID(),
		func(ctx context.Context, uow UoW, o *order.Order, now time.Time) error {
			if err := h.policy.Authorize(cmd.Actor(), services.CapOfferPartner, services.OrderRelationship(o)); err != nil {
				return err
			}
			if o.BranchID() == nil {
				return errs.NewValueIsRequiredErrorWithCause("branchID", errs.ErrObjectNotFound)
			}

			b, err := uow.BranchRepository().Get(ctx, *o.BranchID())
			if err != nil {
				return err
			}

			partnerRepo := uow.DeliveryPartnerRepository()
			p, err := partnerRepo.GetForUpdate(ctx, cmd.PartnerID())
			if err != nil {
				return err
			}

			if err = h.negotiator.Offer(o, b, p, now); err != nil {
				return err
			}

			return partnerRepo.Update(ctx, p)
		})
}
