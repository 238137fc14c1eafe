package commands

import (
	"context"
	"errors"
	"slices"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/partner"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
)

// ReassignPartnerCommandHandler moves an order from its current partner to a
// new one. The previous partner's record may be missing; the stale membership
// is then left to reconciliation.
type ReassignPartnerCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewReassignPartnerCommandHandler(uowFactory UoWFactory, env Env) ReassignPartnerCommandHandler {
	return ReassignPartnerCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "reassign_partner"),
	}
}

func (h *ReassignPartnerCommandHandler) Handle(ctx context.Context, cmd ReassignPartnerCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutateOrder(ctx, h.uowFactory, "reassign_partner", cmd.OrderID(),
		func(ctx context.Context, uow UoW, o *order.Order, now time.Time) error {
			if err := h.policy.Authorize(cmd.Actor(), services.CapReassignPartner, services.OrderRelationship(o)); err != nil {
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
			next, previous, err := lockPartners(ctx, partnerRepo, cmd.NewPartnerID(), o.DeliveryPartnerID())
			if err != nil {
				return err
			}

			if err = h.negotiator.Reassign(o, b, next, previous, now); err != nil {
				return err
			}

			if previous != nil {
				if err = partnerRepo.Update(ctx, previous); err != nil {
					return err
				}
			}
			return partnerRepo.Update(ctx, next)
		})
}

// lockPartners locks the incoming partner and the order's current holder, if
// any, in id order. A holder that no longer exists is returned as nil.
func lockPartners(
	ctx context.Context,
	repo ports.DeliveryPartnerRepository,
	nextID kernel.UUID,
	holderID *kernel.UUID,
) (next, holder *partner.DeliveryPartner, err error) {
	ids := []kernel.UUID{nextID}
	if holderID != nil && !holderID.IsEqual(nextID) {
		ids = append(ids, *holderID)
	}
	slices.SortFunc(ids, kernel.UUID.Compare)

	for _, id := range ids {
		p, getErr := repo.GetForUpdate(ctx, id)
		switch {
		case id.IsEqual(nextID):
			if getErr != nil {
				return nil, nil, getErr
			}
			next = p
		case errors.Is(getErr, errs.ErrObjectNotFound):
		case getErr != nil:
			return nil, nil, getErr
		default:
			holder = p
		}
	}
	return next, holder, nil
}
