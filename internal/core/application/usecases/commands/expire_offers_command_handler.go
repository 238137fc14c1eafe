package commands

import (
	"context"
	"errors"
	"time"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/partner"
	"logistics/internal/core/domain/services"
	"logistics/internal/pkg/errs"
)

// ExpireOffersCommandHandler returns stale offers to the branch. Each order is
// expired in its own transaction and re-checked under lock, so an offer
// accepted in the meantime is left alone.
type ExpireOffersCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewExpireOffersCommandHandler(uowFactory UoWFactory, env Env) ExpireOffersCommandHandler {
	return ExpireOffersCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "expire_offers"),
	}
}

// Handle returns the number of offers that expired.
func (h *ExpireOffersCommandHandler) Handle(ctx context.Context, cmd ExpireOffersCommand) (int, error) {
	const operation = "expire_offer"

	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	if err := h.policy.Authorize(cmd.Actor(), services.CapReconcile, services.Relationship{}); err != nil {
		return 0, h.rejected(operation, err)
	}

	deadline := h.now().Add(-cmd.Timeout())

	ids, err := h.uowFactory.Create().OrderRepository().FindOfferedBefore(ctx, deadline, cmd.Batch())
	if err != nil {
		return 0, err
	}

	expired := 0
	var errList []error
	for _, id := range ids {
		if err = ctx.Err(); err != nil {
			return expired, err
		}

		changed := false
		_, err = h.mutateOrder(ctx, h.uowFactory, operation, id,
			func(ctx context.Context, uow UoW, o *order.Order, now time.Time) error {
				partnerRepo := uow.DeliveryPartnerRepository()

				var holder *partner.DeliveryPartner
				if pid := o.Assignment().PartnerID; pid != nil {
					var getErr error
					holder, getErr = partnerRepo.GetForUpdate(ctx, *pid)
					if getErr != nil && !errors.Is(getErr, errs.ErrObjectNotFound) {
						return getErr
					}
				}

				ok, expireErr := h.negotiator.ExpireOffer(o, holder, deadline, now)
				if expireErr != nil {
					return expireErr
				}
				if !ok {
					return errUnchanged
				}
				changed = true

				if holder != nil {
					return partnerRepo.Update(ctx, holder)
				}
				return nil
			})
		if err != nil {
			h.logger.WarnContext(ctx, "offer not expired", "order_id", id.String(), "error", err)
			errList = append(errList, err)
			continue
		}
		if changed {
			expired++
		}
	}

	return expired, errors.Join(errList...)
}
