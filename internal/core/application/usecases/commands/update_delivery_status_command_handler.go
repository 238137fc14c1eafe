package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/services"
)

// UpdateDeliveryStatusCommandHandler applies partner progress reports. At
// delivered and returned_to_branch it credits the partner's fee in the same
// transaction; the order's earning token makes a retried report harmless.
type UpdateDeliveryStatusCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewUpdateDeliveryStatusCommandHandler(uowFactory UoWFactory, env Env) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "update_delivery_status"),
	}
}

func (h *UpdateDeliveryStatusCommandHandler) Handle(ctx context.Context, cmd UpdateDeliveryStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var report services.StatusReport
	o, err := h.mutateOrder(ctx, h.uowFactory, "update_delivery_status", cmd.OrderID(),
		func(ctx context.Context, uow UoW, o *order.Order, now time.Time) error {
			if err := h.policy.Authorize(cmd.Actor(), services.CapUpdateDeliveryStatus, services.OrderRelationship(o)); err != nil {
				return err
			}

			partnerRepo := uow.DeliveryPartnerRepository()
			p, err := partnerRepo.GetForUpdate(ctx, cmd.Actor().UserID)
			if err != nil {
				return err
			}

			report, err = h.negotiator.ReportStatus(o, p, cmd.Status(), now, cmd.Location(), cmd.Notes())
			if err != nil {
				return err
			}

			return partnerRepo.Update(ctx, p)
		})
	if err != nil {
		return nil, err
	}

	if report.Credited > 0 {
		h.metrics.ObserveEarning(report.Earning, report.Credited)
		h.logger.InfoContext(ctx, "partner credited",
			"order_id", o.ID().String(),
			"partner_id", cmd.Actor().UserID.String(),
			"kind", string(report.Earning),
			"amount", report.Credited.String(),
		)
	}
	return o, nil
}
