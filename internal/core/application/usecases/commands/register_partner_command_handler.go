package commands

import (
	"context"

	"logistics/internal/core/domain/model/partner"
	"logistics/internal/core/domain/services"
)

type RegisterPartnerCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewRegisterPartnerCommandHandler(uowFactory UoWFactory, env Env) RegisterPartnerCommandHandler {
	return RegisterPartnerCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "register_partner"),
	}
}

func (h *RegisterPartnerCommandHandler) Handle(ctx context.Context, cmd RegisterPartnerCommand) (*partner.DeliveryPartner, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := h.policy.Authorize(cmd.Actor(), services.CapManageNetwork, services.Relationship{}); err != nil {
		return nil, h.rejected("register_partner", err)
	}

	p, err := partner.NewDeliveryPartner(cmd.PartnerID(), cmd.Name())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DeliveryPartnerRepository().Add(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "delivery partner registered", "partner_id", p.ID().String())
	return p, nil
}
