package commands

import (
	"errors"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var (
	ErrOfferToPartnerCommandIsNotConstructed = errors.New(
		"OfferToPartnerCommand must be created via NewOfferToPartnerCommand constructor",
	)
)

// OfferToPartnerCommand proposes an order to a delivery partner of its branch.
type OfferToPartnerCommand struct { //nolint:recvcheck //using for validation
	actor     actor.Actor
	orderID   kernel.UUID
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewOfferToPartnerCommand(a actor.Actor, orderID, partnerID kernel.UUID) (OfferToPartnerCommand, error) {
	if err := errors.Join(
		validateActor(a),
		orderID.Validate(),
		requiredID("partnerID", partnerID),
	); err != nil {
		return OfferToPartnerCommand{}, err
	}

	return OfferToPartnerCommand{
		actor:     a,
		orderID:   orderID,
		partnerID: partnerID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c OfferToPartnerCommand) Validate() error {
	return c.guard.Validate(ErrOfferToPartnerCommandIsNotConstructed)
}

func (c OfferToPartnerCommand) Actor() actor.Actor {
	return c.actor
}

func (c OfferToPartnerCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c OfferToPartnerCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func requiredID(param string, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(param, err)
	}
	return nil
}
