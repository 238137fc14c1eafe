package commands

import (
	"errors"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/guard"
)

var (
	ErrReassignPartnerCommandIsNotConstructed = errors.New(
		"ReassignPartnerCommand must be created via NewReassignPartnerCommand constructor",
	)
)

// ReassignPartnerCommand hands an order to another partner of its branch,
// whatever became of the previous offer.
type ReassignPartnerCommand struct { //nolint:recvcheck //using for validation
	actor        actor.Actor
	orderID      kernel.UUID
	newPartnerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReassignPartnerCommand(a actor.Actor, orderID, newPartnerID kernel.UUID) (ReassignPartnerCommand, error) {
	if err := errors.Join(
		validateActor(a),
		orderID.Validate(),
		requiredID("newPartnerID", newPartnerID),
	); err != nil {
		return ReassignPartnerCommand{}, err
	}

	return ReassignPartnerCommand{
		actor:        a,
		orderID:      orderID,
		newPartnerID: newPartnerID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c ReassignPartnerCommand) Validate() error {
	return c.guard.Validate(ErrReassignPartnerCommandIsNotConstructed)
}

func (c ReassignPartnerCommand) Actor() actor.Actor {
	return c.actor
}

func (c ReassignPartnerCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ReassignPartnerCommand) NewPartnerID() kernel.UUID {
	return c.newPartnerID
}
