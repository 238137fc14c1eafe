package commands

import (
	"errors"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var (
	ErrAssignOrderToBranchCommandIsNotConstructed = errors.New(
		"AssignOrderToBranchCommand must be created via NewAssignOrderToBranchCommand constructor",
	)
)

// AssignOrderToBranchCommand routes an order to the nearest branch. Origin is
// the dispatcher's coordinate and is required for forward orders; return
// orders are matched on their shipping address and ignore it.
type AssignOrderToBranchCommand struct { //nolint:recvcheck //using for validation
	actor   actor.Actor
	orderID kernel.UUID
	origin  *kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewAssignOrderToBranchCommand(a actor.Actor, orderID kernel.UUID, origin *kernel.GeoPoint) (AssignOrderToBranchCommand, error) {
	cmd := AssignOrderToBranchCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		validateActor(a),
		orderID.Validate(),
		validateOrigin(origin),
	); err != nil {
		return AssignOrderToBranchCommand{}, err
	}

	cmd.actor = a
	cmd.orderID = orderID
	if origin != nil {
		o := *origin
		cmd.origin = &o
	}
	return cmd, nil
}

func (c AssignOrderToBranchCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderToBranchCommandIsNotConstructed)
}

func (c AssignOrderToBranchCommand) Actor() actor.Actor {
	return c.actor
}

func (c AssignOrderToBranchCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Origin returns the dispatcher's coordinate, nil when none was given.
func (c AssignOrderToBranchCommand) Origin() *kernel.GeoPoint {
	return c.origin
}

func validateOrigin(origin *kernel.GeoPoint) error {
	if origin == nil {
		return nil
	}
	if err := origin.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("origin", err)
	}
	return nil
}
