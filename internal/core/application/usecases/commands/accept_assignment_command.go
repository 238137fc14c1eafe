package commands

import (
	"errors"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/guard"
)

var (
	ErrAcceptAssignmentCommandIsNotConstructed = errors.New(
		"AcceptAssignmentCommand must be created via NewAcceptAssignmentCommand constructor",
	)
)

// AcceptAssignmentCommand is the offered partner accepting an order. The
// partner is the actor.
type AcceptAssignmentCommand struct { //nolint:recvcheck //using for validation
	actor   actor.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptAssignmentCommand(a actor.Actor, orderID kernel.UUID) (AcceptAssignmentCommand, error) {
	if err := errors.Join(validateActor(a), orderID.Validate()); err != nil {
		return AcceptAssignmentCommand{}, err
	}
	return AcceptAssignmentCommand{actor: a, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c AcceptAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrAcceptAssignmentCommandIsNotConstructed)
}

func (c AcceptAssignmentCommand) Actor() actor.Actor {
	return c.actor
}

func (c AcceptAssignmentCommand) OrderID() kernel.UUID {
	return c.orderID
}
