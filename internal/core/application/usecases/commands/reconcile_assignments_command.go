package commands

import (
	"errors"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/pkg/guard"
)

var (
	ErrReconcileAssignmentsCommandIsNotConstructed = errors.New(
		"ReconcileAssignmentsCommand must be created via NewReconcileAssignmentsCommand constructor",
	)
)

// ReconcileAssignmentsCommand repairs membership sets from the orders
// themselves: every partner's current orders and every branch's order list.
type ReconcileAssignmentsCommand struct { //nolint:recvcheck //using for validation
	actor actor.Actor

	guard guard.ConstructorGuard
}

func NewReconcileAssignmentsCommand(a actor.Actor) (ReconcileAssignmentsCommand, error) {
	if err := validateActor(a); err != nil {
		return ReconcileAssignmentsCommand{}, err
	}

	return ReconcileAssignmentsCommand{
		actor: a,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrReconcileAssignmentsCommandIsNotConstructed)
}

func (c ReconcileAssignmentsCommand) Actor() actor.Actor {
	return c.actor
}
