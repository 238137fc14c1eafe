package commands

import (
	"errors"
	"strings"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var (
	ErrRejectAssignmentCommandIsNotConstructed = errors.New(
		"RejectAssignmentCommand must be created via NewRejectAssignmentCommand constructor",
	)
)

// RejectAssignmentCommand is the offered or accepted partner turning an
// order down. A reason is mandatory.
type RejectAssignmentCommand struct { //nolint:recvcheck //using for validation
	actor   actor.Actor
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

func NewRejectAssignmentCommand(a actor.Actor, orderID kernel.UUID, reason string) (RejectAssignmentCommand, error) {
	reason = strings.TrimSpace(reason)

	var reasonErr error
	if reason == "" {
		reasonErr = errs.NewValueIsRequiredError("rejectionReason")
	}
	if err := errors.Join(validateActor(a), orderID.Validate(), reasonErr); err != nil {
		return RejectAssignmentCommand{}, err
	}

	return RejectAssignmentCommand{
		actor:   a,
		orderID: orderID,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RejectAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRejectAssignmentCommandIsNotConstructed)
}

func (c RejectAssignmentCommand) Actor() actor.Actor {
	return c.actor
}

func (c RejectAssignmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RejectAssignmentCommand) Reason() string {
	return c.reason
}
