package commands

import (
	"errors"
	"strings"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/guard"
)

var (
	ErrSetReturnApprovalCommandIsNotConstructed = errors.New(
		"SetReturnApprovalCommand must be created via NewSetReturnApprovalCommand constructor",
	)
)

// SetReturnApprovalCommand is an admin's decision on a return request.
type SetReturnApprovalCommand struct { //nolint:recvcheck //using for validation
	actor    actor.Actor
	orderID  kernel.UUID
	approved bool
	reason   string

	guard guard.ConstructorGuard
}

func NewSetReturnApprovalCommand(a actor.Actor, orderID kernel.UUID, approved bool, reason string) (SetReturnApprovalCommand, error) {
	if err := errors.Join(validateActor(a), orderID.Validate()); err != nil {
		return SetReturnApprovalCommand{}, err
	}

	return SetReturnApprovalCommand{
		actor:    a,
		orderID:  orderID,
		approved: approved,
		reason:   strings.TrimSpace(reason),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c SetReturnApprovalCommand) Validate() error {
	return c.guard.Validate(ErrSetReturnApprovalCommandIsNotConstructed)
}

func (c SetReturnApprovalCommand) Actor() actor.Actor {
	return c.actor
}

func (c SetReturnApprovalCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SetReturnApprovalCommand) Approved() bool {
	return c.approved
}

func (c SetReturnApprovalCommand) Reason() string {
	return c.reason
}
