package commands

import (
	"errors"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/guard"
)

var (
	ErrSetRefundStatusCommandIsNotConstructed = errors.New(
		"SetRefundStatusCommand must be created via NewSetRefundStatusCommand constructor",
	)
)

// SetRefundStatusCommand moves the refund of a returned order along
// requested → approved → processed | failed. Amount, when set, overrides the
// computed refund; the order checks its range.
type SetRefundStatusCommand struct { //nolint:recvcheck //using for validation
	actor   actor.Actor
	orderID kernel.UUID
	status  order.RefundStatus
	amount  *kernel.Money

	guard guard.ConstructorGuard
}

func NewSetRefundStatusCommand(
	a actor.Actor,
	orderID kernel.UUID,
	status order.RefundStatus,
	amount *kernel.Money,
) (SetRefundStatusCommand, error) {
	if err := errors.Join(validateActor(a), orderID.Validate(), status.Validate()); err != nil {
		return SetRefundStatusCommand{}, err
	}

	cmd := SetRefundStatusCommand{
		actor:   a,
		orderID: orderID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}
	if amount != nil {
		m := *amount
		cmd.amount = &m
	}
	return cmd, nil
}

func (c SetRefundStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetRefundStatusCommandIsNotConstructed)
}

func (c SetRefundStatusCommand) Actor() actor.Actor {
	return c.actor
}

func (c SetRefundStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SetRefundStatusCommand) Status() order.RefundStatus {
	return c.status
}

func (c SetRefundStatusCommand) Amount() *kernel.Money {
	return c.amount
}
