package commands

import (
	"errors"
	"strings"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var (
	ErrRequestReturnCommandIsNotConstructed = errors.New(
		"RequestReturnCommand must be created via NewRequestReturnCommand constructor",
	)
)

// RequestReturnCommand is a customer asking to send back part of a delivered
// order. Quantities are checked against the purchase by the order itself.
type RequestReturnCommand struct { //nolint:recvcheck //using for validation
	actor   actor.Actor
	orderID kernel.UUID
	reason  string
	items   []order.ReturnedItem

	guard guard.ConstructorGuard
}

func NewRequestReturnCommand(
	a actor.Actor,
	orderID kernel.UUID,
	reason string,
	items []order.ReturnedItem,
) (RequestReturnCommand, error) {
	reason = strings.TrimSpace(reason)

	errList := []error{validateActor(a), orderID.Validate()}
	if reason == "" {
		errList = append(errList, errs.NewValueIsRequiredError("returnReason"))
	}
	if len(items) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("returnItems"))
	}
	if err := errors.Join(errList...); err != nil {
		return RequestReturnCommand{}, err
	}

	return RequestReturnCommand{
		actor:   a,
		orderID: orderID,
		reason:  reason,
		items:   append([]order.ReturnedItem(nil), items...),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RequestReturnCommand) Validate() error {
	return c.guard.Validate(ErrRequestReturnCommandIsNotConstructed)
}

func (c RequestReturnCommand) Actor() actor.Actor {
	return c.actor
}

func (c RequestReturnCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RequestReturnCommand) Reason() string {
	return c.reason
}

func (c RequestReturnCommand) Items() []order.ReturnedItem {
	return append([]order.ReturnedItem(nil), c.items...)
}
