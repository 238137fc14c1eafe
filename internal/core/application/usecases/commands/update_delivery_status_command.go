package commands

import (
	"errors"
	"strings"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/guard"
)

var (
	ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
		"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor",
	)
)

// UpdateDeliveryStatusCommand is a progress report of the accepted partner.
// Location and notes are free text copied to the tracking event.
type UpdateDeliveryStatusCommand struct { //nolint:recvcheck //using for validation
	actor    actor.Actor
	orderID  kernel.UUID
	status   order.Status
	location string
	notes    string

	guard guard.ConstructorGuard
}

func NewUpdateDeliveryStatusCommand(
	a actor.Actor,
	orderID kernel.UUID,
	status order.Status,
	location, notes string,
) (UpdateDeliveryStatusCommand, error) {
	if err := errors.Join(validateActor(a), orderID.Validate(), status.Validate()); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}

	return UpdateDeliveryStatusCommand{
		actor:    a,
		orderID:  orderID,
		status:   status,
		location: strings.TrimSpace(location),
		notes:    strings.TrimSpace(notes),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStatusCommandIsNotConstructed)
}

func (c UpdateDeliveryStatusCommand) Actor() actor.Actor {
	return c.actor
}

func (c UpdateDeliveryStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateDeliveryStatusCommand) Status() order.Status {
	return c.status
}

func (c UpdateDeliveryStatusCommand) Location() string {
	return c.location
}

func (c UpdateDeliveryStatusCommand) Notes() string {
	return c.notes
}
