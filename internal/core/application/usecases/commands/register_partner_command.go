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
	ErrRegisterPartnerCommandIsNotConstructed = errors.New(
		"RegisterPartnerCommand must be created via NewRegisterPartnerCommand constructor",
	)
)

// RegisterPartnerCommand creates the delivery profile of a user. PartnerID is
// the user's id, the same one the partner later authenticates with.
type RegisterPartnerCommand struct { //nolint:recvcheck //using for validation
	actor     actor.Actor
	partnerID kernel.UUID
	name      string

	guard guard.ConstructorGuard
}

func NewRegisterPartnerCommand(a actor.Actor, partnerID kernel.UUID, name string) (RegisterPartnerCommand, error) {
	name = strings.TrimSpace(name)

	errList := []error{validateActor(a), partnerID.Validate()}
	if name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if err := errors.Join(errList...); err != nil {
		return RegisterPartnerCommand{}, err
	}

	return RegisterPartnerCommand{
		actor:     a,
		partnerID: partnerID,
		name:      name,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterPartnerCommand) Validate() error {
	return c.guard.Validate(ErrRegisterPartnerCommandIsNotConstructed)
}

func (c RegisterPartnerCommand) Actor() actor.Actor {
	return c.actor
}

func (c RegisterPartnerCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c RegisterPartnerCommand) Name() string {
	return c.name
}
