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
	ErrCreateBranchCommandIsNotConstructed = errors.New(
		"CreateBranchCommand must be created via NewCreateBranchCommand constructor",
	)
)

type CreateBranchCommand struct { //nolint:recvcheck //using for validation
	actor    actor.Actor
	branchID kernel.UUID
	name     string
	location kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewCreateBranchCommand(a actor.Actor, branchID kernel.UUID, name string, location kernel.GeoPoint) (CreateBranchCommand, error) {
	name = strings.TrimSpace(name)

	errList := []error{validateActor(a), branchID.Validate()}
	if name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if err := location.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(errList...); err != nil {
		return CreateBranchCommand{}, err
	}

	return CreateBranchCommand{
		actor:    a,
		branchID: branchID,
		name:     name,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CreateBranchCommand) Validate() error {
	return c.guard.Validate(ErrCreateBranchCommandIsNotConstructed)
}

func (c CreateBranchCommand) Actor() actor.Actor {
	return c.actor
}

func (c CreateBranchCommand) BranchID() kernel.UUID {
	return c.branchID
}

func (c CreateBranchCommand) Name() string {
	return c.name
}

func (c CreateBranchCommand) Location() kernel.GeoPoint {
	return c.location
}
