package commands

import (
	"errors"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/guard"
)

var (
	ErrAddPartnerToBranchCommandIsNotConstructed = errors.New(
		"AddPartnerToBranchCommand must be created via NewAddPartnerToBranchCommand constructor",
	)
)

// AddPartnerToBranchCommand puts a partner on a branch roster. A partner
// moving from another branch leaves that branch's roster in the same
// transaction.
type AddPartnerToBranchCommand struct { //nolint:recvcheck //using for validation
	actor     actor.Actor
	branchID  kernel.UUID
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAddPartnerToBranchCommand(a actor.Actor, branchID, partnerID kernel.UUID) (AddPartnerToBranchCommand, error) {
	err := errors.Join(
		validateActor(a),
		requiredID("branchID", branchID),
		requiredID("partnerID", partnerID),
	)
	if err != nil {
		return AddPartnerToBranchCommand{}, err
	}

	return AddPartnerToBranchCommand{
		actor:     a,
		branchID:  branchID,
		partnerID: partnerID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AddPartnerToBranchCommand) Validate() error {
	return c.guard.Validate(ErrAddPartnerToBranchCommandIsNotConstructed)
}

func (c AddPartnerToBranchCommand) Actor() actor.Actor {
	return c.actor
}

func (c AddPartnerToBranchCommand) BranchID() kernel.UUID {
	return c.branchID
}

func (c AddPartnerToBranchCommand) PartnerID() kernel.UUID {
	return c.partnerID
}
