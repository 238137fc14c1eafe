package queries

import (
	"errors"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var (
	ErrGetPartnerOrdersQueryIsNotConstructed = errors.New(
		"GetPartnerOrdersQuery must be created via NewGetPartnerOrdersQuery constructor",
	)
)

// GetPartnerOrdersQuery lists the orders a delivery partner currently holds.
type GetPartnerOrdersQuery struct {
	actor     actor.Actor
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetPartnerOrdersQuery(a actor.Actor, partnerID kernel.UUID) (GetPartnerOrdersQuery, error) {
	var actorErr error
	if err := a.Role.Validate(); err != nil {
		actorErr = errs.NewValueIsRequiredErrorWithCause("actor", err)
	}
	if err := errors.Join(actorErr, partnerID.Validate()); err != nil {
		return GetPartnerOrdersQuery{}, err
	}

	return GetPartnerOrdersQuery{
		actor:     a,
		partnerID: partnerID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetPartnerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPartnerOrdersQueryIsNotConstructed)
}

func (q GetPartnerOrdersQuery) Actor() actor.Actor {
	return q.actor
}

func (q GetPartnerOrdersQuery) PartnerID() kernel.UUID {
	return q.partnerID
}
