package queries

import (
	"errors"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

var (
	ErrGetBranchOrdersQueryIsNotConstructed = errors.New(
		"GetBranchOrdersQuery must be created via NewGetBranchOrdersQuery constructor",
	)
)

// GetBranchOrdersQuery lists the orders a branch has been assigned, most
// recently updated first. An empty status filter matches every status.
//
// Example:
//
//	query, err := NewGetBranchOrdersQuery(manager, branchID,
//	    []order.Status{order.StatusShipped, order.StatusInTransit}, 0, 0)
type GetBranchOrdersQuery struct {
	actor    actor.Actor
	branchID kernel.UUID
	statuses []order.Status
	limit    int
	offset   int

	guard guard.ConstructorGuard
}

// NewGetBranchOrdersQuery builds the query. A zero limit selects DefaultPageSize.
func NewGetBranchOrdersQuery(
	a actor.Actor,
	branchID kernel.UUID,
	statuses []order.Status,
	limit, offset int,
) (GetBranchOrdersQuery, error) {
	errList := []error{branchID.Validate()}
	if err := a.Role.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("actor", err))
	}
	for _, s := range statuses {
		if err := s.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if limit < 0 || limit > MaxPageSize {
		errList = append(errList, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxPageSize))
	}
	if offset < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded"))
	}
	if err := errors.Join(errList...); err != nil {
		return GetBranchOrdersQuery{}, err
	}

	return GetBranchOrdersQuery{
		actor:    a,
		branchID: branchID,
		statuses: append([]order.Status(nil), statuses...),
		limit:    limit,
		offset:   offset,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetBranchOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetBranchOrdersQueryIsNotConstructed)
}

func (q GetBranchOrdersQuery) Actor() actor.Actor {
	return q.actor
}

func (q GetBranchOrdersQuery) BranchID() kernel.UUID {
	return q.branchID
}

func (q GetBranchOrdersQuery) Statuses() []order.Status {
	return append([]order.Status(nil), q.statuses...)
}

func (q GetBranchOrdersQuery) Limit() int {
	return q.limit
}

func (q GetBranchOrdersQuery) Offset() int {
	return q.offset
}
