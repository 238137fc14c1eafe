package commands

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/services"
)

// AssignOrderToBranchCommandHandler matches an order to the nearest branch
// within the locator radius and records the assignment on both sides.
//
// Flow:
//  1. lock the order and authorize the caller
//  2. pick the match point (origin or shipping coordinate)
//  3. fetch candidate branches inside the bounding box of the radius
//  4. bind the nearest one, then save the order and the branch
//
// Errors: ValueIsRequiredError without a usable coordinate,
// NoBranchAvailableError when nothing is in range, AlreadyAssignedError for a
// forward order that already has a branch.
type AssignOrderToBranchCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewAssignOrderToBranchCommandHandler(uowFactory UoWFactory, env Env) AssignOrderToBranchCommandHandler {
	return AssignOrderToBranchCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "assign_order_to_branch"),
	}
}

func (h *AssignOrderToBranchCommandHandler) Handle(ctx context.Context, cmd AssignOrderToBranchCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutateOrder(ctx, h.uowFactory, "assign_order_to_branch", cmd.OrderID(),
		func(ctx context.Context, uow UoW, o *order.Order, now time.Time) error {
			if err := h.policy.Authorize(cmd.Actor(), services.CapAssignBranch, services.OrderRelationship(o)); err != nil {
				return err
			}

			point, err := h.locator.MatchPoint(o, cmd.Origin())
			if err != nil {
				return err
			}

			box, err := point.BoundingBox(h.locator.RadiusKm())
			if err != nil {
				return err
			}

			branchRepo := uow.BranchRepository()
			candidates, err := branchRepo.FindWithin(ctx, box)
			if err != nil {
				return err
			}

			chosen, err := h.locator.Assign(o, point, candidates, now)
			if err != nil {
				return err
			}

			// Candidates were read without a lock; save the membership on a
			// locked copy so a concurrent roster change survives.
			b, err := branchRepo.GetForUpdate(ctx, chosen.ID())
			if err != nil {
				return err
			}
			b.AddOrder(o.ID())
			return branchRepo.Update(ctx, b)
		})
}
