package commands

import (
	"context"
	"errors"
	"slices"

	"logistics/internal/core/domain/model/branch"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
)

// AddPartnerToBranchCommandHandler keeps both sides of the affiliation in
// step: the partner's profile names the branch and the branch roster lists
// the partner. Moving a partner out of another branch requires managing that
// branch too.
type AddPartnerToBranchCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewAddPartnerToBranchCommandHandler(uowFactory UoWFactory, env Env) AddPartnerToBranchCommandHandler {
	return AddPartnerToBranchCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "add_partner_to_branch"),
	}
}

func (h *AddPartnerToBranchCommandHandler) Handle(ctx context.Context, cmd AddPartnerToBranchCommand) (*branch.Branch, error) {
	const operation = "add_partner_to_branch"

	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := h.authorizeRoster(cmd, cmd.BranchID()); err != nil {
		return nil, h.rejected(operation, err)
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	branchRepo := uow.BranchRepository()
	partnerRepo := uow.DeliveryPartnerRepository()

	p, err := partnerRepo.GetForUpdate(ctx, cmd.PartnerID())
	if err != nil {
		return nil, err
	}

	var previousID *kernel.UUID
	if current := p.BranchID(); current != nil && !current.IsEqual(cmd.BranchID()) {
		if err = h.authorizeRoster(cmd, *current); err != nil {
			return nil, h.rejected(operation, err)
		}
		previousID = current
	}

	b, previous, err := lockBranches(ctx, branchRepo, cmd.BranchID(), previousID)
	if err != nil {
		return nil, err
	}

	if _, err = p.JoinBranch(b.ID()); err != nil {
		return nil, h.rejected(operation, err)
	}

	if previousID != nil {
		switch {
		case previous == nil:
			h.logger.WarnContext(ctx, "previous branch of partner is missing",
				"partner_id", p.ID().String(), "branch_id", previousID.String())
		case previous.RemovePartner(p.ID()):
			if err = branchRepo.Update(ctx, previous); err != nil {
				return nil, err
			}
		}
	}

	b.AddPartner(p.ID())
	if err = branchRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	if err = partnerRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "partner joined branch",
		"partner_id", p.ID().String(),
		"branch_id", b.ID().String(),
	)
	return b, nil
}

// lockBranches locks the target branch and the partner's previous branch in id
// order. A previous branch that no longer exists is returned as nil.
func lockBranches(
	ctx context.Context,
	repo ports.BranchRepository,
	targetID kernel.UUID,
	previousID *kernel.UUID,
) (target, previous *branch.Branch, err error) {
	ids := []kernel.UUID{targetID}
	if previousID != nil {
		ids = append(ids, *previousID)
	}
	slices.SortFunc(ids, kernel.UUID.Compare)

	for _, id := range ids {
		b, getErr := repo.GetForUpdate(ctx, id)
		switch {
		case id.IsEqual(targetID):
			if getErr != nil {
				return nil, nil, getErr
			}
			target = b
		case errors.Is(getErr, errs.ErrObjectNotFound):
		case getErr != nil:
			return nil, nil, getErr
		default:
			previous = b
		}
	}
	return target, previous, nil
}

func (h *AddPartnerToBranchCommandHandler) authorizeRoster(cmd AddPartnerToBranchCommand, branchID kernel.UUID) error {
	return h.policy.Authorize(cmd.Actor(), services.CapManageRoster, services.Relationship{BranchID: &branchID})
}
