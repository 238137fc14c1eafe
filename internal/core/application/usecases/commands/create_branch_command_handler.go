package commands

import (
	"context"

	"logistics/internal/core/domain/model/branch"
	"logistics/internal/core/domain/services"
)

// CreateBranchCommandHandler registers a new dispatch branch.
type CreateBranchCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewCreateBranchCommandHandler(uowFactory UoWFactory, env Env) CreateBranchCommandHandler {
	return CreateBranchCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "create_branch"),
	}
}

func (h *CreateBranchCommandHandler) Handle(ctx context.Context, cmd CreateBranchCommand) (*branch.Branch, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := h.policy.Authorize(cmd.Actor(), services.CapManageNetwork, services.Relationship{}); err != nil {
		return nil, h.rejected("create_branch", err)
	}

	b, err := branch.NewBranch(cmd.BranchID(), cmd.Name(), cmd.Location())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.BranchRepository().Add(ctx, b); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "branch created", "branch_id", b.ID().String(), "location", b.Location().String())
	return b, nil
}
