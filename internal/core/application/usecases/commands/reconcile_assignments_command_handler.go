package commands

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"
)

// ReconcileReport summarizes one reconciliation pass.
type ReconcileReport struct {
	PartnersChecked      int
	PartnersRepaired     int
	BranchOrdersRelisted int
}

// ReconcileAssignmentsCommandHandler is the read-repair for memberships that a
// crash or a missing record left behind. Each partner and each branch is
// repaired in its own transaction; a failure is reported and the pass goes on.
type ReconcileAssignmentsCommandHandler struct {
	uowFactory UoWFactory
	base
}

func NewReconcileAssignmentsCommandHandler(uowFactory UoWFactory, env Env) ReconcileAssignmentsCommandHandler {
	return ReconcileAssignmentsCommandHandler{
		uowFactory: uowFactory,
		base:       newBase(env, "reconcile_assignments"),
	}
}

func (h *ReconcileAssignmentsCommandHandler) Handle(ctx context.Context, cmd ReconcileAssignmentsCommand) (ReconcileReport, error) {
	var report ReconcileReport

	if err := cmd.Validate(); err != nil {
		return report, err
	}
	if err := h.policy.Authorize(cmd.Actor(), services.CapReconcile, services.Relationship{}); err != nil {
		return report, h.rejected("reconcile_assignments", err)
	}

	reader := h.uowFactory.Create()

	partnerIDs, err := reader.DeliveryPartnerRepository().ListIDs(ctx)
	if err != nil {
		return report, err
	}

	var errList []error
	for _, id := range partnerIDs {
		if err = ctx.Err(); err != nil {
			return report, err
		}
		report.PartnersChecked++

		repaired, repairErr := h.repairPartner(ctx, id)
		if repairErr != nil {
			h.logger.WarnContext(ctx, "partner not reconciled", "partner_id", id.String(), "error", repairErr)
			errList = append(errList, repairErr)
			continue
		}
		if repaired {
			report.PartnersRepaired++
		}
	}

	unlisted, err := reader.OrderRepository().FindUnlistedBranchOrders(ctx)
	if err != nil {
		return report, errors.Join(append(errList, err)...)
	}

	for branchID, orderIDs := range groupByBranch(unlisted) {
		added, relistErr := h.relistBranchOrders(ctx, branchID, orderIDs)
		if relistErr != nil {
			h.logger.WarnContext(ctx, "branch not reconciled", "branch_id", branchID.String(), "error", relistErr)
			errList = append(errList, relistErr)
			continue
		}
		report.BranchOrdersRelisted += added
	}

	h.logger.InfoContext(ctx, "assignments reconciled",
		"partners_checked", report.PartnersChecked,
		"partners_repaired", report.PartnersRepaired,
		"branch_orders_relisted", report.BranchOrdersRelisted,
	)
	return report, errors.Join(errList...)
}

func (h *ReconcileAssignmentsCommandHandler) repairPartner(ctx context.Context, partnerID kernel.UUID) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	partnerRepo := uow.DeliveryPartnerRepository()
	p, err := partnerRepo.GetForUpdate(ctx, partnerID)
	if err != nil {
		return false, err
	}

	held, err := uow.OrderRepository().FindHeldBy(ctx, partnerID)
	if err != nil {
		return false, err
	}

	if !p.ReplaceCurrentOrders(held) {
		return false, nil
	}

	if err = partnerRepo.Update(ctx, p); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.logger.InfoContext(ctx, "partner current orders repaired",
		"partner_id", partnerID.String(), "current_orders", len(held))
	return true, nil
}

func (h *ReconcileAssignmentsCommandHandler) relistBranchOrders(ctx context.Context, branchID kernel.UUID, orderIDs []kernel.UUID) (int, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	branchRepo := uow.BranchRepository()
	b, err := branchRepo.GetForUpdate(ctx, branchID)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, id := range orderIDs {
		if b.AddOrder(id) {
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}

	if err = branchRepo.Update(ctx, b); err != nil {
		return 0, err
	}
	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return added, nil
}

func groupByBranch(assignments []ports.BranchAssignment) map[kernel.UUID][]kernel.UUID {
	grouped := make(map[kernel.UUID][]kernel.UUID)
	for _, a := range assignments {
		grouped[a.BranchID] = append(grouped[a.BranchID], a.OrderID)
	}
	return grouped
}
