package jobs

import (
	"context"
	"log/slog"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/actor"

	"github.com/robfig/cron/v3"
)

// ReconcileHandler runs one reconciliation pass.
type ReconcileHandler interface {
	Handle(ctx context.Context, cmd commands.ReconcileAssignmentsCommand) (commands.ReconcileReport, error)
}

// ReconciliationJob periodically repairs partner and branch memberships from
// the orders themselves.
type ReconciliationJob struct {
	handler  ReconcileHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewReconciliationJob creates the job. schedule is a six-field cron
// expression with seconds.
func NewReconciliationJob(handler ReconcileHandler, schedule string, logger *slog.Logger) *ReconciliationJob {
	return &ReconciliationJob{
		handler:  handler,
		schedule: schedule,
		cron:     newCron(),
		logger:   logger.With("component", "reconciliation_job"),
	}
}

// Run performs a single pass as the system actor.
func (j *ReconciliationJob) Run(ctx context.Context) {
	cmd, err := commands.NewReconcileAssignmentsCommand(actor.System())
	if err != nil {
		j.logger.ErrorContext(ctx, "Reconciliation command not built", "error", err)
		return
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Reconciliation job failed",
			"partners_checked", report.PartnersChecked,
			"error", err,
		)
		return
	}

	if report.PartnersRepaired > 0 || report.BranchOrdersRelisted > 0 {
		j.logger.InfoContext(ctx, "Memberships repaired",
			"partners_checked", report.PartnersChecked,
			"partners_repaired", report.PartnersRepaired,
			"branch_orders_relisted", report.BranchOrdersRelisted,
		)
		return
	}
	j.logger.DebugContext(ctx, "Memberships consistent", "partners_checked", report.PartnersChecked)
}

// Start schedules the job.
func (j *ReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reconciliation job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running pass to finish.
func (j *ReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Reconciliation job stopped")
}

// newCron builds a scheduler with a seconds field that never overlaps passes.
func newCron() *cron.Cron {
	return cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}
