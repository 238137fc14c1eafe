package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// Schedules configures the background jobs. A zero OfferTimeout leaves the
// offer expiry job out.
type Schedules struct {
	Reconcile    string
	OfferExpiry  string
	OfferTimeout time.Duration
	OfferBatch   int
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	reconciliationJob *ReconciliationJob
	offerExpiryJob    *OfferExpiryJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	reconcileHandler ReconcileHandler,
	expireOffersHandler ExpireOffersHandler,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	jm := &JobManager{
		reconciliationJob: NewReconciliationJob(reconcileHandler, schedules.Reconcile, logger),
	}
	if schedules.OfferTimeout > 0 {
		jm.offerExpiryJob = NewOfferExpiryJob(expireOffersHandler, schedules.OfferExpiry,
			schedules.OfferTimeout, schedules.OfferBatch, logger)
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.reconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start reconciliation job: %w", err)
	}

	if jm.offerExpiryJob != nil {
		if err := jm.offerExpiryJob.Start(); err != nil {
			// Stop already started jobs if this one fails
			jm.reconciliationJob.Stop()
			return fmt.Errorf("failed to start offer expiry job: %w", err)
		}
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running passes.
func (jm *JobManager) StopAll() {
	if jm.offerExpiryJob != nil {
		jm.offerExpiryJob.Stop()
	}
	jm.reconciliationJob.Stop()
}
