// Package jobs provides scheduled background tasks for the logistics service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Every job runs its command as the system actor and never overlaps with its
// own previous pass.
//
// # Available Jobs
//
// 1. ReconciliationJob - rebuilds partner current-order sets and branch order
// lists from the orders (default every five minutes)
// 2. OfferExpiryJob - rejects offers left unanswered longer than OFFER_TIMEOUT
// (default every thirty seconds; only scheduled when OFFER_TIMEOUT is set)
//
// # Usage
//
//	jobManager := jobs.NewJobManager(&reconcileHandler, &expireOffersHandler, jobs.Schedules{
//		Reconcile:    "0 */5 * * * *",
//		OfferExpiry:  "*/30 * * * * *",
//		OfferTimeout: 10 * time.Minute,
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A failed pass is logged at error level and retried on the next tick
// - Failed job starts will stop any already running jobs
package jobs
