package jobs

import (
	"context"
	"log/slog"
	"time"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/actor"

	"github.com/robfig/cron/v3"
)

// ExpireOffersHandler rejects stale offers.
type ExpireOffersHandler interface {
	Handle(ctx context.Context, cmd commands.ExpireOffersCommand) (int, error)
}

// OfferExpiryJob periodically rejects offers the partner left unanswered for
// longer than the offer timeout.
type OfferExpiryJob struct {
	handler  ExpireOffersHandler
	schedule string
	timeout  time.Duration
	batch    int
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewOfferExpiryJob(
	handler ExpireOffersHandler,
	schedule string,
	timeout time.Duration,
	batch int,
	logger *slog.Logger,
) *OfferExpiryJob {
	return &OfferExpiryJob{
		handler:  handler,
		schedule: schedule,
		timeout:  timeout,
		batch:    batch,
		cron:     newCron(),
		logger:   logger.With("component", "offer_expiry_job"),
	}
}

// Run performs a single pass as the system actor.
func (j *OfferExpiryJob) Run(ctx context.Context) {
	cmd, err := commands.NewExpireOffersCommand(actor.System(), j.timeout, j.batch)
	if err != nil {
		j.logger.ErrorContext(ctx, "Offer expiry command not built", "error", err)
		return
	}

	expired, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Offer expiry job failed", "expired", expired, "error", err)
		return
	}
	if expired > 0 {
		j.logger.InfoContext(ctx, "Offers expired", "count", expired, "timeout", j.timeout)
	}
}

func (j *OfferExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer expiry job started",
		"schedule", j.schedule,
		"timeout", j.timeout,
	)
	return nil
}

func (j *OfferExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Offer expiry job stopped")
}
