package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
)

// Env carries the collaborators shared by command handlers. Every field is
// optional: the zero Env uses the default policy and fee schedule, the
// 500 km branch radius, the system clock, no metrics and slog.Default().
type Env struct {
	Policy  services.AccessPolicy
	Locator services.BranchLocator
	Fees    services.FeeSchedule
	Clock   ports.Clock
	Metrics ports.WorkflowMetrics
	Logger  *slog.Logger
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type nopMetrics struct{}

func (nopMetrics) ObserveTransition(string, order.Status) {}

func (nopMetrics) ObserveRejection(string, error) {}

func (nopMetrics) ObserveEarning(order.EarningKind, kernel.Money) {}

// base is embedded by handlers and holds what Env resolves to.
type base struct {
	policy     services.AccessPolicy
	locator    services.BranchLocator
	negotiator services.AssignmentNegotiator
	earnings   services.EarningsCalculator
	clock      ports.Clock
	metrics    ports.WorkflowMetrics
	logger     *slog.Logger
}

func newBase(env Env, component string) base {
	b := base{
		policy:   env.Policy,
		locator:  env.Locator,
		earnings: services.NewEarningsCalculator(env.Fees),
		clock:    env.Clock,
		metrics:  env.Metrics,
		logger:   env.Logger,
	}
	b.negotiator = services.NewAssignmentNegotiator(b.earnings)
	if b.clock == nil {
		b.clock = systemClock{}
	}
	if b.metrics == nil {
		b.metrics = nopMetrics{}
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	b.logger = b.logger.With("component", component)
	return b
}

func (b base) now() time.Time {
	return b.clock.Now().UTC()
}

func (b base) rejected(operation string, err error) error {
	b.metrics.ObserveRejection(operation, err)
	return err
}

func (b base) committed(ctx context.Context, operation string, o *order.Order) {
	b.metrics.ObserveTransition(operation, o.Status())
	b.logger.InfoContext(ctx, operation,
		"order_id", o.ID().String(),
		"status", string(o.Status()),
		"mode", string(o.Mode()),
		"version", o.Version(),
	)
}

// errUnchanged is returned by an orderMutation that found nothing to do. The
// transaction is then rolled back and the order returned as loaded.
var errUnchanged = errors.New("order unchanged")

// orderMutation applies one operation to an order loaded under lock, together
// with any related aggregate it saves through uow.
type orderMutation func(ctx context.Context, uow UoW, o *order.Order, now time.Time) error

// mutateOrder runs apply inside a unit of work: it locks the order, applies the
// mutation, saves the order with its version check and commits.
func (b base) mutateOrder(
	ctx context.Context,
	factory UoWFactory,
	operation string,
	orderID kernel.UUID,
	apply orderMutation,
) (*order.Order, error) {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, b.rejected(operation, err)
	}

	if err = apply(ctx, uow, o, b.now()); err != nil {
		if errors.Is(err, errUnchanged) {
			return o, nil
		}
		return nil, b.rejected(operation, err)
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, b.rejected(operation, err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	b.committed(ctx, operation, o)
	return o, nil
}

func validateActor(a actor.Actor) error {
	if err := a.Role.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("actor", err)
	}
	return nil
}
