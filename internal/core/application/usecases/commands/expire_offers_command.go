package commands

import (
	"errors"
	"fmt"
	"time"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

// DefaultExpireOffersBatch bounds how many offers one ExpireOffers pass handles.
const DefaultExpireOffersBatch = 100

var (
	ErrExpireOffersCommandIsNotConstructed = errors.New(
		"ExpireOffersCommand must be created via NewExpireOffersCommand constructor",
	)
)

// ExpireOffersCommand rejects, on the offered partner's behalf, every offer
// left unanswered for longer than Timeout.
type ExpireOffersCommand struct { //nolint:recvcheck //using for validation
	actor   actor.Actor
	timeout time.Duration
	batch   int

	guard guard.ConstructorGuard
}

// NewExpireOffersCommand builds the command. A non-positive batch falls back
// to DefaultExpireOffersBatch.
func NewExpireOffersCommand(a actor.Actor, timeout time.Duration, batch int) (ExpireOffersCommand, error) {
	errList := []error{validateActor(a)}
	if timeout <= 0 {
		errList = append(errList,
			errs.NewValueIsInvalidErrorWithCause("offerTimeout", fmt.Errorf("%s is not positive", timeout)))
	}
	if err := errors.Join(errList...); err != nil {
		return ExpireOffersCommand{}, err
	}
	if batch <= 0 {
		batch = DefaultExpireOffersBatch
	}

	return ExpireOffersCommand{
		actor:   a,
		timeout: timeout,
		batch:   batch,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ExpireOffersCommand) Validate() error {
	return c.guard.Validate(ErrExpireOffersCommandIsNotConstructed)
}

func (c ExpireOffersCommand) Actor() actor.Actor {
	return c.actor
}

func (c ExpireOffersCommand) Timeout() time.Duration {
	return c.timeout
}

func (c ExpireOffersCommand) Batch() int {
	return c.batch
}
