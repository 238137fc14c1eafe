package order

import (
	"time"
)

// UpdateStatus applies an administrator-requested transition. Only the moves
// an administrator may request directly are accepted; cancellation is routed
// through Cancel so its payment side effects always apply.
//
// Parameters:
//   - next: requested status
//   - at: time of the change
//   - notes: free text stored on the tracking event
//
// Returns:
//   - InvalidTransitionError listing the statuses an administrator may request from the current one
func (o *Order) UpdateStatus(next Status, at time.Time, notes string) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if next == StatusCancelled {
		return o.Cancel(at, notes)
	}
	if err := o.status.checkAdminTransition(next); err != nil {
		return err
	}

	if next == StatusRefunded {
		o.paymentStatus = PaymentRefunded
	}
	o.transition(next, at, "", notes)
	return nil
}

// Cancel cancels an order that has not left the warehouse yet. The payment
// is refunded synchronously: paymentStatus becomes refunded and refundStatus
// processed.
//
// Returns:
//   - InvalidTransitionError unless the order is pending, processing or confirm
//
// Example:
//
//	if err := o.Cancel(time.Now(), "customer changed their mind"); err != nil {
//	    return err // shipped orders end up here
//	}
func (o *Order) Cancel(at time.Time, reason string) error {
	if !o.status.CanBeCancelled() {
		return o.status.transitionError(StatusCancelled)
	}

	o.paymentStatus = PaymentRefunded
	o.refundStatus = RefundProcessed
	o.transition(StatusCancelled, at, "", reason)
	return nil
}
