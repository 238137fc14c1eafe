package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

var (
	returnable      = []Status{StatusDelivered, StatusCompleted}
	refundSettlable = []Status{StatusReturnedToBranch, StatusReturnProcessing, StatusRefundInitiated}
)

// RequestReturn opens the return track of a delivered or completed order.
// Every requested line must reference a purchased product, and the quantities
// requested per product must not exceed the purchased quantity. Nothing is
// changed unless the whole request is valid.
//
// Effect: mode becomes return, status return_requested, refundStatus
// requested and refundAmount the sum of quantity times effective price of the
// returned lines. The forward negotiation is cleared so the pickup is
// negotiated afresh.
//
// Returns:
//   - InvalidTransitionError unless the order is delivered or completed
//   - ValueIsRequiredError for a blank reason or an empty item list
//   - ObjectNotFoundError for a line that does not reference a purchased product
//   - ValueIsOutOfRangeError for a quantity that exceeds the purchase
func (o *Order) RequestReturn(reason string, items []ReturnedItem, at time.Time) error {
	if o.mode == ModeReturn || !slices.Contains(returnable, o.status) {
		return o.status.transitionError(StatusReturnRequested)
	}
	refund, err := o.validateReturn(strings.TrimSpace(reason), items)
	if err != nil {
		return err
	}

	o.mode = ModeReturn
	o.isReturnRequested = true
	o.returnReason = strings.TrimSpace(reason)
	o.returnedItems = append([]ReturnedItem(nil), items...)
	o.refundStatus = RefundRequested
	o.refundAmount = refund
	o.deliveryPartnerID = nil
	o.deliveryPartnerStatus = PartnerStatusNone
	o.assignment = newPendingAssignment()
	o.transition(StatusReturnRequested, at, "", o.returnReason)
	return nil
}

func (o *Order) validateReturn(reason string, items []ReturnedItem) (kernel.Money, error) {
	var errList []error
	if reason == "" {
		errList = append(errList, errs.NewValueIsRequiredError("returnReason"))
	}
	if len(items) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("returnItems"))
	}

	purchased := make(map[kernel.UUID]Item, len(o.items))
	for _, it := range o.items {
		if prev, ok := purchased[it.ProductID]; ok {
			it.Quantity += prev.Quantity
		}
		purchased[it.ProductID] = it
	}

	requested := make(map[kernel.UUID]int, len(items))
	var refund kernel.Money
	for _, ri := range items {
		line, ok := purchased[ri.ProductID]
		if !ok {
			errList = append(errList, errs.NewObjectNotFoundErrorWithCause(
				"returnItems.productId", ri.ProductID.String(), errors.New("product is not part of the order")))
			continue
		}
		if ri.Quantity <= 0 {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"returnItems.quantity", fmt.Errorf("%d is not greater than 0", ri.Quantity)))
			continue
		}
		requested[ri.ProductID] += ri.Quantity
		refund += line.EffectivePrice().Times(ri.Quantity)
	}
	for productID, qty := range requested {
		if limit := purchased[productID].Quantity; qty > limit {
			errList = append(errList, errs.NewValueIsOutOfRangeErrorWithCause(
				"returnItems.quantity", qty, 1, limit,
				fmt.Errorf("product %s was purchased %d times", productID, limit)))
		}
	}

	if err := errors.Join(errList...); err != nil {
		return 0, err
	}
	return refund, nil
}

// SetReturnApproval settles a return request. An approved request moves to
// return_approved and waits for pickup assignment; a rejected one moves to
// return_rejected and drops the pending refund.
//
// Returns:
//   - InvalidTransitionError unless the status is return_requested
func (o *Order) SetReturnApproval(approved bool, reason string, at time.Time) error {
	next := StatusReturnRejected
	if approved {
		next = StatusReturnApproved
	}
	if err := o.status.checkTransition(next); err != nil {
		return err
	}

	notes := strings.TrimSpace(reason)
	if !approved {
		o.refundStatus = RefundNone
		o.refundAmount = 0
		if notes == "" {
			notes = "return rejected"
		}
	} else if notes == "" {
		notes = "return approved"
	}
	o.transition(next, at, "", notes)
	return nil
}

// SetRefundStatus advances the refund of a returned order:
// requested -> approved -> processed, with failed reachable from requested or
// approved. The order must already be back at the branch.
//
//   - approved moves the order to refund_initiated
//   - processed sets refundProcessedAt, paymentStatus refunded and moves the
//     order to return_refunded
//   - failed keeps the status and records an event
//
// A non-nil amount overrides the computed refund and must lie in (0, Total].
func (o *Order) SetRefundStatus(next RefundStatus, amount *kernel.Money, at time.Time) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if o.mode != ModeReturn || !slices.Contains(refundSettlable, o.status) {
		return errs.NewInvalidTransitionError(o.status.String(), "refund "+string(next), statusStrings(o.status.Successors()))
	}
	if err := o.refundStatus.checkTransition(next); err != nil {
		return err
	}
	if amount != nil && (*amount <= 0 || *amount > o.Total()) {
		return errs.NewValueIsOutOfRangeError("refundAmount", amount.String(), "0.01", o.Total().String())
	}

	switch next {
	case RefundApproved:
		if o.status == StatusRefundInitiated {
			o.record(o.status, at, "", "refund approved")
			break
		}
		if err := o.status.checkTransition(StatusRefundInitiated); err != nil {
			return err
		}
		o.transition(StatusRefundInitiated, at, "", "refund approved")
	case RefundProcessed:
		if err := o.status.checkTransition(StatusReturnRefunded); err != nil {
			return err
		}
		processedAt := at
		o.refundProcessedAt = &processedAt
		o.paymentStatus = PaymentRefunded
		o.transition(StatusReturnRefunded, at, "", "refund processed")
	case RefundFailed:
		o.record(o.status, at, "", "refund failed")
	}

	o.refundStatus = next
	if amount != nil {
		o.refundAmount = *amount
	}
	return nil
}
