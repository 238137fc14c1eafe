package order

import (
	"fmt"
	"slices"

	"logistics/internal/pkg/errs"
)

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

func (m PaymentMethod) Validate() error {
	if m != PaymentCOD && m != PaymentOnline {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment method is invalid", fmt.Errorf("%q is not a valid payment method", string(m)))
	}
	return nil
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

func (s PaymentStatus) Validate() error {
	if !slices.Contains([]PaymentStatus{PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed}, s) {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment status is invalid", fmt.Errorf("%q is not a valid payment status", string(s)))
	}
	return nil
}

// RefundStatus tracks settlement of a return:
//
//	none ─> requested ─┬─> approved ─┬─> processed
//	                   │             └─> failed ─> approved
//	                   └─> failed
type RefundStatus string

const (
	RefundNone      RefundStatus = "none"
	RefundRequested RefundStatus = "requested"
	RefundApproved  RefundStatus = "approved"
	RefundProcessed RefundStatus = "processed"
	RefundFailed    RefundStatus = "failed"
)

var refundTransitions = map[RefundStatus][]RefundStatus{
	RefundNone:      {RefundRequested},
	RefundRequested: {RefundApproved, RefundFailed},
	RefundApproved:  {RefundProcessed, RefundFailed},
	RefundFailed:    {RefundApproved},
	RefundProcessed: {},
}

// ParseRefundStatus converts a wire value to a RefundStatus.
func ParseRefundStatus(s string) (RefundStatus, error) {
	status := RefundStatus(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

func (s RefundStatus) Validate() error {
	if _, ok := refundTransitions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"refund status is invalid", fmt.Errorf("%q is not a valid refund status", string(s)))
	}
	return nil
}

func (s RefundStatus) checkTransition(next RefundStatus) error {
	allowed := refundTransitions[s]
	if slices.Contains(allowed, next) {
		return nil
	}
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		names = append(names, string(a))
	}
	return errs.NewInvalidTransitionError("refund "+string(s), string(next), names)
}
