package order

import (
	"fmt"
	"slices"

	"logistics/internal/pkg/errs"
)

// DeliveryPartnerStatus is the partner-facing sub-status of an order. It is
// distinct from Status: it follows what the partner holding the order has
// reported.
type DeliveryPartnerStatus string

const (
	PartnerStatusNone              DeliveryPartnerStatus = ""
	PartnerStatusAssigned          DeliveryPartnerStatus = "assigned"
	PartnerStatusAccepted          DeliveryPartnerStatus = "accepted"
	PartnerStatusPickedUp          DeliveryPartnerStatus = "picked_up"
	PartnerStatusInTransit         DeliveryPartnerStatus = "in_transit"
	PartnerStatusDelivered         DeliveryPartnerStatus = "delivered"
	PartnerStatusFailedDelivery    DeliveryPartnerStatus = "failed_delivery"
	PartnerStatusPickedUpForReturn DeliveryPartnerStatus = "picked_up_for_return"
	PartnerStatusInTransitToBranch DeliveryPartnerStatus = "in_transit_to_branch"
	PartnerStatusReturnedToBranch  DeliveryPartnerStatus = "returned_to_branch"
	PartnerStatusPickupFailed      DeliveryPartnerStatus = "pickup_failed"
)

var partnerStatuses = []DeliveryPartnerStatus{
	PartnerStatusNone, PartnerStatusAssigned, PartnerStatusAccepted, PartnerStatusPickedUp,
	PartnerStatusInTransit, PartnerStatusDelivered, PartnerStatusFailedDelivery,
	PartnerStatusPickedUpForReturn, PartnerStatusInTransitToBranch, PartnerStatusReturnedToBranch,
	PartnerStatusPickupFailed,
}

var terminalPartnerStatuses = []DeliveryPartnerStatus{
	PartnerStatusDelivered, PartnerStatusFailedDelivery, PartnerStatusReturnedToBranch, PartnerStatusPickupFailed,
}

func (s DeliveryPartnerStatus) Validate() error {
	if !slices.Contains(partnerStatuses, s) {
		return errs.NewValueIsInvalidErrorWithCause(
			"delivery partner status is invalid", fmt.Errorf("%q is not a valid delivery partner status", string(s)))
	}
	return nil
}

// IsTerminal reports whether the partner's part of the job is over.
func (s DeliveryPartnerStatus) IsTerminal() bool {
	return slices.Contains(terminalPartnerStatuses, s)
}

// IsActive reports whether a partner currently holds the order.
func (s DeliveryPartnerStatus) IsActive() bool {
	return s != PartnerStatusNone && !s.IsTerminal()
}

// partnerUpdates gates partner-reported progress once an assignment is
// accepted. It is keyed by the status of the last tracking event of the
// active track, not by Order.Status.
var partnerUpdates = map[Mode]map[Status][]Status{
	ModeForward: {
		StatusOutForDelivery: {StatusDelivered, StatusFailedDelivery},
	},
	ModeReturn: {
		StatusPendingPickup:     {StatusPickedUpForReturn, StatusPickupFailed},
		StatusPickedUpForReturn: {StatusInTransitToBranch},
		StatusInTransitToBranch: {StatusReturnedToBranch, StatusPickupFailed},
	},
}

// partnerTerminal are the tracking statuses after which a partner may not
// report anything else.
var partnerTerminal = []Status{
	StatusDelivered, StatusFailedDelivery, StatusReturnedToBranch, StatusPickupFailed,
}

// partnerStatusFor maps a partner-reported order status to the partner sub-status.
var partnerStatusFor = map[Status]DeliveryPartnerStatus{
	StatusDelivered:         PartnerStatusDelivered,
	StatusFailedDelivery:    PartnerStatusFailedDelivery,
	StatusPickedUpForReturn: PartnerStatusPickedUpForReturn,
	StatusInTransitToBranch: PartnerStatusInTransitToBranch,
	StatusReturnedToBranch:  PartnerStatusReturnedToBranch,
	StatusPickupFailed:      PartnerStatusPickupFailed,
}

// normalizePartnerRequest maps a requested status onto the active track. A
// return-mode "picked_up" is recorded as picked_up_for_return.
func normalizePartnerRequest(mode Mode, requested Status) Status {
	if mode == ModeReturn && requested == StatusPickedUp {
		return StatusPickedUpForReturn
	}
	return requested
}
