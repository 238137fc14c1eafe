package order

import (
	"slices"
	"strings"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

var (
	forwardOfferable    = []Status{StatusShipped, StatusAtBranch, StatusAssigned}
	forwardReassignable = []Status{StatusShipped, StatusAtBranch, StatusAssigned, StatusInTransit, StatusOutForDelivery}
)

// Offer proposes the order to a delivery partner. The caller has already
// checked that the partner belongs to the order's branch.
//
// Effect: the assignment becomes {partner, offered, at}, the partner is set on
// the order with sub-status assigned, forward orders move to in_transit and
// return orders stay pending_pickup (an event is still recorded).
//
// Returns:
//   - ValueIsRequiredError if the order has no branch
//   - AlreadyAssignedError if a partner holds an offered or accepted assignment
//   - InvalidTransitionError if the status does not allow an offer
func (o *Order) Offer(partnerID kernel.UUID, at time.Time) error {
	if err := o.checkOffer(partnerID); err != nil {
		return err
	}
	if o.assignment.Status.IsActive() {
		return errs.NewAlreadyAssignedError("order", o.id.String(), "partner "+o.assignment.PartnerID.String())
	}
	if o.mode == ModeForward && !slices.Contains(forwardOfferable, o.status) {
		return o.status.transitionError(StatusInTransit)
	}

	return o.offerTo(partnerID, at, "offered to delivery partner")
}

// Reassign replaces the partner on an order, whatever the state of the
// previous negotiation, and offers it to newPartnerID. It returns the partner
// that held the order before, if any.
//
// Returns:
//   - AlreadyFinalError once the partner has reported a terminal status
//   - AlreadyAssignedError if newPartnerID already holds the order
//   - InvalidTransitionError if the status does not allow an offer
func (o *Order) Reassign(newPartnerID kernel.UUID, at time.Time) (*kernel.UUID, error) {
	if err := o.checkOffer(newPartnerID); err != nil {
		return nil, err
	}
	if o.deliveryPartnerStatus.IsTerminal() {
		return nil, errs.NewAlreadyFinalError("delivery partner status", string(o.deliveryPartnerStatus))
	}
	if o.assignment.IsHeldBy(newPartnerID) {
		return nil, errs.NewAlreadyAssignedError("order", o.id.String(), "partner "+newPartnerID.String())
	}
	if o.mode == ModeForward && !slices.Contains(forwardReassignable, o.status) {
		return nil, o.status.transitionError(StatusInTransit)
	}

	var previous *kernel.UUID
	if o.assignment.Status.IsActive() {
		previous = o.assignment.PartnerID
	}
	if err := o.offerTo(newPartnerID, at, "reassigned"); err != nil {
		return nil, err
	}
	return previous, nil
}

func (o *Order) checkOffer(partnerID kernel.UUID) error {
	if err := partnerID.Validate(); err != nil {
		return err
	}
	if o.branchID == nil {
		return errs.NewValueIsRequiredErrorWithCause("branchID", errs.ErrObjectNotFound)
	}
	if o.mode == ModeReturn && o.status != StatusPendingPickup {
		return o.status.transitionError(StatusPendingPickup)
	}
	return nil
}

func (o *Order) offerTo(partnerID kernel.UUID, at time.Time, notes string) error {
	if err := o.assignment.Status.checkTransition(AssignmentOffered); err != nil {
		return err
	}

	offeredAt := at
	o.assignment = DeliveryAssignment{
		PartnerID:  &partnerID,
		Status:     AssignmentOffered,
		AssignedAt: &offeredAt,
	}
	o.deliveryPartnerID = &partnerID
	o.deliveryPartnerStatus = PartnerStatusAssigned

	if o.mode == ModeReturn {
		o.transition(StatusPendingPickup, at, "", notes)
	} else {
		o.transition(StatusInTransit, at, "", notes)
	}
	return nil
}

// Accept records the offered partner's acceptance. Forward orders move to
// out_for_delivery; return orders stay pending_pickup.
//
// Returns:
//   - InvalidTransitionError unless the assignment is offered
func (o *Order) Accept(at time.Time) error {
	if o.assignment.Status != AssignmentOffered {
		return o.assignment.Status.checkTransition(AssignmentAccepted)
	}
	next := StatusPendingPickup
	if o.mode == ModeForward {
		next = StatusOutForDelivery
	}
	if err := o.status.checkTransition(next); err != nil {
		return err
	}

	respondedAt := at
	o.assignment.Status = AssignmentAccepted
	o.assignment.ResponseAt = &respondedAt
	o.deliveryPartnerStatus = PartnerStatusAccepted
	o.transition(next, at, "", "accepted by delivery partner")
	return nil
}

// Reject records the holding partner's refusal. The partner is cleared from
// the order, forward orders fall back to assigned (awaiting a new offer) and
// return orders stay pending_pickup. It returns the partner that rejected.
//
// Returns:
//   - ValueIsRequiredError if reason is blank
//   - InvalidTransitionError unless the assignment is offered or accepted and
//     the partner has not picked anything up yet
func (o *Order) Reject(reason string, at time.Time) (kernel.UUID, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return kernel.UUID{}, errs.NewValueIsRequiredError("rejectionReason")
	}
	if err := o.assignment.Status.checkTransition(AssignmentRejected); err != nil {
		return kernel.UUID{}, err
	}
	if o.deliveryPartnerStatus != PartnerStatusAssigned && o.deliveryPartnerStatus != PartnerStatusAccepted {
		return kernel.UUID{}, errs.NewInvalidTransitionError(
			"delivery partner "+string(o.deliveryPartnerStatus), string(AssignmentRejected), nil)
	}
	next := StatusPendingPickup
	if o.mode == ModeForward {
		next = StatusAssigned
	}
	if err := o.status.checkTransition(next); err != nil {
		return kernel.UUID{}, err
	}

	partnerID := *o.assignment.PartnerID
	respondedAt := at
	o.assignment.Status = AssignmentRejected
	o.assignment.ResponseAt = &respondedAt
	o.assignment.RejectionReason = reason
	o.deliveryPartnerID = nil
	o.deliveryPartnerStatus = PartnerStatusNone
	o.transition(next, at, "", "rejected by delivery partner: "+reason)
	return partnerID, nil
}

// PartnerUpdate describes the outcome of an accepted partner's status report.
type PartnerUpdate struct {
	Status Status
	// Terminal is true when the partner's part of the job is over and the
	// order must leave the partner's current orders.
	Terminal bool
	// Earning names the earning token the update is eligible for, if any.
	Earning EarningKind
}

// ApplyPartnerUpdate records a status reported by the accepted partner. The
// request is gated by the status of the last tracking event of the active
// track:
//
//	forward  out_for_delivery     -> delivered | failed_delivery
//	return   pending_pickup       -> picked_up_for_return | pickup_failed
//	return   picked_up_for_return -> in_transit_to_branch
//	return   in_transit_to_branch -> returned_to_branch | pickup_failed
//
// A return-mode request for picked_up is recorded as picked_up_for_return.
//
// Returns:
//   - AlreadyFinalError once delivered, failed_delivery, returned_to_branch or pickup_failed was reached
//   - InvalidTransitionError listing the allowed statuses otherwise
func (o *Order) ApplyPartnerUpdate(requested Status, at time.Time, location, notes string) (PartnerUpdate, error) {
	if err := requested.Validate(); err != nil {
		return PartnerUpdate{}, err
	}
	requested = normalizePartnerRequest(o.mode, requested)

	last, ok := o.ActiveLog().Last()
	current := o.status
	if ok {
		current = last.Status
	}
	if slices.Contains(partnerTerminal, current) || o.deliveryPartnerStatus.IsTerminal() {
		return PartnerUpdate{}, errs.NewAlreadyFinalError("delivery status", current.String())
	}
	if o.assignment.Status != AssignmentAccepted {
		return PartnerUpdate{}, errs.NewInvalidTransitionError(
			"assignment "+string(o.assignment.Status), requested.String(), nil)
	}

	allowed := partnerUpdates[o.mode][current]
	if !slices.Contains(allowed, requested) {
		return PartnerUpdate{}, errs.NewInvalidTransitionError(current.String(), requested.String(), statusStrings(allowed))
	}

	o.deliveryPartnerStatus = partnerStatusFor[requested]
	if requested == StatusDelivered && o.paymentMethod == PaymentCOD {
		o.paymentStatus = PaymentPaid
	}
	o.transition(requested, at, location, notes)

	update := PartnerUpdate{Status: requested, Terminal: o.deliveryPartnerStatus.IsTerminal()}
	switch requested {
	case StatusDelivered:
		update.Earning = EarningDelivery
	case StatusReturnedToBranch:
		update.Earning = EarningReturnPickup
	}
	return update, nil
}
