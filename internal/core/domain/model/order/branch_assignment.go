package order

import (
	"fmt"
	"slices"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

var returnAssignable = []Status{StatusReturnApproved, StatusPendingPickup, StatusPickupFailed}

// PickupPoint is the coordinate a return pickup is matched against: the
// shipping address of the order.
func (o *Order) PickupPoint() (kernel.GeoPoint, error) {
	c := o.shippingAddress.Coordinates
	if c == nil {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredErrorWithCause(
			"shippingAddress.coordinates", fmt.Errorf("order %s has no pickup coordinates", o.number))
	}
	if err := c.Validate(); err != nil {
		return kernel.GeoPoint{}, errs.NewValueIsInvalidErrorWithCause("shippingAddress.coordinates", err)
	}
	return *c, nil
}

// AssignToBranch binds the order to the branch that will dispatch it.
//
// Forward orders are assigned once, from processing or confirm, and move to
// shipped. Return orders may be assigned again for every pickup attempt, from
// return_approved, pending_pickup or pickup_failed, and move to
// pending_pickup; the previous pickup negotiation is discarded.
//
// The tracking event notes the branch name and coordinates.
//
// Returns:
//   - AlreadyAssignedError for a forward order that already has a branch, or a
//     return order whose pickup is held by a partner
//   - InvalidTransitionError when the status does not allow assignment
func (o *Order) AssignToBranch(branchID kernel.UUID, branchName string, branchLocation kernel.GeoPoint, at time.Time) error {
	if err := branchID.Validate(); err != nil {
		return err
	}

	notes := fmt.Sprintf("assigned to branch %s at %s", branchName, branchLocation)

	if o.mode == ModeForward {
		if o.branchID != nil {
			return errs.NewAlreadyAssignedError("order", o.id.String(), "branch "+o.branchID.String())
		}
		if err := o.status.checkTransition(StatusShipped); err != nil {
			return err
		}
		o.branchID = &branchID
		o.transition(StatusShipped, at, "", notes)
		return nil
	}

	if !slices.Contains(returnAssignable, o.status) {
		return o.status.transitionError(StatusPendingPickup)
	}
	if o.deliveryPartnerID != nil && o.deliveryPartnerStatus.IsActive() {
		return errs.NewAlreadyAssignedError("order", o.id.String(), "partner "+o.deliveryPartnerID.String())
	}

	o.branchID = &branchID
	o.deliveryPartnerID = nil
	o.deliveryPartnerStatus = PartnerStatusNone
	o.assignment = newPendingAssignment()
	o.transition(StatusPendingPickup, at, "", notes)
	return nil
}
