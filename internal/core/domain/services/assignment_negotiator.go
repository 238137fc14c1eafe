package services

import (
	"time"

	"logistics/internal/core/domain/model/branch"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/partner"
	"logistics/internal/pkg/errs"
)

// AssignmentNegotiator coordinates the offer/accept/reject handshake across
// the order, its branch and the delivery partners involved. The order
// aggregate owns the state machine; the negotiator keeps the partners'
// current orders and earnings in step with it.
//
// After every successful call the order's partner, its assignment partner and
// the partner's current orders agree.
//
// Example usage:
//
//	n := services.NewAssignmentNegotiator(services.NewEarningsCalculator(services.DefaultFeeSchedule()))
//	if err := n.Offer(o, b, p, now); err != nil {
//	    return err
//	}
//	// persist o and p in the same unit of work
type AssignmentNegotiator struct {
	earnings EarningsCalculator
}

func NewAssignmentNegotiator(earnings EarningsCalculator) AssignmentNegotiator {
	return AssignmentNegotiator{earnings: earnings}
}

// StatusReport is the outcome of ReportStatus.
type StatusReport struct {
	order.PartnerUpdate
	// Credited is the fee added to the partner, zero when nothing was credited.
	Credited kernel.Money
	// Released is true when the order left the partner's current orders.
	Released bool
}

// Offer proposes the order to p, a member of b. b must be the order's branch.
//
// Returns:
//   - UnauthorizedError when p is not on b's roster or b is not the order's branch
//   - any error of order.Offer
func (n AssignmentNegotiator) Offer(o *order.Order, b *branch.Branch, p *partner.DeliveryPartner, at time.Time) error {
	if err := checkMembership(o, b, p); err != nil {
		return err
	}
	if err := o.Offer(p.ID(), at); err != nil {
		return err
	}
	p.HoldOrder(o.ID())
	return nil
}

// Accept records p's acceptance of the pending offer.
//
// Returns:
//   - UnauthorizedError unless p is the offered partner
//   - any error of order.Accept
func (n AssignmentNegotiator) Accept(o *order.Order, p *partner.DeliveryPartner, at time.Time) error {
	if err := checkHolder(o, p, "accept assignment"); err != nil {
		return err
	}
	if err := o.Accept(at); err != nil {
		return err
	}
	p.HoldOrder(o.ID())
	return nil
}

// Reject records p's refusal and releases the order from p.
//
// Returns:
//   - UnauthorizedError unless p holds the offered or accepted assignment
//   - any error of order.Reject
func (n AssignmentNegotiator) Reject(o *order.Order, p *partner.DeliveryPartner, reason string, at time.Time) error {
	if err := checkHolder(o, p, "reject assignment"); err != nil {
		return err
	}
	if _, err := o.Reject(reason, at); err != nil {
		return err
	}
	p.ReleaseOrder(o.ID())
	return nil
}

// Reassign moves the order from its current partner, if any, to next. previous
// is the partner the order names before the call; it may be nil when the order
// has no partner or the partner record is missing, in which case reconciliation
// repairs the stale membership later.
//
// Returns:
//   - UnauthorizedError when next is not on b's roster
//   - any error of order.Reassign
func (n AssignmentNegotiator) Reassign(
	o *order.Order,
	b *branch.Branch,
	next *partner.DeliveryPartner,
	previous *partner.DeliveryPartner,
	at time.Time,
) error {
	if err := checkMembership(o, b, next); err != nil {
		return err
	}
	prevID, err := o.Reassign(next.ID(), at)
	if err != nil {
		return err
	}
	if prevID != nil && previous != nil && previous.ID().IsEqual(*prevID) {
		previous.ReleaseOrder(o.ID())
	}
	next.HoldOrder(o.ID())
	return nil
}

// ReportStatus applies a status reported by the accepted partner p. Terminal
// statuses release the order from p; delivered and returned_to_branch credit
// the matching fee once per order.
//
// Returns:
//   - UnauthorizedError unless p holds the accepted assignment
//   - any error of order.ApplyPartnerUpdate
func (n AssignmentNegotiator) ReportStatus(
	o *order.Order,
	p *partner.DeliveryPartner,
	requested order.Status,
	at time.Time,
	location, notes string,
) (StatusReport, error) {
	a := o.Assignment()
	if a.Status != order.AssignmentAccepted || !a.IsHeldBy(p.ID()) {
		return StatusReport{}, errs.NewUnauthorizedError(
			"delivery partner "+p.ID().String(), "update delivery status", "not the accepted partner")
	}

	update, err := o.ApplyPartnerUpdate(requested, at, location, notes)
	if err != nil {
		return StatusReport{}, err
	}

	report := StatusReport{PartnerUpdate: update}
	if update.Terminal {
		report.Released = p.ReleaseOrder(o.ID())
	}

	var fee kernel.Money
	switch update.Earning {
	case order.EarningDelivery:
		fee = n.earnings.DeliveryFee(o.Total())
	case order.EarningReturnPickup:
		fee = n.earnings.ReturnPickupFee()
	default:
		return report, nil
	}
	if fee <= 0 || !o.CreditEarning(update.Earning, p.ID(), fee, at) {
		return report, nil
	}
	if err = p.Credit(fee); err != nil {
		return StatusReport{}, err
	}
	report.Credited = fee
	return report, nil
}

// ExpireOffer treats an offer left unanswered since before deadline as a
// rejection with reason "offer expired". It reports whether the offer expired.
// holder is the offered partner and may be nil when its record is missing.
func (n AssignmentNegotiator) ExpireOffer(o *order.Order, holder *partner.DeliveryPartner, deadline, at time.Time) (bool, error) {
	a := o.Assignment()
	if a.Status != order.AssignmentOffered || a.AssignedAt == nil || !a.AssignedAt.Before(deadline) {
		return false, nil
	}
	if _, err := o.Reject(OfferExpiredReason, at); err != nil {
		return false, err
	}
	if holder != nil {
		holder.ReleaseOrder(o.ID())
	}
	return true, nil
}

// OfferExpiredReason is the rejection reason recorded by ExpireOffer.
const OfferExpiredReason = "offer expired"

func checkMembership(o *order.Order, b *branch.Branch, p *partner.DeliveryPartner) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if o.BranchID() == nil {
		return errs.NewValueIsRequiredErrorWithCause("branchID", errs.ErrObjectNotFound)
	}
	if !o.BranchID().IsEqual(b.ID()) {
		return errs.NewUnauthorizedError("branch "+b.ID().String(), "offer order "+o.ID().String(),
			"order belongs to branch "+o.BranchID().String())
	}
	if !b.HasPartner(p.ID()) || !p.BelongsTo(b.ID()) {
		return errs.NewUnauthorizedError("delivery partner "+p.ID().String(), "receive offer",
			"not affiliated with branch "+b.ID().String())
	}
	return nil
}

func checkHolder(o *order.Order, p *partner.DeliveryPartner, action string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !o.Assignment().IsHeldBy(p.ID()) {
		return errs.NewUnauthorizedError("delivery partner "+p.ID().String(), action, "not the offered partner")
	}
	return nil
}
