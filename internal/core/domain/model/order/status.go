package order

import (
	"fmt"
	"slices"

	"logistics/internal/pkg/errs"
)

// Status is the canonical lifecycle state of an order. A single enum covers
// both the forward track (placement to delivery) and the return track; the
// order's Mode tells which track is active.
//
// Forward track:
//
//	pending ─┬─> processing ─┬─> shipped ─> at_branch ─┐
//	         └─> confirm ────┘       │                  │
//	                                 └───> in_transit <─┴── assigned <─┐
//	                                          │                        │ (reject)
//	                                          └─> out_for_delivery ────┘
//	                                                  ├─> delivered ─> completed
//	                                                  └─> failed_delivery
//
// Return track (entered from delivered or completed):
//
//	return_requested ─┬─> return_approved ─> pending_pickup ─> picked_up_for_return
//	                  └─> return_rejected          ^   │             │
//	                                               │   v             v
//	                                      pickup_failed <── in_transit_to_branch
//	                                                                 │
//	returned_to_branch ─> return_processing ─> refund_initiated ─> return_refunded
//	                                     └──────────┴─────────────> return_completed
type Status string

const (
	StatusUnknown        Status = ""
	StatusPending        Status = "pending"
	StatusProcessing     Status = "processing"
	StatusConfirm        Status = "confirm"
	StatusShipped        Status = "shipped"
	StatusAtBranch       Status = "at_branch"
	StatusAssigned       Status = "assigned"
	StatusAccepted       Status = "accepted"
	StatusPickedUp       Status = "picked_up"
	StatusInTransit      Status = "in_transit"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusFailed         Status = "failed"
	StatusRefunded       Status = "refunded"
	StatusFailedDelivery Status = "failed_delivery"

	StatusReturnRequested   Status = "return_requested"
	StatusReturnApproved    Status = "return_approved"
	StatusReturnRejected    Status = "return_rejected"
	StatusPendingPickup     Status = "pending_pickup"
	StatusPickedUpForReturn Status = "picked_up_for_return"
	StatusInTransitToBranch Status = "in_transit_to_branch"
	StatusReturnedToBranch  Status = "returned_to_branch"
	StatusReturnProcessing  Status = "return_processing"
	StatusRefundInitiated   Status = "refund_initiated"
	StatusReturnRefunded    Status = "return_refunded"
	StatusReturnCompleted   Status = "return_completed"
	StatusPickupFailed      Status = "pickup_failed"
)

// transitions lists every legal successor of every status, whichever
// operation performs the move. Operations narrow this further; the table is
// the single place an InvalidTransitionError takes its allowed set from.
//
// accepted and picked_up name partner-side milestones. The negotiation
// records them on DeliveryPartnerStatus, so no transition enters them.
var transitions = map[Status][]Status{
	StatusPending:        {StatusProcessing, StatusConfirm, StatusCancelled, StatusFailed, StatusRefunded},
	StatusProcessing:     {StatusConfirm, StatusShipped, StatusCancelled, StatusFailed, StatusRefunded},
	StatusConfirm:        {StatusProcessing, StatusShipped, StatusCancelled, StatusFailed, StatusRefunded},
	StatusShipped:        {StatusAtBranch, StatusInTransit},
	StatusAtBranch:       {StatusInTransit},
	StatusAssigned:       {StatusInTransit},
	StatusInTransit:      {StatusOutForDelivery, StatusAssigned, StatusInTransit},
	StatusOutForDelivery: {StatusDelivered, StatusFailedDelivery, StatusAssigned, StatusInTransit},
	StatusDelivered:      {StatusCompleted, StatusReturnRequested},
	StatusCompleted:      {StatusReturnRequested},

	StatusReturnRequested:   {StatusReturnApproved, StatusReturnRejected},
	StatusReturnApproved:    {StatusPendingPickup},
	StatusPendingPickup:     {StatusPendingPickup, StatusPickedUpForReturn, StatusPickupFailed},
	StatusPickupFailed:      {StatusPendingPickup},
	StatusPickedUpForReturn: {StatusInTransitToBranch},
	StatusInTransitToBranch: {StatusReturnedToBranch, StatusPickupFailed},
	StatusReturnedToBranch:  {StatusReturnProcessing, StatusRefundInitiated},
	StatusReturnProcessing:  {StatusRefundInitiated, StatusReturnCompleted},
	StatusRefundInitiated:   {StatusReturnRefunded, StatusReturnCompleted},
}

// adminTransitions are the moves an administrator may request directly
// through UpdateStatus. Everything else happens only as a side effect of a
// protocol operation (branch assignment, offer, partner update...).
var adminTransitions = map[Status][]Status{
	StatusPending:          {StatusProcessing, StatusConfirm, StatusCancelled, StatusFailed, StatusRefunded},
	StatusProcessing:       {StatusConfirm, StatusCancelled, StatusFailed, StatusRefunded},
	StatusConfirm:          {StatusProcessing, StatusCancelled, StatusFailed, StatusRefunded},
	StatusShipped:          {StatusAtBranch},
	StatusDelivered:        {StatusCompleted},
	StatusReturnedToBranch: {StatusReturnProcessing},
	StatusReturnProcessing: {StatusReturnCompleted},
	StatusRefundInitiated:  {StatusReturnCompleted},
}

var cancellable = []Status{StatusPending, StatusProcessing, StatusConfirm}

var terminalStatuses = []Status{
	StatusCancelled, StatusFailed, StatusRefunded, StatusFailedDelivery,
	StatusReturnRejected, StatusReturnRefunded, StatusReturnCompleted,
}

var returnStatuses = []Status{
	StatusReturnRequested, StatusReturnApproved, StatusReturnRejected, StatusPendingPickup,
	StatusPickedUpForReturn, StatusInTransitToBranch, StatusReturnedToBranch, StatusReturnProcessing,
	StatusRefundInitiated, StatusReturnRefunded, StatusReturnCompleted, StatusPickupFailed,
}

var forwardStatuses = []Status{
	StatusPending, StatusProcessing, StatusConfirm, StatusShipped, StatusAtBranch, StatusAssigned,
	StatusAccepted, StatusPickedUp, StatusInTransit, StatusOutForDelivery, StatusDelivered,
	StatusCompleted, StatusCancelled, StatusFailed, StatusRefunded, StatusFailedDelivery,
}

// ParseStatus converts a wire value to a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return StatusUnknown, err
	}
	return status, nil
}

// Validate reports whether s is one of the declared statuses.
func (s Status) Validate() error {
	if slices.Contains(forwardStatuses, s) || slices.Contains(returnStatuses, s) {
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", string(s)))
}

func (s Status) String() string {
	if s == StatusUnknown {
		return "unknown"
	}
	return string(s)
}

// IsReturn reports whether s belongs to the return track.
func (s Status) IsReturn() bool {
	return slices.Contains(returnStatuses, s)
}

// IsTerminal reports whether s closes the order for good.
func (s Status) IsTerminal() bool {
	return slices.Contains(terminalStatuses, s)
}

// Successors returns the statuses reachable from s in one step.
func (s Status) Successors() []Status {
	return slices.Clone(transitions[s])
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// CanBeCancelled reports whether an order in s may still be cancelled.
func (s Status) CanBeCancelled() bool {
	return slices.Contains(cancellable, s)
}

// transitionError builds the InvalidTransitionError for a refused move from s to next.
func (s Status) transitionError(next Status) error {
	return errs.NewInvalidTransitionError(s.String(), next.String(), statusStrings(transitions[s]))
}

// checkTransition returns an InvalidTransitionError unless next is a legal successor of s.
func (s Status) checkTransition(next Status) error {
	if !s.CanTransitionTo(next) {
		return s.transitionError(next)
	}
	return nil
}

// checkAdminTransition narrows checkTransition to the moves an administrator
// may request directly.
func (s Status) checkAdminTransition(next Status) error {
	if !slices.Contains(adminTransitions[s], next) {
		return errs.NewInvalidTransitionError(s.String(), next.String(), statusStrings(adminTransitions[s]))
	}
	return nil
}

func statusStrings(statuses []Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.String())
	}
	return out
}

// Mode discriminates which track of the state machine is active.
type Mode string

const (
	ModeForward Mode = "forward"
	ModeReturn  Mode = "return"
)

func (m Mode) Validate() error {
	if m != ModeForward && m != ModeReturn {
		return errs.NewValueIsInvalidErrorWithCause("mode is invalid", fmt.Errorf("%q is not a valid mode", string(m)))
	}
	return nil
}

// ReturnStatus is the display projection of Status while an order is in
// ModeReturn. It is derived, never stored.
type ReturnStatus string

const (
	ReturnStatusNone              ReturnStatus = ""
	ReturnStatusRequested         ReturnStatus = "return_requested"
	ReturnStatusApproved          ReturnStatus = "approved"
	ReturnStatusRejected          ReturnStatus = "rejected"
	ReturnStatusPendingPickup     ReturnStatus = "pending_pickup"
	ReturnStatusPickedUpForReturn ReturnStatus = "picked_up_for_return"
	ReturnStatusInTransitToBranch ReturnStatus = "in_transit_to_branch"
	ReturnStatusReturnedToBranch  ReturnStatus = "returned_to_branch"
	ReturnStatusProcessing        ReturnStatus = "return_processing"
	ReturnStatusRefundInitiated   ReturnStatus = "refund_initiated"
	ReturnStatusRefunded          ReturnStatus = "refunded"
	ReturnStatusCompleted         ReturnStatus = "return_completed"
	ReturnStatusPickupFailed      ReturnStatus = "pickup_failed"
)

var returnProjection = map[Status]ReturnStatus{
	StatusReturnRequested:   ReturnStatusRequested,
	StatusReturnApproved:    ReturnStatusApproved,
	StatusReturnRejected:    ReturnStatusRejected,
	StatusPendingPickup:     ReturnStatusPendingPickup,
	StatusPickedUpForReturn: ReturnStatusPickedUpForReturn,
	StatusInTransitToBranch: ReturnStatusInTransitToBranch,
	StatusReturnedToBranch:  ReturnStatusReturnedToBranch,
	StatusReturnProcessing:  ReturnStatusProcessing,
	StatusRefundInitiated:   ReturnStatusRefundInitiated,
	StatusReturnRefunded:    ReturnStatusRefunded,
	StatusReturnCompleted:   ReturnStatusCompleted,
	StatusPickupFailed:      ReturnStatusPickupFailed,
}

// projectReturnStatus returns the return projection of s, or ReturnStatusNone
// for forward statuses.
func projectReturnStatus(s Status) ReturnStatus {
	return returnProjection[s]
}
