package order

import (
	"fmt"
	"slices"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

// AssignmentStatus is the state of the offer/response handshake between a
// branch and a delivery partner.
//
//	pending ──> offered ─┬─> accepted ──> rejected
//	   ^                 └─────────────────┘  │
//	   └────────── offered <──────────────────┘
type AssignmentStatus string

const (
	AssignmentPending  AssignmentStatus = "pending"
	AssignmentOffered  AssignmentStatus = "offered"
	AssignmentAccepted AssignmentStatus = "accepted"
	AssignmentRejected AssignmentStatus = "rejected"
)

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentPending:  {AssignmentOffered},
	AssignmentOffered:  {AssignmentAccepted, AssignmentRejected, AssignmentOffered},
	AssignmentAccepted: {AssignmentRejected, AssignmentOffered},
	AssignmentRejected: {AssignmentOffered},
}

func (s AssignmentStatus) Validate() error {
	if _, ok := assignmentTransitions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"assignment status is invalid", fmt.Errorf("%q is not a valid assignment status", string(s)))
	}
	return nil
}

// IsActive reports whether a partner holds the order under this status.
func (s AssignmentStatus) IsActive() bool {
	return s == AssignmentOffered || s == AssignmentAccepted
}

func (s AssignmentStatus) checkTransition(next AssignmentStatus) error {
	allowed := assignmentTransitions[s]
	if slices.Contains(allowed, next) {
		return nil
	}
	names := make([]string, 0, len(allowed))
	for _, a := range allowed {
		names = append(names, string(a))
	}
	return errs.NewInvalidTransitionError("assignment "+string(s), string(next), names)
}

// DeliveryAssignment is the negotiation record embedded in an order.
// PartnerID is nil while pending. After a rejection it keeps the partner who
// rejected; the order itself no longer names a delivery partner.
type DeliveryAssignment struct {
	PartnerID       *kernel.UUID
	Status          AssignmentStatus
	AssignedAt      *time.Time
	ResponseAt      *time.Time
	RejectionReason string
}

func newPendingAssignment() DeliveryAssignment {
	return DeliveryAssignment{Status: AssignmentPending}
}

// IsHeldBy reports whether partnerID holds the assignment in offered or accepted state.
func (a DeliveryAssignment) IsHeldBy(partnerID kernel.UUID) bool {
	return a.Status.IsActive() && a.PartnerID != nil && a.PartnerID.IsEqual(partnerID)
}
