package services

import (
	"fmt"
	"strings"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"
)

// Capability names an operation an actor may be granted.
type Capability string

const (
	CapCreateOrder          Capability = "create order"
	CapViewOrder            Capability = "view order"
	CapCancelOrder          Capability = "cancel order"
	CapUpdateOrderStatus    Capability = "update order status"
	CapAssignBranch         Capability = "assign order to branch"
	CapOfferPartner         Capability = "offer order to partner"
	CapReassignPartner      Capability = "reassign partner"
	CapAcceptAssignment     Capability = "accept assignment"
	CapRejectAssignment     Capability = "reject assignment"
	CapUpdateDeliveryStatus Capability = "update delivery status"
	CapRequestReturn        Capability = "request return"
	CapSetReturnApproval    Capability = "set return approval"
	CapSetRefundStatus      Capability = "set refund status"
	CapViewBranchOrders     Capability = "view branch orders"
	CapViewPartnerOrders    Capability = "view partner orders"
	CapManageRoster         Capability = "manage branch roster"
	CapManageNetwork        Capability = "manage branches and partners"
	CapReconcile            Capability = "reconcile assignments"
)

// Relationship describes how the resource of an operation relates to the
// people involved. Nil fields are unknown or absent.
type Relationship struct {
	// CustomerID owns the order.
	CustomerID *kernel.UUID
	// BranchID is the branch the resource belongs to.
	BranchID *kernel.UUID
	// PartnerID is the partner the operation concerns: the assignment holder
	// for order operations, the partner itself for partner resources.
	PartnerID *kernel.UUID
}

// OrderRelationship derives the relationship of an order to its customer,
// branch and assignment partner.
func OrderRelationship(o *order.Order) Relationship {
	customerID := o.CustomerID()
	rel := Relationship{CustomerID: &customerID, BranchID: o.BranchID()}
	if a := o.Assignment(); a.Status.IsActive() {
		rel.PartnerID = a.PartnerID
	}
	return rel
}

type rule func(a actor.Actor, rel Relationship) (bool, string)

// AccessPolicy is the single capability check of the core. Command and query
// handlers evaluate it once, before opening a unit of work or right after
// loading the resource the relationship is derived from.
type AccessPolicy struct {
	rules map[Capability]rule
}

// NewAccessPolicy builds the policy. The zero AccessPolicy behaves the same.
//
//	create order, request return           customer owning the order, admin (create only)
//	view order                             admin, owner, manager of its branch, its partner
//	cancel order                           admin, owner
//	update order status, return approval,
//	refund status, reconcile, network      admin
//	assign branch                          admin, any branch manager
//	offer, reassign, view branch orders,
//	manage roster                          admin, manager of the branch
//	accept, reject, update delivery status the partner named by the relationship
//	view partner orders                    admin, the partner, manager of its branch
func NewAccessPolicy() AccessPolicy {
	return AccessPolicy{rules: defaultRules}
}

var defaultRules = map[Capability]rule{
	CapCreateOrder:          anyOf(admin, owner),
	CapViewOrder:            anyOf(admin, owner, branchManager, assignedPartner),
	CapCancelOrder:          anyOf(admin, owner),
	CapUpdateOrderStatus:    admin,
	CapAssignBranch:         anyOf(admin, anyManager),
	CapOfferPartner:         anyOf(admin, branchManager),
	CapReassignPartner:      anyOf(admin, branchManager),
	CapAcceptAssignment:     assignedPartner,
	CapRejectAssignment:     assignedPartner,
	CapUpdateDeliveryStatus: assignedPartner,
	CapRequestReturn:        owner,
	CapSetReturnApproval:    admin,
	CapSetRefundStatus:      admin,
	CapViewBranchOrders:     anyOf(admin, branchManager),
	CapViewPartnerOrders:    anyOf(admin, assignedPartner, branchManager),
	CapManageRoster:         anyOf(admin, branchManager),
	CapManageNetwork:        admin,
	CapReconcile:            admin,
}

// Authorize returns nil when a holds capability over a resource with the
// given relationship, an UnauthorizedError otherwise.
func (p AccessPolicy) Authorize(a actor.Actor, capability Capability, rel Relationship) error {
	rules := p.rules
	if rules == nil {
		rules = defaultRules
	}
	r, ok := rules[capability]
	if !ok {
		return errs.NewUnauthorizedError(a.String(), string(capability), "unknown capability")
	}
	if err := a.Role.Validate(); err != nil {
		return errs.NewUnauthorizedError(a.String(), string(capability), "unknown role")
	}
	if granted, reason := r(a, rel); !granted {
		return errs.NewUnauthorizedError(a.String(), string(capability), reason)
	}
	return nil
}

func admin(a actor.Actor, _ Relationship) (bool, string) {
	return a.Role == actor.RoleAdmin, "admin role required"
}

func owner(a actor.Actor, rel Relationship) (bool, string) {
	return a.Role == actor.RoleCustomer && rel.CustomerID != nil && a.Is(*rel.CustomerID), "not the order owner"
}

func anyManager(a actor.Actor, _ Relationship) (bool, string) {
	return a.Role == actor.RoleBranchManager, "branch manager role required"
}

func branchManager(a actor.Actor, rel Relationship) (bool, string) {
	if rel.BranchID == nil {
		return false, "resource has no branch"
	}
	return a.Manages(*rel.BranchID), fmt.Sprintf("not the manager of branch %s", rel.BranchID)
}

func assignedPartner(a actor.Actor, rel Relationship) (bool, string) {
	return a.Role == actor.RoleDeliveryPartner && rel.PartnerID != nil && a.Is(*rel.PartnerID),
		"not the assigned delivery partner"
}

func anyOf(rules ...rule) rule {
	return func(a actor.Actor, rel Relationship) (bool, string) {
		reasons := make([]string, 0, len(rules))
		for _, r := range rules {
			ok, why := r(a, rel)
			if ok {
				return true, ""
			}
			reasons = append(reasons, why)
		}
		return false, strings.Join(reasons, "; ")
	}
}
