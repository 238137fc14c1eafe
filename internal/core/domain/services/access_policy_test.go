package services_test

import (
	"testing"

	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/services"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustActor(t *testing.T, role actor.Role, branchID *kernel.UUID) actor.Actor {
	t.Helper()
	a, err := actor.New(kernel.NewUUID(), role, branchID)
	require.NoError(t, err)
	return a
}

func TestAccessPolicy_Authorize(t *testing.T) {
	policy := services.NewAccessPolicy()

	o, b, p := shippedOrder(t, 300)
	require.NoError(t, newNegotiator().Offer(o, b, p, at(2)))
	rel := services.OrderRelationship(o)

	branchID := b.ID()
	otherBranch := kernel.NewUUID()

	admin := mustActor(t, actor.RoleAdmin, nil)
	manager := mustActor(t, actor.RoleBranchManager, &branchID)
	otherManager := mustActor(t, actor.RoleBranchManager, &otherBranch)
	holder := actor.Actor{UserID: p.ID(), Role: actor.RoleDeliveryPartner}
	stranger := mustActor(t, actor.RoleDeliveryPartner, nil)
	owner := actor.Actor{UserID: o.CustomerID(), Role: actor.RoleCustomer}
	customer := mustActor(t, actor.RoleCustomer, nil)

	tests := []struct {
		name       string
		actor      actor.Actor
		capability services.Capability
		granted    bool
	}{
		{"manager offers in own branch", manager, services.CapOfferPartner, true},
		{"manager of another branch cannot offer", otherManager, services.CapOfferPartner, false},
		{"admin may reassign", admin, services.CapReassignPartner, true},
		{"partner cannot offer", holder, services.CapOfferPartner, false},
		{"offered partner accepts", holder, services.CapAcceptAssignment, true},
		{"other partner cannot accept", stranger, services.CapAcceptAssignment, false},
		{"admin cannot accept for partner", admin, services.CapAcceptAssignment, false},
		{"offered partner rejects", holder, services.CapRejectAssignment, true},
		{"owner requests return", owner, services.CapRequestReturn, true},
		{"other customer cannot request return", customer, services.CapRequestReturn, false},
		{"admin cannot request return", admin, services.CapRequestReturn, false},
		{"admin approves return", admin, services.CapSetReturnApproval, true},
		{"manager cannot approve return", manager, services.CapSetReturnApproval, false},
		{"admin sets refund status", admin, services.CapSetRefundStatus, true},
		{"owner cancels", owner, services.CapCancelOrder, true},
		{"manager cannot cancel", manager, services.CapCancelOrder, false},
		{"any manager assigns branch", otherManager, services.CapAssignBranch, true},
		{"customer cannot assign branch", owner, services.CapAssignBranch, false},
		{"owner views order", owner, services.CapViewOrder, true},
		{"holder views order", holder, services.CapViewOrder, true},
		{"manager views order of own branch", manager, services.CapViewOrder, true},
		{"other customer cannot view order", customer, services.CapViewOrder, false},
		{"only admin reconciles", manager, services.CapReconcile, false},
		{"system reconciles", actor.System(), services.CapReconcile, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Authorize(tt.actor, tt.capability, rel)
			if tt.granted {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, errs.ErrUnauthorized)
		})
	}
}

func TestAccessPolicy_UnknownInput(t *testing.T) {
	policy := services.NewAccessPolicy()

	t.Run("unknown capability", func(t *testing.T) {
		err := policy.Authorize(actor.System(), services.Capability("launch rockets"), services.Relationship{})
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("zero actor", func(t *testing.T) {
		err := policy.Authorize(actor.Actor{}, services.CapViewOrder, services.Relationship{})
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("reason names every failed rule", func(t *testing.T) {
		err := policy.Authorize(mustActor(t, actor.RoleCustomer, nil), services.CapCancelOrder, services.Relationship{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "admin role required")
		assert.Contains(t, err.Error(), "not the order owner")
	})
}

func TestOrderRelationship(t *testing.T) {
	o, b, p := shippedOrder(t, 300)

	rel := services.OrderRelationship(o)
	require.NotNil(t, rel.CustomerID)
	assert.Equal(t, o.CustomerID(), *rel.CustomerID)
	require.NotNil(t, rel.BranchID)
	assert.Equal(t, b.ID(), *rel.BranchID)
	assert.Nil(t, rel.PartnerID)

	n := newNegotiator()
	require.NoError(t, n.Offer(o, b, p, at(2)))
	require.NoError(t, n.Reject(o, p, "busy", at(3)))
	assert.Nil(t, services.OrderRelationship(o).PartnerID)
}
