package order_test

import (
	"testing"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_AssignToBranch(t *testing.T) {
	t.Run("forward order ships", func(t *testing.T) {
		o := newOrder(t, order.PaymentCOD)
		branchID := kernel.NewUUID()

		require.NoError(t, o.AssignToBranch(branchID, "Koramangala", branchLocation(t), at(1)))

		assert.Equal(t, order.StatusShipped, o.Status())
		require.NotNil(t, o.BranchID())
		assert.True(t, o.BranchID().IsEqual(branchID))
		e := lastEvent(t, o.TrackingDetails())
		assert.Contains(t, e.Notes, "Koramangala")
		assert.Contains(t, e.Notes, "12.970000")
	})

	t.Run("forward order is assigned once", func(t *testing.T) {
		o, _ := shippedOrder(t)

		err := o.AssignToBranch(kernel.NewUUID(), "Other", branchLocation(t), at(5))
		require.ErrorIs(t, err, errs.ErrAlreadyAssigned)
	})

	t.Run("pending online order is not ready", func(t *testing.T) {
		o := newOrder(t, order.PaymentOnline)

		err := o.AssignToBranch(kernel.NewUUID(), "B", branchLocation(t), at(1))
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Nil(t, o.BranchID())
	})

	t.Run("return order may be reassigned after a failed pickup", func(t *testing.T) {
		o, _ := pickupPendingOrder(t)
		partnerID := kernel.NewUUID()
		require.NoError(t, o.Offer(partnerID, at(13)))
		require.NoError(t, o.Accept(at(14)))
		_, err := o.ApplyPartnerUpdate(order.StatusPickupFailed, at(15), "", "nobody home")
		require.NoError(t, err)

		second := kernel.NewUUID()
		require.NoError(t, o.AssignToBranch(second, "Whitefield", branchLocation(t), at(16)))

		assert.Equal(t, order.StatusPendingPickup, o.Status())
		assert.True(t, o.BranchID().IsEqual(second))
		assert.Nil(t, o.DeliveryPartnerID())
		assert.Equal(t, order.AssignmentPending, o.Assignment().Status)
		assert.Equal(t, order.StatusPendingPickup, lastEvent(t, o.ReturnTrackingDetails()).Status)
	})

	t.Run("return pickup held by a partner is not reassigned", func(t *testing.T) {
		o, _ := pickupPendingOrder(t)
		require.NoError(t, o.Offer(kernel.NewUUID(), at(13)))

		err := o.AssignToBranch(kernel.NewUUID(), "Whitefield", branchLocation(t), at(14))
		require.ErrorIs(t, err, errs.ErrAlreadyAssigned)
	})

	t.Run("pickup point comes from the shipping address", func(t *testing.T) {
		o := newOrder(t, order.PaymentCOD)
		p, err := o.PickupPoint()
		require.NoError(t, err)
		assert.InDelta(t, 12.9352, p.Latitude(), 1e-9)

		bare, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []order.Item{newItem(t, 1, 10)},
			order.Address{}, order.Address{}, order.PaymentCOD, t0)
		require.NoError(t, err)
		_, err = bare.PickupPoint()
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestOrder_Offer(t *testing.T) {
	t.Run("forward offer moves to in_transit", func(t *testing.T) {
		o, partnerID := offeredOrder(t)

		assert.Equal(t, order.StatusInTransit, o.Status())
		assert.Equal(t, order.AssignmentOffered, o.Assignment().Status)
		assert.True(t, o.Assignment().PartnerID.IsEqual(partnerID))
		assert.True(t, o.DeliveryPartnerID().IsEqual(partnerID))
		assert.Equal(t, order.PartnerStatusAssigned, o.DeliveryPartnerStatus())
		assert.Equal(t, at(2), *o.Assignment().AssignedAt)
		assert.True(t, o.IsHeldBy(partnerID))
	})

	t.Run("second offer loses with AlreadyAssigned", func(t *testing.T) {
		o, first := offeredOrder(t)
		events := o.TrackingDetails().Len()

		err := o.Offer(kernel.NewUUID(), at(3))

		require.ErrorIs(t, err, errs.ErrAlreadyAssigned)
		assert.True(t, o.DeliveryPartnerID().IsEqual(first))
		assert.Equal(t, events, o.TrackingDetails().Len())
	})

	t.Run("order without branch", func(t *testing.T) {
		o := newOrder(t, order.PaymentCOD)
		require.ErrorIs(t, o.Offer(kernel.NewUUID(), at(1)), errs.ErrValueIsRequired)
	})

	t.Run("return offer keeps pending_pickup and records an event", func(t *testing.T) {
		o, _ := pickupPendingOrder(t)
		events := o.ReturnTrackingDetails().Len()

		require.NoError(t, o.Offer(kernel.NewUUID(), at(13)))

		assert.Equal(t, order.StatusPendingPickup, o.Status())
		assert.Equal(t, order.ReturnStatusPendingPickup, o.ReturnStatus())
		assert.Equal(t, events+1, o.ReturnTrackingDetails().Len())
	})
}

func TestOrder_Accept(t *testing.T) {
	o, partnerID := acceptedOrder(t)

	assert.Equal(t, order.StatusOutForDelivery, o.Status())
	assert.Equal(t, order.AssignmentAccepted, o.Assignment().Status)
	assert.Equal(t, order.PartnerStatusAccepted, o.DeliveryPartnerStatus())
	assert.Equal(t, at(3), *o.Assignment().ResponseAt)
	assert.True(t, o.IsHeldBy(partnerID))

	t.Run("accepting twice is refused", func(t *testing.T) {
		require.ErrorIs(t, o.Accept(at(4)), errs.ErrInvalidTransition)
	})

	t.Run("nothing offered", func(t *testing.T) {
		s, _ := shippedOrder(t)
		require.ErrorIs(t, s.Accept(at(4)), errs.ErrInvalidTransition)
	})
}

func TestOrder_Reject(t *testing.T) {
	for name, build := range map[string]func(*testing.T, ...order.Item) (*order.Order, kernel.UUID){
		"offered":  offeredOrder,
		"accepted": acceptedOrder,
	} {
		t.Run("from "+name, func(t *testing.T) {
			o, partnerID := build(t)

			rejectedBy, err := o.Reject("  vehicle broke down ", at(5))
			require.NoError(t, err)

			assert.True(t, rejectedBy.IsEqual(partnerID))
			assert.Nil(t, o.DeliveryPartnerID())
			assert.Equal(t, order.PartnerStatusNone, o.DeliveryPartnerStatus())
			assert.Equal(t, order.AssignmentRejected, o.Assignment().Status)
			assert.Equal(t, "vehicle broke down", o.Assignment().RejectionReason)
			require.NotNil(t, o.Assignment().PartnerID)
			assert.True(t, o.Assignment().PartnerID.IsEqual(partnerID))
			assert.Equal(t, order.StatusAssigned, o.Status())
			assert.False(t, o.IsHeldBy(partnerID))
		})
	}

	t.Run("reason is required", func(t *testing.T) {
		o, _ := offeredOrder(t)
		_, err := o.Reject("   ", at(5))
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, order.AssignmentOffered, o.Assignment().Status)
	})

	t.Run("rejected order can be offered again", func(t *testing.T) {
		o, _ := offeredOrder(t)
		_, err := o.Reject("too far", at(5))
		require.NoError(t, err)

		next := kernel.NewUUID()
		require.NoError(t, o.Offer(next, at(6)))
		assert.Equal(t, order.StatusInTransit, o.Status())
		assert.True(t, o.IsHeldBy(next))
	})

	t.Run("return pickup rejection stays pending_pickup", func(t *testing.T) {
		o, _ := pickupPendingOrder(t)
		require.NoError(t, o.Offer(kernel.NewUUID(), at(13)))

		_, err := o.Reject("off shift", at(14))
		require.NoError(t, err)
		assert.Equal(t, order.StatusPendingPickup, o.Status())
	})
}

func TestOrder_Reassign(t *testing.T) {
	t.Run("replaces an accepted partner", func(t *testing.T) {
		o, first := acceptedOrder(t)
		second := kernel.NewUUID()

		previous, err := o.Reassign(second, at(5))
		require.NoError(t, err)

		require.NotNil(t, previous)
		assert.True(t, previous.IsEqual(first))
		assert.True(t, o.IsHeldBy(second))
		assert.False(t, o.IsHeldBy(first))
		assert.Equal(t, order.AssignmentOffered, o.Assignment().Status)
		assert.Equal(t, order.StatusInTransit, o.Status())
		assert.Equal(t, "reassigned", lastEvent(t, o.TrackingDetails()).Notes)
	})

	t.Run("after a rejection there is no previous holder", func(t *testing.T) {
		o, _ := offeredOrder(t)
		_, err := o.Reject("no", at(5))
		require.NoError(t, err)

		previous, err := o.Reassign(kernel.NewUUID(), at(6))
		require.NoError(t, err)
		assert.Nil(t, previous)
	})

	t.Run("same partner", func(t *testing.T) {
		o, partnerID := offeredOrder(t)
		_, err := o.Reassign(partnerID, at(5))
		require.ErrorIs(t, err, errs.ErrAlreadyAssigned)
	})

	t.Run("not after delivery", func(t *testing.T) {
		o, _ := deliveredOrder(t)
		_, err := o.Reassign(kernel.NewUUID(), at(5))
		require.ErrorIs(t, err, errs.ErrAlreadyFinal)
	})
}

func TestOrder_ApplyPartnerUpdate(t *testing.T) {
	t.Run("delivered", func(t *testing.T) {
		o, _ := acceptedOrder(t)

		update, err := o.ApplyPartnerUpdate(order.StatusDelivered, at(4), "doorstep", "left with guard")
		require.NoError(t, err)

		assert.Equal(t, order.PartnerUpdate{Status: order.StatusDelivered, Terminal: true, Earning: order.EarningDelivery}, update)
		assert.Equal(t, order.StatusDelivered, o.Status())
		assert.Equal(t, order.PartnerStatusDelivered, o.DeliveryPartnerStatus())
		assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
		e := lastEvent(t, o.TrackingDetails())
		assert.Equal(t, "doorstep", e.Location)
		assert.Equal(t, "left with guard", e.Notes)
	})

	t.Run("only delivered or failed_delivery from out_for_delivery", func(t *testing.T) {
		for _, s := range []order.Status{order.StatusPending, order.StatusInTransit, order.StatusCompleted, order.StatusPickedUpForReturn} {
			o, _ := acceptedOrder(t)

			_, err := o.ApplyPartnerUpdate(s, at(4), "", "")

			var transitionErr *errs.InvalidTransitionError
			require.ErrorAs(t, err, &transitionErr, s.String())
			assert.Equal(t, "out_for_delivery", transitionErr.Current)
			assert.ElementsMatch(t, []string{"delivered", "failed_delivery"}, transitionErr.Allowed)
			assert.Equal(t, order.StatusOutForDelivery, o.Status())
		}
	})

	t.Run("terminal state is final", func(t *testing.T) {
		o, _ := deliveredOrder(t)
		events := o.TrackingDetails().Len()

		_, err := o.ApplyPartnerUpdate(order.StatusDelivered, at(5), "", "")

		require.ErrorIs(t, err, errs.ErrAlreadyFinal)
		assert.Equal(t, events, o.TrackingDetails().Len())
	})

	t.Run("offered but not accepted", func(t *testing.T) {
		o, _ := offeredOrder(t)
		_, err := o.ApplyPartnerUpdate(order.StatusDelivered, at(4), "", "")
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("return pickup runs to the branch", func(t *testing.T) {
		o, _ := pickupPendingOrder(t)
		require.NoError(t, o.Offer(kernel.NewUUID(), at(13)))
		require.NoError(t, o.Accept(at(14)))
		forwardEvents := o.TrackingDetails().Len()

		update, err := o.ApplyPartnerUpdate(order.StatusPickedUp, at(15), "", "")
		require.NoError(t, err)
		assert.Equal(t, order.StatusPickedUpForReturn, update.Status)
		assert.False(t, update.Terminal)

		_, err = o.ApplyPartnerUpdate(order.StatusReturnedToBranch, at(16), "", "")
		require.ErrorIs(t, err, errs.ErrInvalidTransition)

		_, err = o.ApplyPartnerUpdate(order.StatusInTransitToBranch, at(16), "", "")
		require.NoError(t, err)
		update, err = o.ApplyPartnerUpdate(order.StatusReturnedToBranch, at(17), "", "")
		require.NoError(t, err)

		assert.Equal(t, order.PartnerUpdate{Status: order.StatusReturnedToBranch, Terminal: true, Earning: order.EarningReturnPickup}, update)
		assert.Equal(t, order.ReturnStatusReturnedToBranch, o.ReturnStatus())
		assert.Equal(t, forwardEvents, o.TrackingDetails().Len())
		assert.Equal(t, order.StatusReturnedToBranch, lastEvent(t, o.ReturnTrackingDetails()).Status)
	})
}

func TestOrder_CreditEarning(t *testing.T) {
	o, partnerID := deliveredOrder(t)

	assert.True(t, o.CreditEarning(order.EarningDelivery, partnerID, kernel.Units(50), at(5)))
	assert.False(t, o.CreditEarning(order.EarningDelivery, partnerID, kernel.Units(50), at(6)))
	assert.False(t, o.CreditEarning(order.EarningNone, partnerID, kernel.Units(50), at(6)))

	require.NotNil(t, o.DeliveryEarning())
	assert.Equal(t, kernel.Units(50), o.DeliveryEarning().Amount)
	assert.Equal(t, at(5), o.DeliveryEarning().CreditedAt)
	assert.Nil(t, o.ReturnPickupEarning())
}
