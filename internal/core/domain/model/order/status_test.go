package order_test

import (
	"testing"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	s, err := order.ParseStatus("out_for_delivery")
	require.NoError(t, err)
	assert.Equal(t, order.StatusOutForDelivery, s)

	for _, in := range []string{"", "OUT_FOR_DELIVERY", "lost"} {
		_, err := order.ParseStatus(in)
		require.Error(t, err, in)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
		assert.Contains(t, err.Error(), "status is invalid")
	}
}

func TestStatus_Successors(t *testing.T) {
	assert.ElementsMatch(t,
		[]order.Status{order.StatusProcessing, order.StatusConfirm, order.StatusCancelled, order.StatusFailed, order.StatusRefunded},
		order.StatusPending.Successors())
	assert.ElementsMatch(t,
		[]order.Status{order.StatusDelivered, order.StatusFailedDelivery, order.StatusAssigned, order.StatusInTransit},
		order.StatusOutForDelivery.Successors())
	assert.Empty(t, order.StatusCancelled.Successors())

	t.Run("returned slice is a copy", func(t *testing.T) {
		s := order.StatusShipped.Successors()
		s[0] = order.StatusCancelled
		assert.False(t, order.StatusShipped.CanTransitionTo(order.StatusCancelled))
	})
}

func TestStatus_Predicates(t *testing.T) {
	tests := []struct {
		status      order.Status
		terminal    bool
		cancellable bool
		isReturn    bool
	}{
		{order.StatusPending, false, true, false},
		{order.StatusConfirm, false, true, false},
		{order.StatusShipped, false, false, false},
		{order.StatusDelivered, false, false, false},
		{order.StatusCancelled, true, false, false},
		{order.StatusFailedDelivery, true, false, false},
		{order.StatusPendingPickup, false, false, true},
		{order.StatusReturnRefunded, true, false, true},
		{order.StatusReturnRejected, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.cancellable, tt.status.CanBeCancelled())
			assert.Equal(t, tt.isReturn, tt.status.IsReturn())
		})
	}
}

func TestOrder_ReturnStatusProjection(t *testing.T) {
	o, _ := deliveredOrder(t)
	assert.Equal(t, order.ReturnStatusNone, o.ReturnStatus())

	items := o.Items()
	require.NoError(t, o.RequestReturn("wrong size", []order.ReturnedItem{{ProductID: items[0].ProductID, Quantity: 1}}, at(10)))
	assert.Equal(t, order.ReturnStatusRequested, o.ReturnStatus())

	require.NoError(t, o.SetReturnApproval(true, "", at(11)))
	assert.Equal(t, order.StatusReturnApproved, o.Status())
	assert.Equal(t, order.ReturnStatusApproved, o.ReturnStatus())
}
