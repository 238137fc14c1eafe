package order_test

import (
	"testing"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return t0.Add(time.Duration(minutes) * time.Minute)
}

func newItem(t *testing.T, qty int, units int64) order.Item {
	t.Helper()
	it, err := order.NewItem(kernel.NewUUID(), qty, kernel.Units(units), nil)
	require.NoError(t, err)
	return it
}

func shippingAddress(t *testing.T) order.Address {
	t.Helper()
	p, err := kernel.NewGeoPoint(12.9352, 77.6245)
	require.NoError(t, err)
	return order.Address{Name: "A. Customer", Line1: "80 Feet Road", City: "Bengaluru", Country: "IN", Coordinates: &p}
}

func newOrder(t *testing.T, method order.PaymentMethod, items ...order.Item) *order.Order {
	t.Helper()
	if len(items) == 0 {
		items = []order.Item{newItem(t, 2, 150)}
	}
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), items, shippingAddress(t), order.Address{}, method, t0)
	require.NoError(t, err)
	return o
}

func branchLocation(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(12.97, 77.59)
	require.NoError(t, err)
	return p
}

// shippedOrder returns a COD order assigned to a branch.
func shippedOrder(t *testing.T, items ...order.Item) (*order.Order, kernel.UUID) {
	t.Helper()
	o := newOrder(t, order.PaymentCOD, items...)
	branchID := kernel.NewUUID()
	require.NoError(t, o.AssignToBranch(branchID, "Koramangala", branchLocation(t), at(1)))
	return o, branchID
}

func offeredOrder(t *testing.T, items ...order.Item) (*order.Order, kernel.UUID) {
	t.Helper()
	o, _ := shippedOrder(t, items...)
	partnerID := kernel.NewUUID()
	require.NoError(t, o.Offer(partnerID, at(2)))
	return o, partnerID
}

func acceptedOrder(t *testing.T, items ...order.Item) (*order.Order, kernel.UUID) {
	t.Helper()
	o, partnerID := offeredOrder(t, items...)
	require.NoError(t, o.Accept(at(3)))
	return o, partnerID
}

func deliveredOrder(t *testing.T, items ...order.Item) (*order.Order, kernel.UUID) {
	t.Helper()
	o, partnerID := acceptedOrder(t, items...)
	_, err := o.ApplyPartnerUpdate(order.StatusDelivered, at(4), "doorstep", "")
	require.NoError(t, err)
	return o, partnerID
}

// pickupPendingOrder returns a return order assigned to a branch for pickup.
func pickupPendingOrder(t *testing.T) (*order.Order, []order.Item) {
	t.Helper()
	items := []order.Item{newItem(t, 2, 150), newItem(t, 1, 400)}
	o, _ := deliveredOrder(t, items...)
	require.NoError(t, o.RequestReturn("damaged", []order.ReturnedItem{{ProductID: items[0].ProductID, Quantity: 1}}, at(10)))
	require.NoError(t, o.SetReturnApproval(true, "", at(11)))
	require.NoError(t, o.AssignToBranch(kernel.NewUUID(), "Indiranagar", branchLocation(t), at(12)))
	return o, items
}

func lastEvent(t *testing.T, log order.TrackingLog) order.TrackingEvent {
	t.Helper()
	e, ok := log.Last()
	require.True(t, ok)
	return e
}
