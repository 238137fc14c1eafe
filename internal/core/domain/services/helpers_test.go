package services_test

import (
	"math"
	"testing"
	"time"

	"logistics/internal/core/domain/model/branch"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/partner"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return t0.Add(time.Duration(minutes) * time.Minute)
}

// kmPerDegree is the length of one degree of longitude on the equator.
const kmPerDegree = kernel.EarthRadiusKm * math.Pi / 180

// eastOfOrigin returns the equator point km kilometres east of (0, 0).
func eastOfOrigin(t *testing.T, km float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(0, km/kmPerDegree)
	require.NoError(t, err)
	return p
}

func newBranch(t *testing.T, name string, location kernel.GeoPoint) *branch.Branch {
	t.Helper()
	b, err := branch.NewBranch(kernel.NewUUID(), name, location)
	require.NoError(t, err)
	return b
}

// rosterPartner returns a partner that joined b.
func rosterPartner(t *testing.T, b *branch.Branch) *partner.DeliveryPartner {
	t.Helper()
	p, err := partner.NewDeliveryPartner(kernel.NewUUID(), "Ravi")
	require.NoError(t, err)
	_, err = p.JoinBranch(b.ID())
	require.NoError(t, err)
	b.AddPartner(p.ID())
	return p
}

func newOrder(t *testing.T, units int64) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), 1, kernel.Units(units), nil)
	require.NoError(t, err)
	home := eastOfOrigin(t, 5)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []order.Item{item},
		order.Address{Name: "A. Customer", Coordinates: &home}, order.Address{}, order.PaymentCOD, t0)
	require.NoError(t, err)
	return o
}

// shippedOrder returns an order bound to a fresh branch with one partner on its roster.
func shippedOrder(t *testing.T, units int64) (*order.Order, *branch.Branch, *partner.DeliveryPartner) {
	t.Helper()
	o := newOrder(t, units)
	b := newBranch(t, "Koramangala", eastOfOrigin(t, 12))
	require.NoError(t, o.AssignToBranch(b.ID(), b.Name(), b.Location(), at(1)))
	b.AddOrder(o.ID())
	return o, b, rosterPartner(t, b)
}
