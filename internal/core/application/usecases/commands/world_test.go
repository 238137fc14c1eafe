package commands_test

import (
	"log/slog"
	"math"
	"testing"
	"time"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/branch"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/partner"

	"github.com/stretchr/testify/require"
)

// kmPerDegree is the length of one degree of longitude on the equator.
const kmPerDegree = kernel.EarthRadiusKm * math.Pi / 180

// eastOfOrigin returns the equator point km kilometres east of (0, 0).
func eastOfOrigin(t *testing.T, km float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(0, km/kmPerDegree)
	require.NoError(t, err)
	return p
}

// world wires handlers to an in-memory store and a hand-driven clock.
type world struct {
	store   *memStore
	clock   *fixedClock
	metrics *recordingMetrics
	env     commands.Env
	admin   actor.Actor
	seeded  int
}

func newWorld(t *testing.T) *world {
	t.Helper()
	w := &world{
		store:   newMemStore(),
		clock:   &fixedClock{now: t0},
		metrics: &recordingMetrics{},
	}
	w.env = commands.Env{
		Clock:   w.clock,
		Metrics: w.metrics,
		Logger:  slog.New(slog.DiscardHandler),
	}
	w.admin = mustActor(t, kernel.NewUUID(), actor.RoleAdmin, nil)
	return w
}

func (w *world) tick() {
	w.clock.Advance(time.Minute)
}

// seedBranch stores a branch km east of the origin with n partners on its
// roster. Every branch is shifted by a metre so that no two share a location.
func (w *world) seedBranch(t *testing.T, name string, km float64, n int) (*branch.Branch, []*partner.DeliveryPartner) {
	t.Helper()
	w.seeded++
	b, err := branch.NewBranch(kernel.NewUUID(), name, eastOfOrigin(t, km+float64(w.seeded)*0.001))
	require.NoError(t, err)

	aggregates := []any{b}
	partners := make([]*partner.DeliveryPartner, 0, n)
	for range n {
		p, err := partner.NewDeliveryPartner(kernel.NewUUID(), "Ravi")
		require.NoError(t, err)
		_, err = p.JoinBranch(b.ID())
		require.NoError(t, err)
		b.AddPartner(p.ID())
		partners = append(partners, p)
		aggregates = append(aggregates, p)
	}
	w.store.put(t, aggregates...)
	return b, partners
}

func (w *world) manager(t *testing.T, b *branch.Branch) actor.Actor {
	t.Helper()
	id := b.ID()
	return mustActor(t, kernel.NewUUID(), actor.RoleBranchManager, &id)
}

func (w *world) courier(t *testing.T, p *partner.DeliveryPartner) actor.Actor {
	t.Helper()
	return mustActor(t, p.ID(), actor.RoleDeliveryPartner, nil)
}

func (w *world) customer(t *testing.T, o *order.Order) actor.Actor {
	t.Helper()
	return mustActor(t, o.CustomerID(), actor.RoleCustomer, nil)
}

// placeOrder creates an order of one product bought qty times at unitPrice units.
func (w *world) placeOrder(t *testing.T, unitPrice int64, qty int, method order.PaymentMethod) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), qty, kernel.Units(unitPrice), nil)
	require.NoError(t, err)

	home := eastOfOrigin(t, 5)
	customer := mustActor(t, kernel.NewUUID(), actor.RoleCustomer, nil)
	cmd, err := commands.NewCreateOrderCommand(customer, kernel.NewUUID(), customer.UserID,
		[]order.Item{item},
		order.Address{Name: "A. Customer", Line1: "12 MG Road", City: "Bengaluru", Coordinates: &home},
		order.Address{}, method)
	require.NoError(t, err)

	h := commands.NewCreateOrderCommandHandler(orderOnly{w.store}, w.env)
	o, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	w.tick()
	return o
}

func (w *world) assign(t *testing.T, a actor.Actor, o *order.Order, origin *kernel.GeoPoint) (*order.Order, error) {
	t.Helper()
	cmd, err := commands.NewAssignOrderToBranchCommand(a, o.ID(), origin)
	require.NoError(t, err)
	h := commands.NewAssignOrderToBranchCommandHandler(w.store, w.env)
	defer w.tick()
	return h.Handle(t.Context(), cmd)
}

func (w *world) offer(t *testing.T, a actor.Actor, o *order.Order, p *partner.DeliveryPartner) (*order.Order, error) {
	t.Helper()
	cmd, err := commands.NewOfferToPartnerCommand(a, o.ID(), p.ID())
	require.NoError(t, err)
	h := commands.NewOfferToPartnerCommandHandler(w.store, w.env)
	defer w.tick()
	return h.Handle(t.Context(), cmd)
}

func (w *world) accept(t *testing.T, p *partner.DeliveryPartner, o *order.Order) (*order.Order, error) {
	t.Helper()
	cmd, err := commands.NewAcceptAssignmentCommand(w.courier(t, p), o.ID())
	require.NoError(t, err)
	h := commands.NewAcceptAssignmentCommandHandler(w.store, w.env)
	defer w.tick()
	return h.Handle(t.Context(), cmd)
}

func (w *world) reject(t *testing.T, p *partner.DeliveryPartner, o *order.Order, reason string) (*order.Order, error) {
	t.Helper()
	cmd, err := commands.NewRejectAssignmentCommand(w.courier(t, p), o.ID(), reason)
	require.NoError(t, err)
	h := commands.NewRejectAssignmentCommandHandler(w.store, w.env)
	defer w.tick()
	return h.Handle(t.Context(), cmd)
}

func (w *world) report(t *testing.T, p *partner.DeliveryPartner, o *order.Order, status order.Status) (*order.Order, error) {
	t.Helper()
	cmd, err := commands.NewUpdateDeliveryStatusCommand(w.courier(t, p), o.ID(), status, "", "")
	require.NoError(t, err)
	h := commands.NewUpdateDeliveryStatusCommandHandler(w.store, w.env)
	defer w.tick()
	return h.Handle(t.Context(), cmd)
}

// dispatched returns an order of total units, shipped from a new branch 12 km
// east of the origin that has two partners on its roster.
func (w *world) dispatched(t *testing.T, units int64) (*order.Order, *branch.Branch, []*partner.DeliveryPartner) {
	t.Helper()
	b, partners := w.seedBranch(t, "Koramangala", 12, 2)
	o := w.placeOrder(t, units, 1, order.PaymentCOD)

	origin := b.Location()
	o, err := w.assign(t, w.admin, o, &origin)
	require.NoError(t, err)
	return o, b, partners
}

// outForDelivery offers and accepts the dispatched order with the first partner.
func (w *world) outForDelivery(t *testing.T, units int64) (*order.Order, *branch.Branch, *partner.DeliveryPartner) {
	t.Helper()
	o, b, partners := w.dispatched(t, units)
	p := partners[0]

	_, err := w.offer(t, w.manager(t, b), o, p)
	require.NoError(t, err)
	o, err = w.accept(t, p, o)
	require.NoError(t, err)
	require.Equal(t, order.StatusOutForDelivery, o.Status())
	return o, b, p
}
