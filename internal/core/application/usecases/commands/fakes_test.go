package commands_test

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/branch"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/partner"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// fixedClock is a ports.Clock the test moves by hand.
type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type branchRecord struct {
	name       string
	location   kernel.GeoPoint
	orderIDs   []kernel.UUID
	partnerIDs []kernel.UUID
}

type partnerRecord struct {
	name          string
	branchID      *kernel.UUID
	current       []kernel.UUID
	earnings      kernel.Money
	totalEarnings kernel.Money
}

type tables struct {
	orders   map[kernel.UUID]order.Snapshot
	branches map[kernel.UUID]branchRecord
	partners map[kernel.UUID]partnerRecord
}

func (t tables) clone() tables {
	return tables{
		orders:   maps.Clone(t.orders),
		branches: maps.Clone(t.branches),
		partners: maps.Clone(t.partners),
	}
}

// memStore is an in-memory database with transactional units of work. A unit
// of work copies the tables on Begin and writes them back on Commit.
type memStore struct {
	mu        sync.Mutex
	data      tables
	commits   int
	commitErr error
	locks     []lockEntry
}

// lockEntry is one GetForUpdate call on a branch or partner.
type lockEntry struct {
	table string
	id    kernel.UUID
}

func (s *memStore) lock(table string, id kernel.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks = append(s.locks, lockEntry{table, id})
}

// takenLocks returns and clears the recorded GetForUpdate calls.
func (s *memStore) takenLocks() []lockEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	locks := s.locks
	s.locks = nil
	return locks
}

func newMemStore() *memStore {
	return &memStore{data: tables{
		orders:   map[kernel.UUID]order.Snapshot{},
		branches: map[kernel.UUID]branchRecord{},
		partners: map[kernel.UUID]partnerRecord{},
	}}
}

func (s *memStore) Create() commands.UoW {
	return &memUoW{store: s}
}

// orderOnly exposes the store as a commands.OrderUoWFactory.
type orderOnly struct{ store *memStore }

func (f orderOnly) Create() commands.OrderUoW {
	return &memUoW{store: f.store}
}

func (s *memStore) snapshot() tables {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.clone()
}

func (s *memStore) order(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	o, err := (&memUoW{store: s}).OrderRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return o
}

func (s *memStore) branch(t *testing.T, id kernel.UUID) *branch.Branch {
	t.Helper()
	b, err := (&memUoW{store: s}).BranchRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return b
}

func (s *memStore) partner(t *testing.T, id kernel.UUID) *partner.DeliveryPartner {
	t.Helper()
	p, err := (&memUoW{store: s}).DeliveryPartnerRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return p
}

// put writes aggregates straight into the committed tables.
func (s *memStore) put(t *testing.T, aggregates ...any) {
	t.Helper()
	uow := &memUoW{store: s}
	ctx := t.Context()
	require.NoError(t, uow.Begin(ctx))
	for _, a := range aggregates {
		switch a := a.(type) {
		case *order.Order:
			require.NoError(t, uow.OrderRepository().Add(ctx, a))
		case *branch.Branch:
			require.NoError(t, uow.BranchRepository().Add(ctx, a))
		case *partner.DeliveryPartner:
			require.NoError(t, uow.DeliveryPartnerRepository().Add(ctx, a))
		default:
			t.Fatalf("unsupported aggregate %T", a)
		}
	}
	require.NoError(t, uow.Commit(ctx))
}

var errNoTransaction = errors.New("no active transaction")

type memUoW struct {
	store *memStore
	tx    *tables
}

func (u *memUoW) Begin(_ context.Context) error {
	snap := u.store.snapshot()
	u.tx = &snap
	return nil
}

func (u *memUoW) Commit(_ context.Context) error {
	if u.tx == nil {
		return errNoTransaction
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	if u.store.commitErr != nil {
		return u.store.commitErr
	}
	u.store.data = *u.tx
	u.store.commits++
	u.tx = nil
	return nil
}

func (u *memUoW) Rollback(_ context.Context) error {
	if u.tx == nil {
		return errNoTransaction
	}
	u.tx = nil
	return nil
}

// view returns the tables a repository reads and writes: the transaction's
// copy when one is active, a throwaway copy of the committed state otherwise.
func (u *memUoW) view() *tables {
	if u.tx != nil {
		return u.tx
	}
	snap := u.store.snapshot()
	return &snap
}

func (u *memUoW) OrderRepository() ports.OrderRepository {
	return memOrders{u.view()}
}

func (u *memUoW) BranchRepository() ports.BranchRepository {
	return memBranches{u.view(), u.store}
}

func (u *memUoW) DeliveryPartnerRepository() ports.DeliveryPartnerRepository {
	return memPartners{u.view(), u.store}
}

type memOrders struct{ t *tables }

func (r memOrders) Add(_ context.Context, o *order.Order) error {
	if _, ok := r.t.orders[o.ID()]; ok {
		return fmt.Errorf("order %s already exists", o.ID())
	}
	o.MarkPersisted(1)
	r.t.orders[o.ID()] = o.Snapshot()
	return nil
}

func (r memOrders) Update(_ context.Context, o *order.Order) error {
	stored, ok := r.t.orders[o.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID().String())
	}
	if stored.Version != o.Version() {
		return errs.NewVersionIsInvalidError("version",
			fmt.Errorf("stored version is %d, got %d", stored.Version, o.Version()))
	}
	o.MarkPersisted(stored.Version + 1)
	r.t.orders[o.ID()] = o.Snapshot()
	return nil
}

func (r memOrders) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s, ok := r.t.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(s)
}

func (r memOrders) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.Get(ctx, id)
}

func (r memOrders) FindHeldBy(_ context.Context, partnerID kernel.UUID) ([]kernel.UUID, error) {
	var ids []kernel.UUID
	for id, s := range r.t.orders {
		if s.DeliveryPartnerID != nil && s.DeliveryPartnerID.IsEqual(partnerID) && s.DeliveryPartnerStatus.IsActive() {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r memOrders) FindOfferedBefore(_ context.Context, deadline time.Time, limit int) ([]kernel.UUID, error) {
	var ids []kernel.UUID
	for id, s := range r.t.orders {
		a := s.Assignment
		if a.Status == order.AssignmentOffered && a.AssignedAt != nil && a.AssignedAt.Before(deadline) {
			ids = append(ids, id)
		}
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r memOrders) FindUnlistedBranchOrders(_ context.Context) ([]ports.BranchAssignment, error) {
	var out []ports.BranchAssignment
	for id, s := range r.t.orders {
		if s.BranchID == nil {
			continue
		}
		rec, ok := r.t.branches[*s.BranchID]
		if !ok || slices.ContainsFunc(rec.orderIDs, id.IsEqual) {
			continue
		}
		out = append(out, ports.BranchAssignment{OrderID: id, BranchID: *s.BranchID})
	}
	return out, nil
}

type memBranches struct {
	t     *tables
	store *memStore
}

func (r memBranches) Add(_ context.Context, b *branch.Branch) error {
	if _, ok := r.t.branches[b.ID()]; ok {
		return fmt.Errorf("branch %s already exists", b.ID())
	}
	r.t.branches[b.ID()] = branchRecordOf(b)
	return nil
}

func (r memBranches) Update(_ context.Context, b *branch.Branch) error {
	if _, ok := r.t.branches[b.ID()]; !ok {
		return errs.NewObjectNotFoundError("branch", b.ID().String())
	}
	r.t.branches[b.ID()] = branchRecordOf(b)
	return nil
}

func (r memBranches) Get(_ context.Context, id kernel.UUID) (*branch.Branch, error) {
	rec, ok := r.t.branches[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("branch", id.String())
	}
	return branch.RestoreBranch(id, rec.name, rec.location, rec.orderIDs, rec.partnerIDs)
}

func (r memBranches) GetForUpdate(ctx context.Context, id kernel.UUID) (*branch.Branch, error) {
	r.store.lock("branches", id)
	return r.Get(ctx, id)
}

func (r memBranches) FindWithin(ctx context.Context, box kernel.BoundingBox) ([]*branch.Branch, error) {
	var out []*branch.Branch
	for id, rec := range r.t.branches {
		if !box.Contains(rec.location) {
			continue
		}
		b, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func branchRecordOf(b *branch.Branch) branchRecord {
	return branchRecord{name: b.Name(), location: b.Location(), orderIDs: b.OrderIDs(), partnerIDs: b.PartnerIDs()}
}

type memPartners struct {
	t     *tables
	store *memStore
}

func (r memPartners) Add(_ context.Context, p *partner.DeliveryPartner) error {
	if _, ok := r.t.partners[p.ID()]; ok {
		return fmt.Errorf("delivery partner %s already exists", p.ID())
	}
	r.t.partners[p.ID()] = partnerRecordOf(p)
	p.MarkCreditSaved()
	return nil
}

// Update adds the partner's unsaved credit to the stored earnings, as the
// PostgreSQL repository does.
func (r memPartners) Update(_ context.Context, p *partner.DeliveryPartner) error {
	stored, ok := r.t.partners[p.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("delivery partner", p.ID().String())
	}
	rec := partnerRecordOf(p)
	rec.earnings = stored.earnings + p.UnsavedCredit()
	rec.totalEarnings = stored.totalEarnings + p.UnsavedCredit()
	r.t.partners[p.ID()] = rec
	p.MarkCreditSaved()
	return nil
}

func (r memPartners) Get(_ context.Context, id kernel.UUID) (*partner.DeliveryPartner, error) {
	rec, ok := r.t.partners[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("delivery partner", id.String())
	}
	return partner.RestoreDeliveryPartner(id, rec.name, rec.branchID, rec.current, rec.earnings, rec.totalEarnings)
}

func (r memPartners) GetForUpdate(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error) {
	r.store.lock("partners", id)
	return r.Get(ctx, id)
}

func (r memPartners) ListIDs(_ context.Context) ([]kernel.UUID, error) {
	ids := slices.Collect(maps.Keys(r.t.partners))
	slices.SortFunc(ids, func(a, b kernel.UUID) int {
		return cmp.Compare(a.String(), b.String())
	})
	return ids, nil
}

func partnerRecordOf(p *partner.DeliveryPartner) partnerRecord {
	return partnerRecord{
		name:          p.Name(),
		branchID:      p.BranchID(),
		current:       p.CurrentOrderIDs(),
		earnings:      p.Earnings(),
		totalEarnings: p.TotalEarnings(),
	}
}

// recordingMetrics keeps what handlers reported.
type recordingMetrics struct {
	mu          sync.Mutex
	transitions []string
	rejections  []string
	earnings    []kernel.Money
}

func (m *recordingMetrics) ObserveTransition(operation string, status order.Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, operation+":"+string(status))
}

func (m *recordingMetrics) ObserveRejection(operation string, _ error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections = append(m.rejections, operation)
}

func (m *recordingMetrics) ObserveEarning(_ order.EarningKind, amount kernel.Money) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.earnings = append(m.earnings, amount)
}

func mustActor(t *testing.T, id kernel.UUID, role actor.Role, branchID *kernel.UUID) actor.Actor {
	t.Helper()
	a, err := actor.New(id, role, branchID)
	require.NoError(t, err)
	return a
}
