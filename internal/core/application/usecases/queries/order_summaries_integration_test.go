package queries_test

import (
	"context"
	"testing"
	"time"

	"logistics/internal/adapters/out/postgres/branchrepo"
	"logistics/internal/adapters/out/postgres/orderrepo"
	"logistics/internal/adapters/out/postgres/partnerrepo"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/actor"
	"logistics/internal/core/domain/model/branch"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/partner"
	"logistics/internal/core/domain/services"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(kernel.UUID, any) {}

// OrderSummariesTestSuite covers the branch and partner listings against PostgreSQL.
type OrderSummariesTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB

	branchOrders  queries.GetBranchOrdersQueryHandler
	partnerOrders queries.GetPartnerOrdersQueryHandler

	orderRepo   *orderrepo.GormOrderRepository
	branchRepo  *branchrepo.GormBranchRepository
	partnerRepo *partnerrepo.GormPartnerRepository

	central *branch.Branch
	rider   *partner.DeliveryPartner
	clock   time.Time
}

func (suite *OrderSummariesTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&branchrepo.BranchDTO{}, &branchrepo.BranchOrderDTO{}, &branchrepo.BranchPartnerDTO{},
		&partnerrepo.PartnerDTO{}, &partnerrepo.CurrentOrderDTO{},
	)
	suite.Require().NoError(err)

	policy := services.NewAccessPolicy()
	suite.branchOrders = queries.NewGetBranchOrdersQueryHandler(db, policy)
	suite.partnerOrders = queries.NewGetPartnerOrdersQueryHandler(db, policy)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, &mockAggregateTracker{})
	suite.branchRepo = branchrepo.NewGormBranchRepository(db, &mockAggregateTracker{})
	suite.partnerRepo = partnerrepo.NewGormPartnerRepository(db, &mockAggregateTracker{})
}

func (suite *OrderSummariesTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *OrderSummariesTestSuite) SetupTest() {
	err := suite.db.Exec(`TRUNCATE TABLE orders, branches, branch_orders, branch_partners,
		delivery_partners, partner_current_orders CASCADE`).Error
	suite.Require().NoError(err)

	ctx := context.Background()
	suite.clock = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	loc, err := kernel.NewGeoPoint(12.9716, 77.5946)
	suite.Require().NoError(err)
	suite.central, err = branch.NewBranch(kernel.NewUUID(), "Central", loc)
	suite.Require().NoError(err)

	suite.rider, err = partner.NewDeliveryPartner(kernel.NewUUID(), "Ravi")
	suite.Require().NoError(err)
	_, err = suite.rider.JoinBranch(suite.central.ID())
	suite.Require().NoError(err)
	suite.central.AddPartner(suite.rider.ID())

	suite.Require().NoError(suite.branchRepo.Add(ctx, suite.central))
	suite.Require().NoError(suite.partnerRepo.Add(ctx, suite.rider))
}

// seedBranchOrder stores a shipped order listed by the central branch.
// When offered is set the order is offered to the rider, who then holds it.
func (suite *OrderSummariesTestSuite) seedBranchOrder(offered bool) *order.Order {
	ctx := context.Background()
	suite.clock = suite.clock.Add(time.Minute)

	item, err := order.NewItem(kernel.NewUUID(), 2, kernel.Units(75), nil)
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), []order.Item{item},
		order.Address{Line1: "4 Residency Road"}, order.Address{}, order.PaymentCOD, suite.clock)
	suite.Require().NoError(err)
	suite.Require().NoError(o.AssignToBranch(suite.central.ID(), suite.central.Name(),
		suite.central.Location(), suite.clock))
	if offered {
		suite.Require().NoError(o.Offer(suite.rider.ID(), suite.clock))
		suite.rider.HoldOrder(o.ID())
		suite.Require().NoError(suite.partnerRepo.Update(ctx, suite.rider))
	}
	suite.Require().NoError(suite.orderRepo.Add(ctx, o))

	suite.central.AddOrder(o.ID())
	suite.Require().NoError(suite.branchRepo.Update(ctx, suite.central))
	return o
}

func (suite *OrderSummariesTestSuite) admin() actor.Actor {
	a, err := actor.New(kernel.NewUUID(), actor.RoleAdmin, nil)
	suite.Require().NoError(err)
	return a
}

func (suite *OrderSummariesTestSuite) manager(branchID kernel.UUID) actor.Actor {
	a, err := actor.New(kernel.NewUUID(), actor.RoleBranchManager, &branchID)
	suite.Require().NoError(err)
	return a
}

func (suite *OrderSummariesTestSuite) branchQuery(a actor.Actor, statuses []order.Status, limit, offset int) queries.GetBranchOrdersQuery {
	q, err := queries.NewGetBranchOrdersQuery(a, suite.central.ID(), statuses, limit, offset)
	suite.Require().NoError(err)
	return q
}

func (suite *OrderSummariesTestSuite) TestBranchOrders_EmptyBranch_ReturnsEmptySlice() {
	result, err := suite.branchOrders.Handle(context.Background(), suite.branchQuery(suite.admin(), nil, 0, 0))

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *OrderSummariesTestSuite) TestBranchOrders_NewestFirstWithSummaryFields() {
	first := suite.seedBranchOrder(false)
	second := suite.seedBranchOrder(true)

	result, err := suite.branchOrders.Handle(context.Background(),
		suite.branchQuery(suite.manager(suite.central.ID()), nil, 0, 0))

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal(second.ID(), result[0].ID)
	suite.Equal(first.ID(), result[1].ID)

	got := result[0]
	suite.Equal(second.Number(), got.Number)
	suite.Equal(second.CustomerID(), got.CustomerID)
	suite.Equal(order.StatusInTransit, got.Status)
	suite.Equal(order.ModeForward, got.Mode)
	suite.Require().NotNil(got.BranchID)
	suite.Equal(suite.central.ID(), *got.BranchID)
	suite.Require().NotNil(got.DeliveryPartnerID)
	suite.Equal(suite.rider.ID(), *got.DeliveryPartnerID)
	suite.Equal(order.PartnerStatusAssigned, got.DeliveryPartnerStatus)
	suite.Equal(order.AssignmentOffered, got.AssignmentStatus)
	suite.Equal(kernel.Units(150), got.Total)
	suite.Equal(int64(1), got.Version)
	suite.True(second.UpdatedAt().Equal(got.UpdatedAt))

	suite.Nil(result[1].DeliveryPartnerID)
	suite.Equal(order.StatusShipped, result[1].Status)
}

func (suite *OrderSummariesTestSuite) TestBranchOrders_StatusFilter() {
	shipped := suite.seedBranchOrder(false)
	suite.seedBranchOrder(true)

	result, err := suite.branchOrders.Handle(context.Background(),
		suite.branchQuery(suite.admin(), []order.Status{order.StatusShipped, order.StatusDelivered}, 0, 0))

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(shipped.ID(), result[0].ID)
}

func (suite *OrderSummariesTestSuite) TestBranchOrders_Paging() {
	var seeded []*order.Order
	for range 5 {
		seeded = append(seeded, suite.seedBranchOrder(false))
	}

	result, err := suite.branchOrders.Handle(context.Background(), suite.branchQuery(suite.admin(), nil, 2, 1))

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal(seeded[3].ID(), result[0].ID)
	suite.Equal(seeded[2].ID(), result[1].ID)
}

func (suite *OrderSummariesTestSuite) TestBranchOrders_OtherManager_Unauthorized() {
	result, err := suite.branchOrders.Handle(context.Background(),
		suite.branchQuery(suite.manager(kernel.NewUUID()), nil, 0, 0))

	suite.Require().ErrorIs(err, errs.ErrUnauthorized)
	suite.Nil(result)
}

func (suite *OrderSummariesTestSuite) TestBranchOrders_UnknownBranch_NotFound() {
	q, err := queries.NewGetBranchOrdersQuery(suite.admin(), kernel.NewUUID(), nil, 0, 0)
	suite.Require().NoError(err)

	_, err = suite.branchOrders.Handle(context.Background(), q)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderSummariesTestSuite) TestBranchOrders_InvalidQuery_ReturnsError() {
	result, err := suite.branchOrders.Handle(context.Background(), queries.GetBranchOrdersQuery{})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Contains(err.Error(), "must be created via NewGetBranchOrdersQuery constructor")
}

func (suite *OrderSummariesTestSuite) TestPartnerOrders_OnlyHeldOrders() {
	suite.seedBranchOrder(false)
	held := suite.seedBranchOrder(true)

	self, err := actor.New(suite.rider.ID(), actor.RoleDeliveryPartner, nil)
	suite.Require().NoError(err)
	q, err := queries.NewGetPartnerOrdersQuery(self, suite.rider.ID())
	suite.Require().NoError(err)

	result, err := suite.partnerOrders.Handle(context.Background(), q)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(held.ID(), result[0].ID)
	suite.Equal(order.PartnerStatusAssigned, result[0].DeliveryPartnerStatus)
}

func (suite *OrderSummariesTestSuite) TestPartnerOrders_Visibility() {
	suite.seedBranchOrder(true)
	otherPartner, err := actor.New(kernel.NewUUID(), actor.RoleDeliveryPartner, nil)
	suite.Require().NoError(err)

	tests := map[string]struct {
		caller  actor.Actor
		allowed bool
	}{
		"admin":             {suite.admin(), true},
		"manager of branch": {suite.manager(suite.central.ID()), true},
		"manager elsewhere": {suite.manager(kernel.NewUUID()), false},
		"another partner":   {otherPartner, false},
	}

	for name, tt := range tests {
		suite.Run(name, func() {
			q, err := queries.NewGetPartnerOrdersQuery(tt.caller, suite.rider.ID())
			suite.Require().NoError(err)

			result, err := suite.partnerOrders.Handle(context.Background(), q)
			if tt.allowed {
				suite.Require().NoError(err)
				suite.Len(result, 1)
			} else {
				suite.Require().ErrorIs(err, errs.ErrUnauthorized)
			}
		})
	}
}

func (suite *OrderSummariesTestSuite) TestPartnerOrders_UnknownPartner_NotFound() {
	q, err := queries.NewGetPartnerOrdersQuery(suite.admin(), kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.partnerOrders.Handle(context.Background(), q)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestOrderSummariesTestSuite(t *testing.T) {
	suite.Run(t, new(OrderSummariesTestSuite))
}
