package branchrepo_test

import (
	"context"
	"testing"
	"time"

	"logistics/internal/adapters/out/postgres/branchrepo"
	"logistics/internal/core/domain/model/branch"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// BranchRepositoryIntegrationTestSuite verifies branch persistence and the
// geographic pre-filter against a PostgreSQL container.
type BranchRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *branchrepo.GormBranchRepository
	tracker    *MockAggregateTracker
}

func (suite *BranchRepositoryIntegrationTestSuite) SetupSuite() {
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&branchrepo.BranchDTO{}, &branchrepo.BranchOrderDTO{}, &branchrepo.BranchPartnerDTO{}))
}

func (suite *BranchRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE branches, branch_orders, branch_partners").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = branchrepo.NewGormBranchRepository(suite.db, suite.tracker)
}

func (suite *BranchRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *BranchRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	b := suite.newBranch("Koramangala", 12.9352, 77.6245)
	orderID, partnerID := kernel.NewUUID(), kernel.NewUUID()
	b.AddOrder(orderID)
	b.AddPartner(partnerID)

	suite.Require().NoError(suite.repository.Add(ctx, b))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", b.ID(), b)

	got, err := suite.repository.Get(ctx, b.ID())
	suite.Require().NoError(err)
	suite.Equal("Koramangala", got.Name())
	suite.InDelta(12.9352, got.Location().Latitude(), 1e-9)
	suite.InDelta(77.6245, got.Location().Longitude(), 1e-9)
	suite.Equal([]kernel.UUID{orderID}, got.OrderIDs())
	suite.Equal([]kernel.UUID{partnerID}, got.PartnerIDs())
}

func (suite *BranchRepositoryIntegrationTestSuite) TestGet_NonExistentBranch_ReturnsNotFoundError() {
	got, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(got)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *BranchRepositoryIntegrationTestSuite) TestUpdate_OrdersAreNeverRemoved() {
	ctx := context.Background()
	b := suite.newBranch("Whitefield", 12.9698, 77.7500)
	first := kernel.NewUUID()
	b.AddOrder(first)
	suite.Require().NoError(suite.repository.Add(ctx, b))

	// a copy loaded before the first order was listed
	stale, err := branch.RestoreBranch(b.ID(), b.Name(), b.Location(), nil, nil)
	suite.Require().NoError(err)
	second := kernel.NewUUID()
	stale.AddOrder(second)
	suite.Require().NoError(suite.repository.Update(ctx, stale))

	// saving the same membership twice keeps one row
	suite.Require().NoError(suite.repository.Update(ctx, stale))

	got, err := suite.repository.Get(ctx, b.ID())
	suite.Require().NoError(err)
	suite.ElementsMatch([]kernel.UUID{first, second}, got.OrderIDs())

	var rows int64
	suite.Require().NoError(suite.db.Model(&branchrepo.BranchOrderDTO{}).Count(&rows).Error)
	suite.Equal(int64(2), rows)
}

func (suite *BranchRepositoryIntegrationTestSuite) TestUpdate_RosterIsReplaced() {
	ctx := context.Background()
	b := suite.newBranch("Jayanagar", 12.9250, 77.5938)
	leaving, staying := kernel.NewUUID(), kernel.NewUUID()
	b.AddPartner(leaving)
	b.AddPartner(staying)
	suite.Require().NoError(suite.repository.Add(ctx, b))

	b.RemovePartner(leaving)
	joining := kernel.NewUUID()
	b.AddPartner(joining)
	suite.Require().NoError(suite.repository.Update(ctx, b))

	got, err := suite.repository.Get(ctx, b.ID())
	suite.Require().NoError(err)
	suite.ElementsMatch([]kernel.UUID{staying, joining}, got.PartnerIDs())

	b.RemovePartner(staying)
	b.RemovePartner(joining)
	suite.Require().NoError(suite.repository.Update(ctx, b))

	got, err = suite.repository.Get(ctx, b.ID())
	suite.Require().NoError(err)
	suite.Empty(got.PartnerIDs())
}

func (suite *BranchRepositoryIntegrationTestSuite) TestUpdate_NonExistentBranch_ReturnsNotFoundError() {
	err := suite.repository.Update(context.Background(), suite.newBranch("Ghost", 1, 1))
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *BranchRepositoryIntegrationTestSuite) TestGetForUpdate_LocksRowUntilCommit() {
	ctx := context.Background()
	b := suite.newBranch("Jayanagar", 12.925, 77.5938)
	suite.Require().NoError(suite.repository.Add(ctx, b))

	holder := suite.db.Begin()
	defer holder.Rollback()
	locked, err := branchrepo.NewGormBranchRepository(holder, suite.tracker).GetForUpdate(ctx, b.ID())
	suite.Require().NoError(err)
	suite.Equal(b.ID(), locked.ID())

	waiter := suite.db.Begin()
	defer waiter.Rollback()
	suite.Require().NoError(waiter.Exec("SET LOCAL lock_timeout = '200ms'").Error)
	_, err = branchrepo.NewGormBranchRepository(waiter, suite.tracker).GetForUpdate(ctx, b.ID())
	suite.Require().Error(err)

	_, err = suite.repository.Get(ctx, b.ID())
	suite.Require().NoError(err)
}

func (suite *BranchRepositoryIntegrationTestSuite) TestGetForUpdate_NonExistentBranch_ReturnsNotFoundError() {
	_, err := suite.repository.GetForUpdate(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *BranchRepositoryIntegrationTestSuite) TestFindWithin() {
	ctx := context.Background()

	near := suite.newBranch("Indiranagar", 12.9784, 77.6408)
	far := suite.newBranch("Mysuru", 12.2958, 76.6394)
	suva := suite.newBranch("Suva", -18.1416, 178.4419)
	taveuni := suite.newBranch("Taveuni", -16.8500, -179.9700)
	for _, b := range []*branch.Branch{near, far, suva, taveuni} {
		suite.Require().NoError(suite.repository.Add(ctx, b))
	}

	suite.Run("plain box", func() {
		origin, err := kernel.NewGeoPoint(12.9716, 77.5946)
		suite.Require().NoError(err)
		box, err := origin.BoundingBox(20)
		suite.Require().NoError(err)

		found, err := suite.repository.FindWithin(ctx, box)
		suite.Require().NoError(err)
		suite.Require().Len(found, 1)
		suite.Equal(near.ID(), found[0].ID())
	})

	suite.Run("box crossing the antimeridian", func() {
		origin, err := kernel.NewGeoPoint(-17.5, 179.5)
		suite.Require().NoError(err)
		box, err := origin.BoundingBox(200)
		suite.Require().NoError(err)
		suite.Require().True(box.CrossesAntimeridian())

		found, err := suite.repository.FindWithin(ctx, box)
		suite.Require().NoError(err)
		ids := make([]kernel.UUID, 0, len(found))
		for _, b := range found {
			ids = append(ids, b.ID())
		}
		suite.ElementsMatch([]kernel.UUID{suva.ID(), taveuni.ID()}, ids)
	})
}

func (suite *BranchRepositoryIntegrationTestSuite) newBranch(name string, lat, lng float64) *branch.Branch {
	location, err := kernel.NewGeoPoint(lat, lng)
	suite.Require().NoError(err)
	b, err := branch.NewBranch(kernel.NewUUID(), name, location)
	suite.Require().NoError(err)
	return b
}

func TestBranchRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(BranchRepositoryIntegrationTestSuite))
}
