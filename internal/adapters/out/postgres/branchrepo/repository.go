package branchrepo

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/branch"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBranchRepository implements BranchRepository using GORM.
type GormBranchRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormBranchRepository creates a new GORM branch repository.
func NewGormBranchRepository(db *gorm.DB, tracker aggregateTracker) *GormBranchRepository {
	return &GormBranchRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new branch together with its memberships.
func (r *GormBranchRepository) Add(ctx context.Context, aggregate *branch.Branch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves the branch row and merges its memberships. Order memberships
// are inserted if missing and never deleted; the partner roster is replaced.
func (r *GormBranchRepository) Update(ctx context.Context, aggregate *branch.Branch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&BranchDTO{}).Where("id = ?", dto.ID).
		Select("name", "latitude", "longitude").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("branch", aggregate.ID().String())
	}

	if len(dto.Orders) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.Orders).Error; err != nil {
			return err
		}
	}

	stale := db.Where("branch_id = ?", dto.ID)
	if len(dto.Partners) > 0 {
		keep := make([]uuid.UUID, 0, len(dto.Partners))
		for _, p := range dto.Partners {
			keep = append(keep, p.PartnerID)
		}
		stale = stale.Where("partner_id NOT IN ?", keep)
	}
	if err := stale.Delete(&BranchPartnerDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Partners) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.Partners).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a branch by ID.
func (r *GormBranchRepository) Get(ctx context.Context, id kernel.UUID) (*branch.Branch, error) {
	return r.get(ctx, false, id)
}

// GetForUpdate retrieves a branch by ID and locks its row until the
// transaction ends. Roster changes go through it.
func (r *GormBranchRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*branch.Branch, error) {
	return r.get(ctx, true, id)
}

func (r *GormBranchRepository) get(ctx context.Context, lock bool, id kernel.UUID) (*branch.Branch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	if lock {
		var locked BranchDTO
		err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").First(&locked, "id = ?", id.Bytes()).Error
		if err != nil {
			return nil, notFound(err, id)
		}
	}

	var dto BranchDTO
	if err := r.preload(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, notFound(err, id)
	}

	return toDomain(dto)
}

func notFound(err error, id kernel.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("branch", id.String())
	}
	return err
}

// FindWithin returns the branches inside box. A box that crosses the
// antimeridian is matched as two longitude ranges.
//
// Example:
//
//	box, _ := origin.BoundingBox(500)
//	candidates, err := repo.FindWithin(ctx, box)
func (r *GormBranchRepository) FindWithin(ctx context.Context, box kernel.BoundingBox) ([]*branch.Branch, error) {
	q := r.preload(ctx).Where("latitude BETWEEN ? AND ?", box.MinLatitude, box.MaxLatitude)
	switch {
	case box.MinLongitude < kernel.LongitudeMin:
		q = q.Where("(longitude >= ? OR longitude <= ?)", box.MinLongitude+360, box.MaxLongitude)
	case box.MaxLongitude > kernel.LongitudeMax:
		q = q.Where("(longitude >= ? OR longitude <= ?)", box.MinLongitude, box.MaxLongitude-360)
	default:
		q = q.Where("longitude BETWEEN ? AND ?", box.MinLongitude, box.MaxLongitude)
	}

	var dtos []BranchDTO
	if err := q.Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	branches := make([]*branch.Branch, 0, len(dtos))
	for _, dto := range dtos {
		b, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}

	return branches, nil
}

func (r *GormBranchRepository) preload(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("order_id") }).
		Preload("Partners", func(db *gorm.DB) *gorm.DB { return db.Order("partner_id") })
}
