package partnerrepo

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/partner"
	"logistics/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPartnerRepository implements DeliveryPartnerRepository using GORM.
type GormPartnerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPartnerRepository creates a new GORM delivery partner repository.
func NewGormPartnerRepository(db *gorm.DB, tracker aggregateTracker) *GormPartnerRepository {
	return &GormPartnerRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new partner to the database.
func (r *GormPartnerRepository) Add(ctx context.Context, aggregate *partner.DeliveryPartner) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	aggregate.MarkCreditSaved()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves the partner row and replaces its current orders with the
// aggregate's set. Earnings are written as increments of the credit made since
// the partner was loaded, so a concurrent credit is never overwritten.
func (r *GormPartnerRepository) Update(ctx context.Context, aggregate *partner.DeliveryPartner) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	columns := map[string]any{
		"name":      dto.Name,
		"branch_id": dto.BranchID,
	}
	if credit := int64(aggregate.UnsavedCredit()); credit > 0 {
		columns["earnings_minor"] = gorm.Expr("earnings_minor + ?", credit)
		columns["total_earnings_minor"] = gorm.Expr("total_earnings_minor + ?", credit)
	}
	result := db.Model(&PartnerDTO{}).Where("id = ?", dto.ID).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery partner", aggregate.ID().String())
	}

	stale := db.Where("partner_id = ?", dto.ID)
	if len(dto.CurrentOrders) > 0 {
		keep := make([]uuid.UUID, 0, len(dto.CurrentOrders))
		for _, o := range dto.CurrentOrders {
			keep = append(keep, o.OrderID)
		}
		stale = stale.Where("order_id NOT IN ?", keep)
	}
	if err := stale.Delete(&CurrentOrderDTO{}).Error; err != nil {
		return err
	}
	if len(dto.CurrentOrders) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.CurrentOrders).Error; err != nil {
			return err
		}
	}

	aggregate.MarkCreditSaved()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a partner by ID.
func (r *GormPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error) {
	return r.get(ctx, false, id)
}

// GetForUpdate retrieves a partner by ID and locks its row until the
// transaction ends.
func (r *GormPartnerRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error) {
	return r.get(ctx, true, id)
}

func (r *GormPartnerRepository) get(ctx context.Context, lock bool, id kernel.UUID) (*partner.DeliveryPartner, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	if lock {
		// The row is locked before the current orders are read.
		var locked PartnerDTO
		err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&locked, "id = ?", id.Bytes()).Error
		if err != nil {
			return nil, notFound(err, id)
		}
	}

	var dto PartnerDTO
	err := db.
		Preload("CurrentOrders", func(db *gorm.DB) *gorm.DB { return db.Order("order_id") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		return nil, notFound(err, id)
	}

	return toDomain(dto)
}

func notFound(err error, id kernel.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("delivery partner", id.String())
	}
	return err
}

// ListIDs returns every partner id in ascending order.
func (r *GormPartnerRepository) ListIDs(ctx context.Context) ([]kernel.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&PartnerDTO{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	out := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		v, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
