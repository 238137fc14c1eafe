package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// heldStatuses are the partner sub-statuses under which a partner still holds an order.
var heldStatuses = []string{
	string(order.PartnerStatusAssigned),
	string(order.PartnerStatusAccepted),
	string(order.PartnerStatusPickedUp),
	string(order.PartnerStatusInTransit),
	string(order.PartnerStatusPickedUpForReturn),
	string(order.PartnerStatusInTransitToBranch),
}

const unlistedBranchOrdersSQL = `
SELECT o.id, o.branch_id
FROM orders o
JOIN branches b ON b.id = o.branch_id
LEFT JOIN branch_orders bo ON bo.branch_id = o.branch_id AND bo.order_id = o.id
WHERE bo.order_id IS NULL
ORDER BY o.branch_id, o.id`

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database with version 1.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	aggregate.MarkPersisted(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order if the stored version still equals the
// version the aggregate was loaded with.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	dto := fromDomain(aggregate)
	dto.Version = expected + 1

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("order", aggregate.ID().String())
		}
		return errs.NewVersionIsInvalidError("version",
			fmt.Errorf("order %s changed since version %d was read", aggregate.ID(), expected))
	}

	aggregate.MarkPersisted(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves an order by ID with SELECT ... FOR UPDATE. Outside a
// transaction the lock is released as soon as the statement ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormOrderRepository) get(_ context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindHeldBy returns the ids of orders the partner currently holds.
func (r *GormOrderRepository) FindHeldBy(ctx context.Context, partnerID kernel.UUID) ([]kernel.UUID, error) {
	if err := partnerID.Validate(); err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("delivery_partner_id = ? AND delivery_partner_status = ANY(?::text[])", partnerID.Bytes(), pq.Array(heldStatuses)).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return toKernelIDs(ids)
}

// FindOfferedBefore returns the oldest unanswered offers made before deadline.
func (r *GormOrderRepository) FindOfferedBefore(ctx context.Context, deadline time.Time, limit int) ([]kernel.UUID, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("assignment_status = ? AND assignment_assigned_at < ?", string(order.AssignmentOffered), deadline).
		Order("assignment_assigned_at").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return toKernelIDs(ids)
}

// FindUnlistedBranchOrders returns orders whose branch does not list them.
func (r *GormOrderRepository) FindUnlistedBranchOrders(ctx context.Context) ([]ports.BranchAssignment, error) {
	rows, err := r.db.WithContext(ctx).Raw(unlistedBranchOrdersSQL).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ports.BranchAssignment
	for rows.Next() {
		var orderID, branchID uuid.UUID
		if err := rows.Scan(&orderID, &branchID); err != nil {
			return nil, err
		}
		o, err := kernel.UUIDFromBytes(orderID[:])
		if err != nil {
			return nil, err
		}
		b, err := kernel.UUIDFromBytes(branchID[:])
		if err != nil {
			return nil, err
		}
		out = append(out, ports.BranchAssignment{OrderID: o, BranchID: b})
	}
	return out, rows.Err()
}

func toKernelIDs(ids []uuid.UUID) ([]kernel.UUID, error) {
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
