// Package partnerrepo persists delivery partner aggregates. The partner's
// current orders live in partner_current_orders, one row per held order.
package partnerrepo

import (
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

// PartnerDTO represents the database structure for persisting delivery partners.
type PartnerDTO struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Name               string            `gorm:"type:varchar(255);not null"`
	BranchID           *uuid.UUID        `gorm:"type:uuid;index"`
	EarningsMinor      int64             `gorm:"not null;default:0"`
	TotalEarningsMinor int64             `gorm:"not null;default:0"`
	CurrentOrders      []CurrentOrderDTO `gorm:"foreignKey:PartnerID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for delivery partners.
func (PartnerDTO) TableName() string {
	return "delivery_partners"
}

// CurrentOrderDTO is one order a partner currently holds.
type CurrentOrderDTO struct {
	PartnerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (CurrentOrderDTO) TableName() string {
	return "partner_current_orders"
}

func fromDomain(aggregate *partner.DeliveryPartner) PartnerDTO {
	id := aggregate.ID().Bytes()

	current := make([]CurrentOrderDTO, 0, len(aggregate.CurrentOrderIDs()))
	for _, o := range aggregate.CurrentOrderIDs() {
		current = append(current, CurrentOrderDTO{PartnerID: id, OrderID: o.Bytes()})
	}

	var branchID *uuid.UUID
	if b := aggregate.BranchID(); b != nil {
		v := b.Bytes()
		branchID = &v
	}

	return PartnerDTO{
		ID:                 id,
		Name:               aggregate.Name(),
		BranchID:           branchID,
		EarningsMinor:      int64(aggregate.Earnings()),
		TotalEarningsMinor: int64(aggregate.TotalEarnings()),
		CurrentOrders:      current,
	}
}

func toDomain(dto PartnerDTO) (*partner.DeliveryPartner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var branchID *kernel.UUID
	if dto.BranchID != nil {
		b, err := kernel.UUIDFromBytes(dto.BranchID[:])
		if err != nil {
			return nil, err
		}
		branchID = &b
	}

	current := make([]kernel.UUID, 0, len(dto.CurrentOrders))
	for _, o := range dto.CurrentOrders {
		orderID, err := kernel.UUIDFromBytes(o.OrderID[:])
		if err != nil {
			return nil, err
		}
		current = append(current, orderID)
	}

	return partner.RestoreDeliveryPartner(id, dto.Name, branchID, current,
		kernel.Money(dto.EarningsMinor), kernel.Money(dto.TotalEarningsMinor))
}
