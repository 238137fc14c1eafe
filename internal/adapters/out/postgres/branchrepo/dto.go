// Package branchrepo persists branch aggregates: the branch row plus its
// order and partner memberships, each kept in its own join table.
package branchrepo

import (
	"logistics/internal/core/domain/model/branch"
	"logistics/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// BranchDTO represents the database structure for persisting branch aggregates.
type BranchDTO struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Name      string             `gorm:"type:varchar(255);not null"`
	Latitude  float64            `gorm:"type:double precision;not null;index:idx_branches_location,priority:1"`
	Longitude float64            `gorm:"type:double precision;not null;index:idx_branches_location,priority:2"`
	Orders    []BranchOrderDTO   `gorm:"foreignKey:BranchID;constraint:OnDelete:CASCADE"`
	Partners  []BranchPartnerDTO `gorm:"foreignKey:BranchID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for branch entities.
func (BranchDTO) TableName() string {
	return "branches"
}

// BranchOrderDTO records that an order was routed through a branch. Rows are
// only ever inserted.
type BranchOrderDTO struct {
	BranchID uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (BranchOrderDTO) TableName() string {
	return "branch_orders"
}

// BranchPartnerDTO is one entry of a branch's partner roster.
type BranchPartnerDTO struct {
	BranchID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	PartnerID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

func (BranchPartnerDTO) TableName() string {
	return "branch_partners"
}

func fromDomain(aggregate *branch.Branch) BranchDTO {
	id := aggregate.ID().Bytes()

	orders := make([]BranchOrderDTO, 0, len(aggregate.OrderIDs()))
	for _, o := range aggregate.OrderIDs() {
		orders = append(orders, BranchOrderDTO{BranchID: id, OrderID: o.Bytes()})
	}
	partners := make([]BranchPartnerDTO, 0, len(aggregate.PartnerIDs()))
	for _, p := range aggregate.PartnerIDs() {
		partners = append(partners, BranchPartnerDTO{BranchID: id, PartnerID: p.Bytes()})
	}

	return BranchDTO{
		ID:        id,
		Name:      aggregate.Name(),
		Latitude:  aggregate.Location().Latitude(),
		Longitude: aggregate.Location().Longitude(),
		Orders:    orders,
		Partners:  partners,
	}
}

func toDomain(dto BranchDTO) (*branch.Branch, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	orderIDs := make([]kernel.UUID, 0, len(dto.Orders))
	for _, o := range dto.Orders {
		orderID, err := kernel.UUIDFromBytes(o.OrderID[:])
		if err != nil {
			return nil, err
		}
		orderIDs = append(orderIDs, orderID)
	}
	partnerIDs := make([]kernel.UUID, 0, len(dto.Partners))
	for _, p := range dto.Partners {
		partnerID, err := kernel.UUIDFromBytes(p.PartnerID[:])
		if err != nil {
			return nil, err
		}
		partnerIDs = append(partnerIDs, partnerID)
	}

	return branch.RestoreBranch(id, dto.Name, location, orderIDs, partnerIDs)
}
