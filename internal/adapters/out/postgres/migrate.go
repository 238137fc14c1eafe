package postgres

import (
	"logistics/internal/adapters/out/postgres/branchrepo"
	"logistics/internal/adapters/out/postgres/orderrepo"
	"logistics/internal/adapters/out/postgres/partnerrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&branchrepo.BranchDTO{}, &branchrepo.BranchOrderDTO{}, &branchrepo.BranchPartnerDTO{},
		&partnerrepo.PartnerDTO{}, &partnerrepo.CurrentOrderDTO{},
	)
}
