package ports

import (
	"context"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/partner"
)

// DeliveryPartnerRepository defines the persistence contract for delivery partners.
type DeliveryPartnerRepository interface {
	Add(ctx context.Context, aggregate *partner.DeliveryPartner) error

	// Update persists the partner's branch, earnings and current orders. The
	// current order set is replaced by the aggregate's.
	// Earnings are saved as an increment of the partner's unsaved credit.
	Update(ctx context.Context, aggregate *partner.DeliveryPartner) error

	Get(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error)

	// GetForUpdate is Get with the partner locked until the transaction ends.
	// Handlers that save a partner load it this way, after locking the order.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error)

	// ListIDs returns the ids of all partners, ordered by id.
	ListIDs(ctx context.Context) ([]kernel.UUID, error)
}
