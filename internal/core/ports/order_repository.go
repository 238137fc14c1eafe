// Package ports defines the contracts between the fulfillment core and its
// infrastructure: repositories, the unit of work, event publication and
// metrics. Adapters implement them; the core depends only on these interfaces.
package ports

import (
	"context"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
)

// BranchAssignment pairs an order with the branch it is assigned to.
type BranchAssignment struct {
	OrderID  kernel.UUID
	BranchID kernel.UUID
}

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order. The order must not exist yet.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order with a version
	// compare-and-swap. A stale aggregate yields a VersionIsInvalidError.
	// On success the aggregate's version is advanced.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order by id and locks its row until the
	// enclosing transaction ends. Every command that mutates an order loads
	// it through this method.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindHeldBy returns the ids of the orders that name partnerID as their
	// delivery partner with a non-terminal partner status. It is the source of
	// truth the partner's current orders are repaired from.
	FindHeldBy(ctx context.Context, partnerID kernel.UUID) ([]kernel.UUID, error)

	// FindOfferedBefore returns up to limit ids of orders whose assignment
	// has been offered before deadline and not answered.
	FindOfferedBefore(ctx context.Context, deadline time.Time, limit int) ([]kernel.UUID, error)

	// FindUnlistedBranchOrders returns the orders that reference a branch
	// whose order set does not contain them.
	FindUnlistedBranchOrders(ctx context.Context) ([]BranchAssignment, error)
}
