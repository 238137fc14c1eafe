package ports

import (
	"context"

	"logistics/internal/core/domain/model/branch"
	"logistics/internal/core/domain/model/kernel"
)

// BranchRepository defines the persistence contract for branch aggregates.
// Order and partner memberships are written with set semantics: saving a
// branch never duplicates a membership, and order memberships are never removed.
type BranchRepository interface {
	Add(ctx context.Context, aggregate *branch.Branch) error
	Update(ctx context.Context, aggregate *branch.Branch) error
	Get(ctx context.Context, id kernel.UUID) (*branch.Branch, error)

	// GetForUpdate is Get with the branch locked until the transaction ends.
	// Locks are taken order first, then partners, then branches.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*branch.Branch, error)

	// FindWithin returns the branches located inside box. The box is a coarse
	// pre-filter; callers compute exact distances themselves.
	//
	// Example:
	//   box, _ := origin.BoundingBox(500)
	//   candidates, err := repo.FindWithin(ctx, box)
	FindWithin(ctx context.Context, box kernel.BoundingBox) ([]*branch.Branch, error)
}
