package services

import (
	"math"
	"time"

	"logistics/internal/core/domain/model/branch"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"
)

// DefaultMaxBranchRadiusKm is the largest distance at which a branch may serve an order.
const DefaultMaxBranchRadiusKm = 500.0

// BranchLocator is a domain service that matches an order to the nearest
// branch within a fixed radius and binds the two.
//
// Example usage:
//
//	locator := services.NewBranchLocator(services.DefaultMaxBranchRadiusKm)
//	point, err := locator.MatchPoint(o, origin)
//	if err != nil {
//	    return err
//	}
//	candidates, _ := branchRepo.FindWithin(ctx, point, locator.RadiusKm())
//	b, err := locator.Assign(o, point, candidates, time.Now())
//	if errors.Is(err, errs.ErrNoBranchAvailable) {
//	    // retry with another location or escalate
//	}
type BranchLocator struct {
	radiusKm float64
}

// NewBranchLocator creates a locator. A non-positive radius falls back to
// DefaultMaxBranchRadiusKm.
func NewBranchLocator(radiusKm float64) BranchLocator {
	if radiusKm <= 0 || math.IsNaN(radiusKm) {
		radiusKm = DefaultMaxBranchRadiusKm
	}
	return BranchLocator{radiusKm: radiusKm}
}

func (l BranchLocator) RadiusKm() float64 {
	if l.radiusKm <= 0 {
		return DefaultMaxBranchRadiusKm
	}
	return l.radiusKm
}

// MatchPoint returns the coordinate an order is matched against: the
// dispatcher's origin for forward orders, the shipping address for return
// pickups.
//
// Returns:
//   - ValueIsRequiredError when a forward order comes without origin
//   - ValueIsRequiredError or ValueIsInvalidError when a return order has no
//     usable shipping coordinate
func (l BranchLocator) MatchPoint(o *order.Order, origin *kernel.GeoPoint) (kernel.GeoPoint, error) {
	if err := o.Validate(); err != nil {
		return kernel.GeoPoint{}, err
	}
	if o.Mode() == order.ModeReturn {
		return o.PickupPoint()
	}
	if origin == nil {
		return kernel.GeoPoint{}, errs.NewValueIsRequiredError("origin")
	}
	if err := origin.Validate(); err != nil {
		return kernel.GeoPoint{}, errs.NewValueIsInvalidErrorWithCause("origin", err)
	}
	return *origin, nil
}

// Nearest returns the branch closest to point among candidates, ignoring
// those farther than the radius. Ties keep the first candidate.
//
// Returns:
//   - *branch.Branch: the selected branch
//   - float64: its distance in km
//   - error: NoBranchAvailableError when no candidate is in range
func (l BranchLocator) Nearest(point kernel.GeoPoint, candidates []*branch.Branch) (*branch.Branch, float64, error) {
	var (
		best     *branch.Branch
		bestDist = math.MaxFloat64
	)

	for _, b := range candidates {
		if err := b.Validate(); err != nil {
			return nil, 0, err
		}

		d, err := point.DistanceKm(b.Location())
		if err != nil {
			return nil, 0, err
		}

		if d > l.RadiusKm() {
			continue
		}

		if d < bestDist {
			bestDist = d
			best = b
		}
	}

	if best == nil {
		return nil, 0, errs.NewNoBranchAvailableError(point.Latitude(), point.Longitude(), l.RadiusKm())
	}
	return best, bestDist, nil
}

// Assign selects the nearest branch for point and binds it to the order:
// the order moves to shipped (forward) or pending_pickup (return) and the
// branch gains the order in its set. Nothing changes on error.
func (l BranchLocator) Assign(o *order.Order, point kernel.GeoPoint, candidates []*branch.Branch, at time.Time) (*branch.Branch, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	best, _, err := l.Nearest(point, candidates)
	if err != nil {
		return nil, err
	}

	if err = o.AssignToBranch(best.ID(), best.Name(), best.Location(), at); err != nil {
		return nil, err
	}
	best.AddOrder(o.ID())
	return best, nil
}
