package kernel

import (
	"errors"
	"fmt"
	"math"

	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

const (
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0
	LongitudeMin = -180.0
	LongitudeMax = 180.0

	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0
)

var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint or GeoPointFromPair")

// GeoPoint is a WGS84 coordinate.
//
// Example:
//
//	p, err := kernel.NewGeoPoint(12.9716, 77.5946)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(p) // (12.971600, 77.594600)
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint after checking both axes are finite and in range.
//
// Parameters:
//   - latitude: degrees in [-90..90]
//   - longitude: degrees in [-180..180]
//
// Returns:
//   - GeoPoint: a valid point
//   - error: ValueIsOutOfRangeError or ValueIsInvalidError per bad axis, joined
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	p := GeoPoint{guard: guard.NewConstructorGuard()}
	if err := errors.Join(p.setLatitude(latitude), p.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}
	return p, nil
}

// GeoPointFromPair builds a GeoPoint from a [latitude, longitude] pair as it
// arrives from address records and request bodies. Anything other than
// exactly two elements is rejected.
func GeoPointFromPair(pair []float64) (GeoPoint, error) {
	if len(pair) != 2 {
		return GeoPoint{}, errs.NewValueIsInvalidErrorWithCause(
			"coordinates", fmt.Errorf("expected [latitude, longitude], got %d values", len(pair)))
	}
	return NewGeoPoint(pair[0], pair[1])
}

// Validate reports whether the point was built by a constructor.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// Pair returns the point as [latitude, longitude].
func (p GeoPoint) Pair() []float64 {
	return []float64{p.latitude, p.longitude}
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("(%f, %f)", p.latitude, p.longitude)
}

// DistanceKm returns the great-circle distance between two points in kilometres,
// computed with the haversine formula.
//
// Returns:
//   - float64: distance in km, symmetric and zero for identical points
//   - error: validation error if either point is a zero value
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := toRadians(p.latitude)
	lat2 := toRadians(other.latitude)
	dLat := lat2 - lat1
	dLng := toRadians(other.longitude - p.longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h))), nil
}

// BoundingBox returns the lat/lng rectangle that contains every point within
// radiusKm of p. Repositories use it as a coarse index filter before the exact
// distance check. Near the poles the longitude span widens to the full range.
func (p GeoPoint) BoundingBox(radiusKm float64) (BoundingBox, error) {
	if err := p.Validate(); err != nil {
		return BoundingBox{}, err
	}
	if radiusKm <= 0 || math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) {
		return BoundingBox{}, errs.NewValueIsOutOfRangeError("radiusKm", radiusKm, 0, math.Inf(1))
	}

	dLat := radiusKm / EarthRadiusKm * 180 / math.Pi
	box := BoundingBox{
		MinLatitude:  math.Max(LatitudeMin, p.latitude-dLat),
		MaxLatitude:  math.Min(LatitudeMax, p.latitude+dLat),
		MinLongitude: LongitudeMin,
		MaxLongitude: LongitudeMax,
	}

	// The widest longitude on a circle of angular radius r around latitude
	// lat is asin(sin r / cos lat), reached north of lat in the northern
	// hemisphere.
	cosLat := math.Cos(toRadians(p.latitude))
	if box.MinLatitude > LatitudeMin && box.MaxLatitude < LatitudeMax && cosLat > 0 {
		if s := math.Sin(radiusKm/EarthRadiusKm) / cosLat; s < 1 {
			dLng := math.Asin(s) * 180 / math.Pi
			box.MinLongitude = p.longitude - dLng
			box.MaxLongitude = p.longitude + dLng
		}
	}
	return box, nil
}

func (p *GeoPoint) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || math.IsInf(latitude, 0) {
		return errs.NewValueIsInvalidError("latitude")
	}
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}
	p.latitude = latitude
	return nil
}

func (p *GeoPoint) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) {
		return errs.NewValueIsInvalidError("longitude")
	}
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}
	p.longitude = longitude
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// BoundingBox is an axis-aligned lat/lng rectangle. When the box crosses the
// antimeridian MinLongitude is below -180 or MaxLongitude above 180.
type BoundingBox struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

// CrossesAntimeridian reports whether the longitude range wraps around ±180.
func (b BoundingBox) CrossesAntimeridian() bool {
	return b.MinLongitude < LongitudeMin || b.MaxLongitude > LongitudeMax
}

// Contains reports whether p lies inside the box, wrapping longitudes when
// the box crosses the antimeridian.
func (b BoundingBox) Contains(p GeoPoint) bool {
	lat, lng := p.Latitude(), p.Longitude()
	if lat < b.MinLatitude || lat > b.MaxLatitude {
		return false
	}
	if lng >= b.MinLongitude && lng <= b.MaxLongitude {
		return true
	}
	return lng+360 <= b.MaxLongitude || lng-360 >= b.MinLongitude
}
