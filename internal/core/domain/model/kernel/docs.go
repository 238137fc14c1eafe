// Package kernel holds the value objects shared by every aggregate of the
// logistics domain:
//   - UUID: identifier of orders, branches, partners and users
//   - GeoPoint: a WGS84 coordinate with great-circle distance
//   - BoundingBox: the lat/lng rectangle enclosing a radius around a GeoPoint
//   - Money: an amount in minor currency units
//
// Values are immutable. Zero values are invalid and fail Validate.
package kernel
