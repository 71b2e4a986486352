// Package geo holds the pure distance and discovery-shape math used by plan
// discovery and projections. Nothing here performs I/O.
package geo

import "math"

const (
	// meanEarthRadiusM is used for point-to-point distances.
	meanEarthRadiusM = 6371008.8
	// EquatorialRadiusKm converts discovery radii into angular distances, matching
	// the radius the store uses for $centerSphere queries.
	EquatorialRadiusKm = 6378.1
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies within the latitude/longitude ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Distance returns the great-circle distance between a and b in metres.
func Distance(a, b Point) float64 {
	return meanEarthRadiusM * angle(a, b)
}

// Cap is a spherical cap: every point whose angular distance from Center is at
// most Radians.
type Cap struct {
	Center  Point
	Radians float64
}

// DiscoveryQuery builds the cap selecting everything within radiusKm of center.
func DiscoveryQuery(center Point, radiusKm float64) Cap {
	if radiusKm < 0 {
		radiusKm = 0
	}
	return Cap{Center: center, Radians: radiusKm / EquatorialRadiusKm}
}

// Contains evaluates the cap predicate in memory, using the same sphere the
// store uses so both sides agree on the boundary.
func (c Cap) Contains(p Point) bool {
	return angle(c.Center, p) <= c.Radians
}

func angle(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := lat2 - lat1
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	if h > 1 {
		h = 1
	}
	return 2 * math.Asin(math.Sqrt(h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
