// Package geo implements the distance engine and the radius policy used by
// discovery: great-circle distances between coordinates, candidate
// annotation, and per-category/per-region search radii.
package geo

import (
	"math"

	"buurtmarkt/internal/domain/entities"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// HaversineDistance calculates the unrounded great-circle distance between
// two points in kilometers.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DistanceKm returns the distance between a and b rounded to one decimal.
// The result is symmetric and DistanceKm(a, a) == 0.
func DistanceKm(a, b entities.Coordinate) float64 {
	return math.Round(HaversineDistance(a.Lat, a.Lng, b.Lat, b.Lng)*10) / 10
}

// Annotate returns a copy of c carrying its distance to ref. The distance is
// nil when there is no reference, when the candidate has no coordinate, or
// when either coordinate is out of range. The wrapped record is not touched.
//
// Go Learning Note — Value Receivers as Copies:
// Candidate is passed by value, so assigning c.DistanceKm only changes this
// function's copy. The Listing/Person pointers inside are shared with the
// caller, which is why Annotate must never write through them.
func Annotate(c entities.Candidate, ref *entities.Coordinate) entities.Candidate {
	c.DistanceKm = nil
	if ref == nil || !ref.Valid() {
		return c
	}
	coord := c.Coordinate()
	if coord == nil || !coord.Valid() {
		return c
	}
	d := DistanceKm(*ref, *coord)
	c.DistanceKm = &d
	return c
}
