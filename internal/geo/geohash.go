package geo

import (
	"math"
	"strings"

	"buurtmarkt/internal/domain/entities"
)

// Geohash cells let the candidate stores skip records that are obviously too
// far away before the exact distance is computed.
//
// Go Learning Note — What is a Geohash?
// A geohash encodes a latitude/longitude pair into a short string by
// bisecting the longitude and latitude ranges alternately, five bits per
// base32 character. Nearby points usually share a prefix, and every prefix
// names a rectangular cell. Cell size by precision:
//
//	1 → ~5000 km    3 → ~156 km    5 → ~5 km
//	2 → ~1250 km    4 → ~39 km     6 → ~1.2 km
//
// Search radii here are tens of kilometres, so the stores index at
// precision 3.

// DefaultCellPrecision is the geohash length used by the candidate stores.
const DefaultCellPrecision = 3

const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// kmPerDegree is the length of one degree of latitude (and of longitude at
// the equator) on the haversine sphere.
var kmPerDegree = 2 * math.Pi * EarthRadiusKm / 360

// Encode converts a coordinate to a geohash of the given precision (1..12).
func Encode(c entities.Coordinate, precision int) string {
	precision = clampPrecision(precision)

	latLo, latHi := -90.0, 90.0
	lngLo, lngHi := -180.0, 180.0

	var b strings.Builder
	b.Grow(precision)
	idx, bits := 0, 0
	lngTurn := true
	for b.Len() < precision {
		idx <<= 1
		if lngTurn {
			if mid := (lngLo + lngHi) / 2; c.Lng >= mid {
				idx |= 1
				lngLo = mid
			} else {
				lngHi = mid
			}
		} else {
			if mid := (latLo + latHi) / 2; c.Lat >= mid {
				idx |= 1
				latLo = mid
			} else {
				latHi = mid
			}
		}
		lngTurn = !lngTurn
		if bits++; bits == 5 {
			b.WriteByte(base32[idx])
			idx, bits = 0, 0
		}
	}
	return b.String()
}

// Cell is the bounding box named by a geohash.
type Cell struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// Center returns the midpoint of the cell.
func (c Cell) Center() entities.Coordinate {
	return entities.NewCoordinate((c.MinLat+c.MaxLat)/2, (c.MinLng+c.MaxLng)/2)
}

// DecodeCell returns the bounding box of hash. Characters outside the
// geohash alphabet are skipped.
func DecodeCell(hash string) Cell {
	cell := Cell{MinLat: -90, MaxLat: 90, MinLng: -180, MaxLng: 180}
	lngTurn := true
	for i := 0; i < len(hash); i++ {
		v := strings.IndexByte(base32, hash[i])
		if v < 0 {
			continue
		}
		for shift := 4; shift >= 0; shift-- {
			set := v>>shift&1 == 1
			if lngTurn {
				mid := (cell.MinLng + cell.MaxLng) / 2
				if set {
					cell.MinLng = mid
				} else {
					cell.MaxLng = mid
				}
			} else {
				mid := (cell.MinLat + cell.MaxLat) / 2
				if set {
					cell.MinLat = mid
				} else {
					cell.MaxLat = mid
				}
			}
			lngTurn = !lngTurn
		}
	}
	return cell
}

// CellSizeDegrees returns the latitude and longitude extent of a cell at
// precision. Longitude receives the extra bit when the bit count is odd.
func CellSizeDegrees(precision int) (latDeg, lngDeg float64) {
	bits := 5 * clampPrecision(precision)
	lngBits := (bits + 1) / 2
	latBits := bits / 2
	return 180 / math.Exp2(float64(latBits)), 360 / math.Exp2(float64(lngBits))
}

// Block returns the 3x3 block of cells centred on hash: the cell itself and
// its eight neighbours. Neighbours are found by stepping one cell size from
// the centre, so longitude wraps at the antimeridian. Rows beyond a pole are
// left out.
func Block(hash string) []string {
	precision := len(hash)
	center := DecodeCell(hash).Center()
	latDeg, lngDeg := CellSizeDegrees(precision)

	seen := make(map[string]bool, 9)
	block := make([]string, 0, 9)
	for _, dLat := range []float64{0, 1, -1} {
		lat := center.Lat + dLat*latDeg
		if lat < -90 || lat > 90 {
			continue
		}
		for _, dLng := range []float64{0, 1, -1} {
			lng := wrapLongitude(center.Lng + dLng*lngDeg)
			h := Encode(entities.NewCoordinate(lat, lng), precision)
			if !seen[h] {
				seen[h] = true
				block = append(block, h)
			}
		}
	}
	return block
}

// BlockCoverageKm returns a radius that the 3x3 block around any point at
// latitude lat is guaranteed to contain. It is 0 when the block touches a
// pole and cannot cover anything reliably.
func BlockCoverageKm(precision int, lat float64) float64 {
	latDeg, lngDeg := CellSizeDegrees(precision)
	// The farthest row the centre cell can reach on the poleward side.
	worst := math.Abs(lat) + 2*latDeg
	if worst >= 90 {
		return 0
	}
	northSouth := latDeg * kmPerDegree
	eastWest := lngDeg * kmPerDegree * math.Cos(worst*math.Pi/180)
	// Haversine distance across a meridian gap is slightly less than the
	// parallel arc; 10% covers that for any cell size used here.
	return 0.9 * math.Min(northSouth, eastWest)
}

func wrapLongitude(lng float64) float64 {
	for lng >= 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}

func clampPrecision(p int) int {
	switch {
	case p <= 0:
		return DefaultCellPrecision
	case p > 12:
		return 12
	}
	return p
}
