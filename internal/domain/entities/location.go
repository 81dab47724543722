package entities

import "math"

// Coordinate is a latitude/longitude pair in decimal degrees.
//
// Go Learning Note — Value Types vs Reference Types:
// Coordinate is a small, immutable data holder (16 bytes). It is passed by
// value everywhere. Where a coordinate may be absent, a *Coordinate is used
// instead, and nil means "no coordinate" rather than a (0, 0) point in the
// Gulf of Guinea.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinate creates a Coordinate value from latitude and longitude.
func NewCoordinate(lat, lng float64) Coordinate {
	return Coordinate{Lat: lat, Lng: lng}
}

// CoordinateFrom builds a *Coordinate from optional lat/lng fields as they
// are stored on listings, people and profiles. Both must be present.
func CoordinateFrom(lat, lng *float64) *Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	c := Coordinate{Lat: *lat, Lng: *lng}
	return &c
}

// Valid reports whether both components are finite and within range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// LocationSource records which mechanism supplied the reference coordinate.
type LocationSource string

const (
	LocationSourceNone    LocationSource = "none"
	LocationSourceProfile LocationSource = "profile"
	LocationSourceManual  LocationSource = "manual"
	LocationSourceGPS     LocationSource = "gps"
)

// GPSDisplayAddress is shown instead of a street address for device fixes.
const GPSDisplayAddress = "GPS"

// LocationContext is the searcher's active reference location together with
// its provenance. A context is replaced as a whole when a new source is
// chosen; fields are never merged from two sources.
type LocationContext struct {
	Coordinate     *Coordinate    `json:"coordinate,omitempty"`
	Source         LocationSource `json:"source"`
	DisplayAddress string         `json:"display_address,omitempty"`
}

// NoLocation is the context of a session that has not resolved anything yet.
func NoLocation() LocationContext {
	return LocationContext{Source: LocationSourceNone}
}

// NewLocationContext creates an active context for the given source.
func NewLocationContext(coord Coordinate, source LocationSource, displayAddress string) LocationContext {
	return LocationContext{
		Coordinate:     &coord,
		Source:         source,
		DisplayAddress: displayAddress,
	}
}

// Active reports whether the context carries a usable reference coordinate.
func (l LocationContext) Active() bool {
	return l.Coordinate != nil && l.Coordinate.Valid()
}

// GeocodeResult is what a geocoder returns for one address, and what the
// geocode cache stores under the normalized address key.
type GeocodeResult struct {
	Coordinate       Coordinate `json:"coordinate"`
	FormattedAddress string     `json:"formatted_address"`
}
