package entities

import "time"

// Profile is the stored profile of a searcher. When it carries coordinates
// they become the session's initial reference location.
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	CountryCode string    `json:"country_code,omitempty"`
	Place       string    `json:"place,omitempty"`
	Lat         *float64  `json:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewProfile(userID, displayName, countryCode string) *Profile {
	return &Profile{
		UserID:      userID,
		DisplayName: displayName,
		CountryCode: countryCode,
		CreatedAt:   time.Now(),
	}
}

// Coordinate returns the stored location, or nil when the profile has none.
func (p *Profile) Coordinate() *Coordinate {
	return CoordinateFrom(p.Lat, p.Lng)
}

// SetLocation stores a place name and coordinate on the profile.
func (p *Profile) SetLocation(place string, c Coordinate) {
	lat, lng := c.Lat, c.Lng
	p.Place = place
	p.Lat = &lat
	p.Lng = &lng
}

// Session is one searcher's discovery session. It owns exactly one active
// LocationContext (held by the location resolver, not here).
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	CountryCode string    `json:"country_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewSession(id, userID, countryCode string) *Session {
	return &Session{
		ID:          id,
		UserID:      userID,
		CountryCode: countryCode,
		CreatedAt:   time.Now(),
	}
}
