// internal/models/candidate.go
package models

// Position is a WGS84 point in decimal degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the position is inside the WGS84 coordinate range.
func (p Position) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Candidate is a parking space eligible for ranking. A nil Position marks
// a listing with missing coordinates; the candidate filter drops it before
// scoring.
type Candidate struct {
	ID           string
	Position     *Position
	HourlyPrice  float64
	Amenities    []string
	Neighborhood string
	City         string
	Rating       float64
	Available    bool
}

// HasAmenities reports whether the candidate's amenity set is a superset
// of the desired set. An empty desired set matches everything.
func (c Candidate) HasAmenities(desired []string) bool {
	if len(desired) == 0 {
		return true
	}
	have := make(map[string]bool, len(c.Amenities))
	for _, a := range c.Amenities {
		have[a] = true
	}
	for _, d := range desired {
		if !have[d] {
			return false
		}
	}
	return true
}
