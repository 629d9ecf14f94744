// internal/smartmatch/geo/distance.go
package geo

import "math"

const earthRadiusKm = 6371.0

// DistanceKm computes the great-circle distance between two points using
// the haversine formula. Result is in kilometers; symmetric and zero for
// identical points. Callers validate coordinate ranges beforehand.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := degreesToRadians(lat1)
	lat2Rad := degreesToRadians(lat2)
	deltaLat := degreesToRadians(lat2 - lat1)
	deltaLng := degreesToRadians(lng2 - lng1)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// RoundKm rounds a distance to the two-decimal precision used in ranked
// output.
func RoundKm(d float64) float64 {
	return math.Round(d*100) / 100
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
