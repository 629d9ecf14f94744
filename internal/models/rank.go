// internal/models/rank.go
package models

// PriceRefs holds the reference percentiles used to normalize prices.
// P25 is optional; the best-price badge is only assigned when it is known.
type PriceRefs struct {
	P5  float64
	P95 float64
	P25 *float64
}

// RankRequest is built once per user-triggered search and discarded after
// use. PriceWeight and DistanceWeight are independent linear coefficients;
// they are not required to sum to 1.
type RankRequest struct {
	Origin           Position
	RadiusKm         float64
	PriceWeight      float64
	DistanceWeight   float64
	PriceRefs        PriceRefs
	DesiredAmenities []string
	MaxResults       int
}

// RankedItem is the output unit of the ranking engine. Score is lower-is-
// better; DistanceKm is rounded to two decimals.
type RankedItem struct {
	ID          string   `json:"id"`
	DistanceKm  float64  `json:"dist_km"`
	HourlyPrice float64  `json:"preco_hora"`
	Score       float64  `json:"score"`
	Badges      []string `json:"badges"`
}

// SearchParams are the user-tunable inputs accepted by the recommendation
// controller. PriceMin/PriceMax, when PriceMax > PriceMin, override the
// percentile references for price normalization.
type SearchParams struct {
	Lat              *float64 `json:"lat"`
	Lng              *float64 `json:"lng"`
	RadiusKm         float64  `json:"radius_km"`
	PriceWeight      *float64 `json:"peso_preco"`
	DistanceWeight   *float64 `json:"peso_dist"`
	PriceMin         float64  `json:"preco_min"`
	PriceMax         float64  `json:"preco_max"`
	DesiredAmenities []string `json:"recursos_desejados"`
	City             string   `json:"cidade"`
	MaxResults       int      `json:"max_results"`
}
