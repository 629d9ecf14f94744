// internal/smartmatch/scoring/scoring.go
package scoring

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"smartmatch/internal/models"
)

// Normalize maps value into [0,1] by linear scaling against the reference
// range. Values below lowRef clamp to 0, above highRef to 1. A degenerate
// range (highRef <= lowRef) returns 0 for all inputs; this is a documented
// edge case, not an error.
func Normalize(value, lowRef, highRef float64) float64 {
	if highRef <= lowRef {
		return 0
	}
	n := (value - lowRef) / (highRef - lowRef)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// Score blends normalized price and normalized distance into a single
// lower-is-better value:
//
//	score = priceWeight*normalize(price, p5, p95) + distWeight*normalize(dist, 0, radius)
//
// Percentile-based price normalization keeps one outlier listing from
// compressing the effective range for everyone.
func Score(price, distKm float64, req *models.RankRequest) float64 {
	priceNorm := Normalize(price, req.PriceRefs.P5, req.PriceRefs.P95)
	distNorm := Normalize(distKm, 0, req.RadiusKm)
	return req.PriceWeight*priceNorm + req.DistanceWeight*distNorm
}

// PoolRefs derives reference percentiles empirically from the in-request
// candidate pool, for when no precomputed statistics are available. Returns
// a degenerate zero range for an empty pool.
func PoolRefs(prices []float64) models.PriceRefs {
	if len(prices) == 0 {
		return models.PriceRefs{}
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	p25 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	return models.PriceRefs{
		P5:  stat.Quantile(0.05, stat.Empirical, sorted, nil),
		P95: stat.Quantile(0.95, stat.Empirical, sorted, nil),
		P25: &p25,
	}
}
