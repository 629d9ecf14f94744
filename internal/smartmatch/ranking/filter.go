// internal/smartmatch/ranking/filter.go
package ranking

import (
	"smartmatch/internal/models"
	"smartmatch/internal/smartmatch/geo"
)

// ScoredCandidate pairs a candidate with its computed distance from the
// search origin. Score is filled in by Rank.
type ScoredCandidate struct {
	Candidate  models.Candidate
	DistanceKm float64
	Score      float64
}

// FilterCandidates reduces the pool to candidates within radiusKm of the
// origin. Candidates with a missing position or negative price are dropped
// defensively even though the storage query already excludes them. The
// result is unsorted; ordering belongs to the scorer. A non-positive
// radius or empty pool yields an empty result, not an error.
func FilterCandidates(pool []models.Candidate, origin models.Position, radiusKm float64) []ScoredCandidate {
	if radiusKm <= 0 || len(pool) == 0 {
		return nil
	}

	var out []ScoredCandidate
	for _, c := range pool {
		if c.Position == nil || c.HourlyPrice < 0 {
			continue
		}
		d := geo.DistanceKm(origin.Lat, origin.Lng, c.Position.Lat, c.Position.Lng)
		if d > radiusKm {
			continue
		}
		out = append(out, ScoredCandidate{Candidate: c, DistanceKm: d})
	}
	return out
}
