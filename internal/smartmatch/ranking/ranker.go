// internal/smartmatch/ranking/ranker.go
package ranking

import (
	"sort"

	"smartmatch/internal/models"
	"smartmatch/internal/smartmatch/geo"
	"smartmatch/internal/smartmatch/scoring"
)

// Rank computes the local ranking: filter by radius, score every survivor,
// sort ascending by score with a stable ID tie-break, cap AFTER sorting so
// the full candidate set participates in ordering, then attach badges.
// Deterministic for fixed inputs.
func Rank(req *models.RankRequest, pool []models.Candidate) []models.RankedItem {
	filtered := FilterCandidates(pool, req.Origin, req.RadiusKm)
	if len(filtered) == 0 {
		return []models.RankedItem{}
	}

	for i := range filtered {
		filtered[i].Score = scoring.Score(filtered[i].Candidate.HourlyPrice, filtered[i].DistanceKm, req)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Score != filtered[j].Score {
			return filtered[i].Score < filtered[j].Score
		}
		return filtered[i].Candidate.ID < filtered[j].Candidate.ID
	})

	if req.MaxResults > 0 && len(filtered) > req.MaxResults {
		filtered = filtered[:req.MaxResults]
	}

	items := make([]models.RankedItem, 0, len(filtered))
	for _, sc := range filtered {
		items = append(items, models.RankedItem{
			ID:          sc.Candidate.ID,
			DistanceKm:  geo.RoundKm(sc.DistanceKm),
			HourlyPrice: sc.Candidate.HourlyPrice,
			Score:       sc.Score,
			Badges:      AssignBadges(sc, req.PriceRefs, req.DesiredAmenities),
		})
	}
	return items
}
