// internal/smartmatch/ranking/badges_test.go
package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"smartmatch/internal/models"
)

func refsWithP25(p25 float64) models.PriceRefs {
	return models.PriceRefs{P5: 5, P25: &p25, P95: 50}
}

func TestAssignBadges_BestPrice(t *testing.T) {
	sc := ScoredCandidate{
		Candidate:  models.Candidate{ID: "x", HourlyPrice: 8},
		DistanceKm: 2,
	}

	badges := AssignBadges(sc, refsWithP25(10), nil)
	assert.Contains(t, badges, BadgeBestPrice)

	sc.Candidate.HourlyPrice = 12
	badges = AssignBadges(sc, refsWithP25(10), nil)
	assert.NotContains(t, badges, BadgeBestPrice)
}

func TestAssignBadges_BestPriceRequiresKnownP25(t *testing.T) {
	sc := ScoredCandidate{
		Candidate:  models.Candidate{ID: "x", HourlyPrice: 1},
		DistanceKm: 2,
	}

	badges := AssignBadges(sc, models.PriceRefs{P5: 5, P95: 50}, nil)
	assert.NotContains(t, badges, BadgeBestPrice)
}

func TestAssignBadges_NearYou(t *testing.T) {
	sc := ScoredCandidate{
		Candidate:  models.Candidate{ID: "x", HourlyPrice: 20},
		DistanceKm: 0.5,
	}
	assert.Contains(t, AssignBadges(sc, refsWithP25(10), nil), BadgeNearYou)

	sc.DistanceKm = 0.8
	assert.Contains(t, AssignBadges(sc, refsWithP25(10), nil), BadgeNearYou)

	sc.DistanceKm = 0.81
	assert.NotContains(t, AssignBadges(sc, refsWithP25(10), nil), BadgeNearYou)
}

func TestAssignBadges_DesiredAmenities(t *testing.T) {
	sc := ScoredCandidate{
		Candidate: models.Candidate{
			ID:          "x",
			HourlyPrice: 20,
			Amenities:   []string{"covered", "24h-security", "ev-charging"},
		},
		DistanceKm: 2,
	}

	badges := AssignBadges(sc, refsWithP25(10), []string{"covered", "24h-security"})
	assert.Contains(t, badges, BadgeDesiredAmenities)

	badges = AssignBadges(sc, refsWithP25(10), []string{"covered", "car-wash"})
	assert.NotContains(t, badges, BadgeDesiredAmenities)

	// Empty desired set never produces the badge.
	badges = AssignBadges(sc, refsWithP25(10), nil)
	assert.NotContains(t, badges, BadgeDesiredAmenities)
}

func TestAssignBadges_MultipleAndNone(t *testing.T) {
	sc := ScoredCandidate{
		Candidate: models.Candidate{
			ID:          "x",
			HourlyPrice: 8,
			Amenities:   []string{"covered"},
		},
		DistanceKm: 0.3,
	}

	badges := AssignBadges(sc, refsWithP25(10), []string{"covered"})
	assert.ElementsMatch(t, []string{BadgeBestPrice, BadgeNearYou, BadgeDesiredAmenities}, badges)

	none := ScoredCandidate{
		Candidate:  models.Candidate{ID: "y", HourlyPrice: 40},
		DistanceKm: 3,
	}
	assert.Empty(t, AssignBadges(none, refsWithP25(10), nil))
}
