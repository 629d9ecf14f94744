// internal/smartmatch/ranking/badges.go
package ranking

import "smartmatch/internal/models"

// Proximity threshold for the "near you" badge. Fixed, not user-tunable.
const nearYouThresholdKm = 0.8

const (
	BadgeBestPrice        = "best price in area"
	BadgeNearYou          = "near you"
	BadgeDesiredAmenities = "has desired amenities"
)

// AssignBadges derives the descriptive tags for a single ranked candidate.
// Badges never affect score or sort order; each rule is evaluated
// independently and a candidate may receive zero, one, or several.
func AssignBadges(sc ScoredCandidate, refs models.PriceRefs, desired []string) []string {
	badges := []string{}

	if refs.P25 != nil && sc.Candidate.HourlyPrice <= *refs.P25 {
		badges = append(badges, BadgeBestPrice)
	}
	if sc.DistanceKm <= nearYouThresholdKm {
		badges = append(badges, BadgeNearYou)
	}
	if len(desired) > 0 && sc.Candidate.HasAmenities(desired) {
		badges = append(badges, BadgeDesiredAmenities)
	}

	return badges
}
