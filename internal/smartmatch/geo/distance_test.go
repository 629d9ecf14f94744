// internal/smartmatch/geo/distance_test.go
package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_IdenticalPointsAreZero(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(-23.5505, -46.6333, -23.5505, -46.6333))
	assert.Equal(t, 0.0, DistanceKm(0, 0, 0, 0))
}

func TestDistanceKm_Symmetry(t *testing.T) {
	points := [][4]float64{
		{-23.5505, -46.6333, -22.9068, -43.1729}, // São Paulo <-> Rio
		{51.5074, -0.1278, 48.8566, 2.3522},      // London <-> Paris
		{-33.8688, 151.2093, 35.6762, 139.6503},  // Sydney <-> Tokyo
	}
	for _, p := range points {
		ab := DistanceKm(p[0], p[1], p[2], p[3])
		ba := DistanceKm(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
		assert.GreaterOrEqual(t, ab, 0.0)
	}
}

func TestDistanceKm_KnownDistances(t *testing.T) {
	// São Paulo to Rio de Janeiro, roughly 360 km great-circle.
	d := DistanceKm(-23.5505, -46.6333, -22.9068, -43.1729)
	assert.InDelta(t, 360.0, d, 5.0)

	// One degree of latitude is about 111.2 km anywhere.
	d = DistanceKm(-23.5505, -46.6333, -24.5505, -46.6333)
	assert.InDelta(t, 111.2, d, 0.5)
}

func TestDistanceKm_TriangleInequality(t *testing.T) {
	a := [2]float64{-23.5505, -46.6333}
	b := [2]float64{-23.5600, -46.6400}
	c := [2]float64{-23.5700, -46.6200}

	ab := DistanceKm(a[0], a[1], b[0], b[1])
	bc := DistanceKm(b[0], b[1], c[0], c[1])
	ac := DistanceKm(a[0], a[1], c[0], c[1])

	assert.LessOrEqual(t, ac, ab+bc+1e-9)
}

func TestRoundKm(t *testing.T) {
	assert.Equal(t, 1.02, RoundKm(1.0199))
	assert.Equal(t, 0.0, RoundKm(0.0049))
	assert.Equal(t, 3.46, RoundKm(3.456))
}
