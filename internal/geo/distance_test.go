package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKM(t *testing.T) {
	// Boryspil (KBP) to Frankfurt (FRA), great-circle roughly 1500 km
	kbpLat, kbpLon := 50.345, 30.894722
	fraLat, fraLon := 50.033333, 8.570556

	d := DistanceKM(kbpLat, kbpLon, fraLat, fraLon)
	assert.InDelta(t, 1590, d, 30)
}

func TestDistanceKMSymmetric(t *testing.T) {
	a := DistanceKM(50.345, 30.894722, 40.639722, -73.778889)
	b := DistanceKM(40.639722, -73.778889, 50.345, 30.894722)
	assert.Equal(t, a, b)
}

func TestDistanceKMZeroForSamePoint(t *testing.T) {
	assert.Equal(t, int64(0), DistanceKM(50.345, 30.894722, 50.345, 30.894722))
}

func TestDistanceKMAcrossAntimeridian(t *testing.T) {
	// Auckland to Papeete crosses 180 degrees; must not wrap to a
	// near-circumference value
	d := DistanceKM(-37.008056, 174.791667, -17.556667, -149.611389)
	assert.Greater(t, d, int64(3500))
	assert.Less(t, d, int64(4500))
}
