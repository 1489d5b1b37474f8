package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{39.7392, -104.9903, 40.0150, -105.2705}, // Denver -> Boulder
		{34.0522, -118.2437, 40.7128, -74.0060},  // LA -> NYC
		{-33.8688, 151.2093, 51.5074, -0.1278},   // Sydney -> London
		{0, 0, 0, 0},
	}

	for _, p := range pairs {
		ab := haversineKm(p[0], p[1], p[2], p[3])
		ba := haversineKm(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Denver to Boulder is roughly 38 km as the crow flies.
	km := haversineKm(39.7392, -104.9903, 40.0150, -105.2705)
	assert.InDelta(t, 38, km, 3)

	assert.Zero(t, haversineKm(40, -105, 40, -105))
}

func TestDriveTimeMin(t *testing.T) {
	lat1, lng1 := 39.7392, -104.9903
	lat2, lng2 := 40.0150, -105.2705

	a := Venue{ID: 1, Lat: &lat1, Lng: &lng1}
	b := Venue{ID: 2, Lat: &lat2, Lng: &lng2}

	min, ok := driveTimeMin(a, b)
	assert.True(t, ok)
	// ~38 km at 80 km/h is about half an hour.
	assert.InDelta(t, 29, min, 3)

	_, ok = driveTimeMin(a, Venue{ID: 3})
	assert.False(t, ok)
}
